package collector

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type ctxKey string

const (
	groupIDKey ctxKey = "groupID"
)

// EventCollector builds the event tree of a run.
// Events collected with a context returned by StartEvent become children of that event.
type EventCollector struct {
	buffer     *LookupRingBuffer[*Event, uuid.UUID]
	openGroups map[uuid.UUID]*Event
	notifier   *Notifier[Event]

	mx sync.RWMutex
}

type EventOptions struct {
	// NotifierOptions are options for notification about finished top-level events
	NotifierOptions *NotifierOptions
}

func DefaultEventOptions() EventOptions {
	return EventOptions{}
}

func NewEventCollector(capacity uint64) *EventCollector {
	return NewEventCollectorWithOptions(capacity, DefaultEventOptions())
}

func NewEventCollectorWithOptions(capacity uint64, options EventOptions) *EventCollector {
	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &EventCollector{
		buffer:     NewLookupRingBuffer[*Event, uuid.UUID](capacity),
		openGroups: make(map[uuid.UUID]*Event),
		notifier:   NewNotifierWithOptions[Event](notifierOptions),
	}
}

func GroupIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if groupID, ok := ctx.Value(groupIDKey).(uuid.UUID); ok {
		return groupID, true
	}
	return uuid.Nil, false
}

func WithGroupID(ctx context.Context, groupID uuid.UUID) context.Context {
	return context.WithValue(ctx, groupIDKey, groupID)
}

// CollectEvent records a finished event. Inside an open group it is appended to
// the group; data collected for a group that has already ended is dropped.
func (c *EventCollector) CollectEvent(ctx context.Context, data any) {
	now := time.Now()
	evt := &Event{
		ID:    generateID(),
		Data:  data,
		Start: now,
		End:   now,
	}
	if timed, ok := data.(Timed); ok {
		evt.Start, evt.End = timed.Timing()
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	if outerGroupID, ok := GroupIDFromContext(ctx); ok {
		evt.GroupID = &outerGroupID
		if outerEvt := c.openGroups[outerGroupID]; outerEvt != nil {
			outerEvt.Children = append(outerEvt.Children, evt)
		}
		return
	}

	c.buffer.Add(evt)
	c.notifier.Notify(*evt)
}

// StartEvent opens a new event and returns a context that groups further events as its children.
// EndEvent must be called with the returned context to finish it.
func (c *EventCollector) StartEvent(ctx context.Context) (newCtx context.Context) {
	evt := &Event{
		ID:    generateID(),
		Start: time.Now(),
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	if outerGroupID, ok := GroupIDFromContext(ctx); ok {
		evt.GroupID = &outerGroupID
	}
	c.openGroups[evt.ID] = evt

	return WithGroupID(ctx, evt.ID)
}

// EndEvent finishes the event opened by StartEvent with its data.
func (c *EventCollector) EndEvent(ctx context.Context, data any) {
	existingGroupID, ok := GroupIDFromContext(ctx)
	if !ok {
		return
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	evt := c.openGroups[existingGroupID]
	if evt == nil {
		return
	}
	delete(c.openGroups, existingGroupID)

	evt.Data = data
	evt.End = time.Now()

	if evt.GroupID != nil {
		if outerEvt := c.openGroups[*evt.GroupID]; outerEvt != nil {
			outerEvt.Children = append(outerEvt.Children, evt)
		}
		return
	}

	c.buffer.Add(evt)
	c.notifier.Notify(*evt)
}

// GetEvents returns the most recent n top-level events, oldest first.
func (c *EventCollector) GetEvents(n uint64) []*Event {
	return c.buffer.GetRecords(n)
}

// GetEvent finds a buffered event by ID, including children of top-level events.
func (c *EventCollector) GetEvent(id uuid.UUID) (*Event, bool) {
	if evt, ok := c.buffer.Lookup(id); ok {
		return evt, true
	}

	c.mx.RLock()
	defer c.mx.RUnlock()
	for _, top := range c.buffer.GetRecords(c.buffer.Capacity()) {
		for childID, child := range top.Visit() {
			if childID == id {
				return child, true
			}
		}
	}
	return nil, false
}

// Subscribe returns a channel that receives finished top-level events
func (c *EventCollector) Subscribe(ctx context.Context) <-chan Event {
	return c.notifier.Subscribe(ctx)
}

// Close releases resources used by the collector
func (c *EventCollector) Close() {
	c.notifier.Close()
}
