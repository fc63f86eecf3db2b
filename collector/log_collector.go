package collector

import (
	"context"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

// LogCollector keeps recent log records and forwards them into the event tree,
// so that records logged while a scenario runs end up as its children.
type LogCollector struct {
	buffer         *RingBuffer[slog.Record]
	eventCollector *EventCollector
}

func (c *LogCollector) Collect(ctx context.Context, record slog.Record) {
	c.buffer.Add(record)
	if c.eventCollector != nil {
		c.eventCollector.CollectEvent(ctx, record)
	}
}

func (c *LogCollector) Tail(n int) []slog.Record {
	return c.buffer.GetRecords(uint64(n))
}

func NewLogCollector(capacity uint64) *LogCollector {
	return NewLogCollectorWithOptions(capacity, DefaultLogOptions())
}

func DefaultLogOptions() LogOptions {
	return LogOptions{}
}

type LogOptions struct {
	// EventCollector is an optional event collector for collecting logs as grouped events
	EventCollector *EventCollector
}

func NewLogCollectorWithOptions(capacity uint64, options LogOptions) *LogCollector {
	return &LogCollector{
		buffer:         NewRingBuffer[slog.Record](capacity),
		eventCollector: options.EventCollector,
	}
}

type CollectSlogLogsOptions struct {
	// Level is the minimum level of logs to collect.
	Level slog.Level
}

// SlogLogCollectorHandler is a slog.Handler writing into a LogCollector
type SlogLogCollectorHandler struct {
	collector *LogCollector
	options   CollectSlogLogsOptions

	attrs  []slog.Attr
	groups []string
}

func NewSlogLogCollectorHandler(collector *LogCollector, options CollectSlogLogsOptions) *SlogLogCollectorHandler {
	return &SlogLogCollectorHandler{
		collector: collector,
		options:   options,

		attrs:  []slog.Attr{},
		groups: []string{},
	}
}

func (h *SlogLogCollectorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.options.Level <= level
}

func (h *SlogLogCollectorHandler) Handle(ctx context.Context, record slog.Record) error {
	// Handler attributes go before the record attributes, so the record is rebuilt
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	newRecord.AddAttrs(h.attrs...)

	attrs := []slog.Attr{}
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	// Wrap the record attributes into the open groups, innermost first
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{
			slog.Group(h.groups[i], lo.ToAnySlice(attrs)...),
		}
	}
	newRecord.AddAttrs(attrs...)

	h.collector.Collect(ctx, newRecord)

	return nil
}

func (h *SlogLogCollectorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogLogCollectorHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *SlogLogCollectorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &SlogLogCollectorHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}

// Adapted from github.com/samber/slog-mock
func appendAttrsToGroup(groups []string, actualAttrs []slog.Attr, newAttrs ...slog.Attr) []slog.Attr {
	actualAttrs = slices.Clone(actualAttrs)

	if len(groups) == 0 {
		return append(actualAttrs, newAttrs...)
	}

	for i := range actualAttrs {
		attr := actualAttrs[i]
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actualAttrs[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), newAttrs...))...)
			return actualAttrs
		}
	}

	return append(
		actualAttrs,
		slog.Group(
			groups[0],
			lo.ToAnySlice(appendAttrsToGroup(groups[1:], []slog.Attr{}, newAttrs...))...,
		),
	)
}
