package report

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"slices"
	"time"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/report/views"
)

type Handler struct {
	eventCollector *collector.EventCollector
	options        options

	mux http.Handler
}

// NewHandler serves the events of the collector: "/" lists them, "/event/{eventId}"
// renders one event with its children and "/events-sse" streams new events.
func NewHandler(eventCollector *collector.EventCollector, opts ...Option) *Handler {
	mux := http.NewServeMux()
	handler := &Handler{
		eventCollector: eventCollector,
		options:        newOptions(opts),
	}
	handler.mux = setViewOptions(handler.options, mux)

	mux.HandleFunc("/", handler.root)
	mux.HandleFunc("/event-list", handler.getEventList)
	mux.HandleFunc("/event/{eventId}", handler.getEventDetails)
	mux.HandleFunc("/events-sse", handler.getEventsSSE)

	return handler
}

func setViewOptions(options options, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := views.WithOptions(r.Context(), views.Options{
			PathPrefix: options.PathPrefix,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var selectedEvent *collector.Event
	if idStr := r.URL.Query().Get("id"); idStr != "" {
		eventID, err := uuid.FromString(idStr)
		if err != nil {
			http.Error(w, "Invalid event id", http.StatusBadRequest)
			return
		}
		event, exists := h.eventCollector.GetEvent(eventID)
		if !exists {
			http.Redirect(w, r, h.options.PathPrefix+"/", http.StatusTemporaryRedirect)
			return
		}
		selectedEvent = event
	}

	templ.Handler(views.Report(views.ReportProps{
		Title:         h.options.Title,
		Generated:     time.Now(),
		Events:        h.loadRecentEvents(),
		SelectedEvent: selectedEvent,
		TruncateAfter: int(h.options.TruncateAfter),
		Live:          true,
	})).ServeHTTP(w, r)
}

func (h *Handler) getEventList(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.EventList(h.loadRecentEvents(), int(h.options.TruncateAfter))).ServeHTTP(w, r)
}

func (h *Handler) getEventDetails(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.FromString(r.PathValue("eventId"))
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	event, exists := h.eventCollector.GetEvent(eventID)
	if !exists {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}

	templ.Handler(views.EventDetail(event)).ServeHTTP(w, r)
}

// getEventsSSE streams finished top-level events as list items
func (h *Handler) getEventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventCh := h.eventCollector.Subscribe(ctx)

	fmt.Fprintf(w, "event: keepalive\ndata: connected\n\n")
	flusher.Flush()

	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventCh:
			if !ok {
				return
			}

			buf.Reset()
			if err := views.EventListItem(&event).Render(ctx, &buf); err != nil {
				return
			}
			// A data line must not contain line breaks
			data := bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte(" "))

			fmt.Fprintf(w, "event: new-event\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// loadRecentEvents returns every buffered event, newest first. Truncation is left to
// the views so they can tell how many events were hidden.
func (h *Handler) loadRecentEvents() []*collector.Event {
	recentEvents := h.eventCollector.GetEvents(math.MaxUint64)
	slices.Reverse(recentEvents)
	return recentEvents
}
