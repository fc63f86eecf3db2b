// Package hrmcheck wires the collectors of a checking run: scenario events,
// slog records, browser traffic and outgoing HTTP requests end up in one event tree
// that can be rendered as a report.
package hrmcheck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/report"
	"github.com/networkteam/hrmcheck/scenario"
)

type Instance struct {
	eventCollector      *collector.EventCollector
	logCollector        *collector.LogCollector
	httpClientCollector *collector.HTTPClientCollector
	browserCollector    *collector.BrowserCollector
}

func (i *Instance) Close() {
	i.eventCollector.Close()
}

type Options struct {
	// EventCapacity is the maximum number of top-level events (scenarios) to keep.
	// Default: 0, will use DefaultEventCapacity
	EventCapacity uint64

	// LogCapacity is the maximum number of log entries to keep.
	// Default: 0, will use DefaultLogCapacity
	LogCapacity uint64

	// HTTPClientCapacity is the maximum number of outgoing HTTP requests to keep.
	// Default: 0, will use DefaultHTTPClientCapacity
	HTTPClientCapacity uint64

	// BrowserCapacity is the maximum number of browser exchanges to keep.
	// Default: 0, will use DefaultBrowserCapacity
	BrowserCapacity uint64
	// BrowserOptions are the options for the browser collector.
	// Default: nil, will use collector.DefaultBrowserOptions()
	BrowserOptions *collector.BrowserOptions
}

const (
	DefaultEventCapacity      = 1000
	DefaultLogCapacity        = 1000
	DefaultHTTPClientCapacity = 100
	DefaultBrowserCapacity    = 1000
)

// New creates an instance with default options.
func New() *Instance {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an instance with the specified options.
// Default options are the zero value of Options.
func NewWithOptions(options Options) *Instance {
	eventCollector := collector.NewEventCollector(orDefault(options.EventCapacity, DefaultEventCapacity))

	logOptions := collector.DefaultLogOptions()
	logOptions.EventCollector = eventCollector

	httpClientOptions := collector.DefaultHTTPClientOptions()
	httpClientOptions.EventCollector = eventCollector

	browserOptions := collector.DefaultBrowserOptions()
	if options.BrowserOptions != nil {
		browserOptions = *options.BrowserOptions
	}
	browserOptions.EventCollector = eventCollector

	return &Instance{
		eventCollector:      eventCollector,
		logCollector:        collector.NewLogCollectorWithOptions(orDefault(options.LogCapacity, DefaultLogCapacity), logOptions),
		httpClientCollector: collector.NewHTTPClientCollectorWithOptions(orDefault(options.HTTPClientCapacity, DefaultHTTPClientCapacity), httpClientOptions),
		browserCollector:    collector.NewBrowserCollectorWithOptions(orDefault(options.BrowserCapacity, DefaultBrowserCapacity), browserOptions),
	}
}

// orDefault returns def when capacity is unset, ring buffers cannot hold zero entries.
func orDefault(capacity, def uint64) uint64 {
	if capacity == 0 {
		return def
	}
	return capacity
}

// CollectSlogLogs returns a slog.Handler that collects logs into the event tree.
//
// Use it with slog.New(slogmulti.Fanout(...)) to collect logs in addition to another slog handler.
func (i *Instance) CollectSlogLogs(options collector.CollectSlogLogsOptions) slog.Handler {
	return collector.NewSlogLogCollectorHandler(i.logCollector, options)
}

// CollectHTTPClient wraps an http.RoundTripper to collect outgoing HTTP requests.
func (i *Instance) CollectHTTPClient(transport http.RoundTripper) http.RoundTripper {
	return i.httpClientCollector.Transport(transport)
}

// SessionOptions record browser traffic and page steps of every scenario.
func (i *Instance) SessionOptions() []fixture.Option {
	return []fixture.Option{
		fixture.WithCollector(i.browserCollector),
		fixture.WithTracing(i.eventCollector),
	}
}

// Launch starts a browser session that reports into this instance.
func (i *Instance) Launch(cfg config.Config, opts ...fixture.Option) (*fixture.Session, error) {
	return fixture.Launch(cfg, append(i.SessionOptions(), opts...)...)
}

// NewRunner creates a runner that records every scenario as a top-level event.
func (i *Instance) NewRunner(session *fixture.Session, options scenario.RunnerOptions) *scenario.Runner {
	options.EventCollector = i.eventCollector
	return scenario.NewRunner(session, options)
}

// Events returns up to n top-level events in collection order.
func (i *Instance) Events(n uint64) []*collector.Event {
	return i.eventCollector.GetEvents(n)
}

// Subscribe notifies about every finished top-level event until ctx is done.
func (i *Instance) Subscribe(ctx context.Context) <-chan collector.Event {
	return i.eventCollector.Subscribe(ctx)
}

func (i *Instance) ReportHandler(opts ...report.Option) http.Handler {
	return report.NewHandler(i.eventCollector, opts...)
}
