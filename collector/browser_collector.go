package collector

import (
	"context"
	"time"

	"github.com/samber/lo"
)

// Exchange is a network request observed by the browser or made by the preflight client.
type Exchange struct {
	Source       string
	Method       string
	URL          string
	ResourceType string
	Status       int
	Headers      map[string]string
	// Failure is the error text of a request that did not receive a response.
	Failure  string
	Start    time.Time
	Duration time.Duration
}

func (e Exchange) Timing() (time.Time, time.Time) {
	return e.Start, e.Start.Add(e.Duration)
}

// Failed reports a missing response or an error status.
func (e Exchange) Failed() bool {
	return e.Failure != "" || e.Status >= 400
}

const (
	SourceBrowser    = "browser"
	SourceHTTPClient = "http-client"
)

// ConsoleMessage is a message the page wrote to the browser console.
type ConsoleMessage struct {
	Type string
	Text string
	Time time.Time
}

func (m ConsoleMessage) Timing() (time.Time, time.Time) {
	return m.Time, m.Time
}

// BrowserOptions configures the browser collector
type BrowserOptions struct {
	// ResourceTypes restricts recorded exchanges to these playwright resource types.
	// Failed exchanges are always recorded.
	// Default: document, xhr, fetch
	ResourceTypes []string

	// CaptureConsole indicates whether console messages are recorded
	CaptureConsole bool

	// EventCollector receives exchanges and console messages as events
	EventCollector *EventCollector
}

func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		ResourceTypes:  []string{"document", "xhr", "fetch"},
		CaptureConsole: true,
	}
}

// BrowserCollector records what the browser did while a scenario ran.
type BrowserCollector struct {
	exchanges *RingBuffer[Exchange]
	options   BrowserOptions
}

func NewBrowserCollector(capacity uint64) *BrowserCollector {
	return NewBrowserCollectorWithOptions(capacity, DefaultBrowserOptions())
}

func NewBrowserCollectorWithOptions(capacity uint64, options BrowserOptions) *BrowserCollector {
	return &BrowserCollector{
		exchanges: NewRingBuffer[Exchange](capacity),
		options:   options,
	}
}

func (c *BrowserCollector) CollectExchange(ctx context.Context, exchange Exchange) {
	if exchange.Source == "" {
		exchange.Source = SourceBrowser
	}
	if !exchange.Failed() && len(c.options.ResourceTypes) > 0 && !lo.Contains(c.options.ResourceTypes, exchange.ResourceType) {
		return
	}

	c.exchanges.Add(exchange)
	if c.options.EventCollector != nil {
		c.options.EventCollector.CollectEvent(ctx, exchange)
	}
}

func (c *BrowserCollector) CollectConsole(ctx context.Context, msg ConsoleMessage) {
	if !c.options.CaptureConsole {
		return
	}
	if c.options.EventCollector != nil {
		c.options.EventCollector.CollectEvent(ctx, msg)
	}
}

// GetExchanges returns the most recent n exchanges
func (c *BrowserCollector) GetExchanges(n uint64) []Exchange {
	return c.exchanges.GetRecords(n)
}
