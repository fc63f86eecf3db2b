package collector

import (
	"net/http"
	"strings"
	"time"
)

// HTTPClientOptions configures the HTTP client collector
type HTTPClientOptions struct {
	// EventCollector receives every request as an Exchange event
	EventCollector *EventCollector
}

// DefaultHTTPClientOptions returns default options for the HTTP client collector
func DefaultHTTPClientOptions() HTTPClientOptions {
	return HTTPClientOptions{}
}

// HTTPClientCollector collects outgoing HTTP requests
type HTTPClientCollector struct {
	buffer  *RingBuffer[Exchange]
	options HTTPClientOptions
}

// NewHTTPClientCollector creates a new collector for outgoing HTTP requests
func NewHTTPClientCollector(capacity uint64) *HTTPClientCollector {
	return NewHTTPClientCollectorWithOptions(capacity, DefaultHTTPClientOptions())
}

// NewHTTPClientCollectorWithOptions creates a new collector with specified options
func NewHTTPClientCollectorWithOptions(capacity uint64, options HTTPClientOptions) *HTTPClientCollector {
	return &HTTPClientCollector{
		buffer:  NewRingBuffer[Exchange](capacity),
		options: options,
	}
}

// Transport returns an http.RoundTripper that records request/response metadata
func (c *HTTPClientCollector) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &httpClientTransport{
		next:      next,
		collector: c,
	}
}

// GetRequests returns the most recent n HTTP requests
func (c *HTTPClientCollector) GetRequests(n uint64) []Exchange {
	return c.buffer.GetRecords(n)
}

type httpClientTransport struct {
	next      http.RoundTripper
	collector *HTTPClientCollector
}

func (t *httpClientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	exchange := Exchange{
		Source:       SourceHTTPClient,
		Method:       req.Method,
		URL:          req.URL.String(),
		ResourceType: "document",
		Start:        time.Now(),
	}

	resp, err := t.next.RoundTrip(req)

	exchange.Duration = time.Since(exchange.Start)
	if resp != nil {
		exchange.Status = resp.StatusCode
		exchange.Headers = flattenHeader(resp.Header)
	}
	if err != nil {
		exchange.Failure = err.Error()
	}

	t.collector.buffer.Add(exchange)
	if t.collector.options.EventCollector != nil {
		t.collector.options.EventCollector.CollectEvent(req.Context(), exchange)
	}

	return resp, err
}

func flattenHeader(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		result[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return result
}
