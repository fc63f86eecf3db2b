// Package fixturetest provides a fixture.Driver that serves in-memory pages instead of a browser.
package fixturetest

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/pages"
	"github.com/networkteam/hrmcheck/pages/pagestest"
)

var ErrDriverClosed = errors.New("driver closed")

// Driver creates a new demo site page per context, so no state is shared between contexts.
type Driver struct {
	// NewPage builds the page of a new context. Defaults to pagestest.NewDemoSite.
	NewPage func() *pagestest.Page
	// FailNewContext makes NewContext fail.
	FailNewContext error

	cfg config.Config

	mu       sync.Mutex
	contexts []*Context
	closed   bool
}

var _ fixture.Driver = (*Driver)(nil)

func NewDriver(cfg config.Config) *Driver {
	d := &Driver{cfg: cfg}
	d.NewPage = func() *pagestest.Page {
		return pagestest.NewDemoSite(cfg)
	}
	return d
}

// NewContext reports the start document to listener when the page navigates.
func (d *Driver) NewContext(ctx context.Context, listener fixture.Listener) (fixture.BrowserContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDriverClosed
	}
	if d.FailNewContext != nil {
		return nil, d.FailNewContext
	}

	c := &Context{page: d.NewPage()}
	if listener != nil {
		c.reporter = &reportingPage{Page: c.page, ctx: ctx, listener: listener}
	}
	d.contexts = append(d.contexts, c)
	return c, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Contexts returns all contexts created so far, oldest first.
func (d *Driver) Contexts() []*Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Context(nil), d.contexts...)
}

// OpenContexts counts contexts that have not been closed.
func (d *Driver) OpenContexts() int {
	n := 0
	for _, c := range d.Contexts() {
		if !c.Closed() {
			n++
		}
	}
	return n
}

type Context struct {
	page     *pagestest.Page
	reporter *reportingPage

	mu     sync.Mutex
	closed bool
}

func (c *Context) Page() pages.Page {
	if c.reporter != nil {
		return c.reporter
	}
	return c.page
}

// Site returns the scripted page for inspection.
func (c *Context) Site() *pagestest.Page {
	return c.page
}

func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type reportingPage struct {
	*pagestest.Page
	ctx      context.Context
	listener fixture.Listener
}

func (p *reportingPage) Goto(url string) error {
	start := time.Now()
	err := p.Page.Goto(url)

	exchange := collector.Exchange{
		Source:       collector.SourceBrowser,
		Method:       http.MethodGet,
		URL:          url,
		ResourceType: "document",
		Status:       http.StatusOK,
		Start:        start,
		Duration:     time.Since(start),
	}
	if err != nil {
		exchange.Status = 0
		exchange.Failure = err.Error()
	}
	p.listener.CollectExchange(p.ctx, exchange)

	return err
}
