// Package fixture manages the browser lifecycle of a test run: one browser per run,
// one fresh browsing context and page per test.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
)

var (
	ErrNoBrowser     = errors.New("fixture: browser not launched")
	ErrScopeActive   = errors.New("fixture: a browser context is already active")
	ErrSessionClosed = errors.New("fixture: session closed")
)

type State int

const (
	StateNoBrowser State = iota
	StateReady
	StatePageReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNoBrowser:
		return "no browser"
	case StateReady:
		return "ready"
	case StatePageReady:
		return "page ready"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Listener receives what the browser does in a context.
// *collector.BrowserCollector implements it.
type Listener interface {
	CollectExchange(ctx context.Context, exchange collector.Exchange)
	CollectConsole(ctx context.Context, msg collector.ConsoleMessage)
}

// Driver creates isolated browsing contexts on a running browser.
type Driver interface {
	// NewContext creates a context with one page. Browser activity is reported to
	// listener with ctx, if listener is not nil.
	NewContext(ctx context.Context, listener Listener) (BrowserContext, error)
	Close() error
}

// BrowserContext is an isolated browsing session owning exactly one page.
type BrowserContext interface {
	Page() pages.Page
	Close() error
}

// Option configures a Session.
type Option func(*Options)

type Options struct {
	Collector *collector.BrowserCollector
	Recorder  *collector.StepRecorder
	Logger    *slog.Logger
}

// WithCollector records network exchanges and console messages of every page.
func WithCollector(c *collector.BrowserCollector) Option {
	return func(o *Options) {
		o.Collector = c
	}
}

// WithTracing records every page primitive as a step event.
func WithTracing(ec *collector.EventCollector) Option {
	return func(o *Options) {
		o.Recorder = collector.NewStepRecorder(ec)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Session owns the browser of a test run. Only one context is active at a time.
type Session struct {
	driver  Driver
	cfg     config.Config
	options Options

	mu     sync.Mutex
	state  State
	active *Scope
}

// NewSession creates a ready session on a launched driver.
func NewSession(driver Driver, cfg config.Config, opts ...Option) *Session {
	options := Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	return &Session{
		driver:  driver,
		cfg:     cfg,
		options: options,
		state:   StateReady,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the configuration the session navigates with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Acquire creates a fresh context and page and navigates it to the start URL.
// The returned scope must be closed before the next Acquire.
func (s *Session) Acquire(ctx context.Context) (*Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateNoBrowser:
		return nil, ErrNoBrowser
	case StateClosed:
		return nil, ErrSessionClosed
	case StatePageReady:
		return nil, ErrScopeActive
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var listener Listener
	if s.options.Collector != nil {
		listener = s.options.Collector
	}

	browserContext, err := s.driver.NewContext(ctx, listener)
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page := browserContext.Page()
	if s.options.Recorder != nil {
		page = pages.Traced(page, s.options.Recorder.Hook(ctx),
			pages.MaskSelector(s.cfg.Selectors.Password),
			pages.MaskValue(s.cfg.Password),
		)
	}

	if err := page.Goto(s.cfg.BaseURL); err != nil {
		if closeErr := browserContext.Close(); closeErr != nil {
			s.logger().WarnContext(ctx, "Closing browser context after failed navigation", "error", closeErr)
		}
		return nil, fmt.Errorf("opening start page %s: %w", s.cfg.BaseURL, err)
	}

	scope := &Scope{
		session: s,
		context: browserContext,
		page:    page,
	}
	s.active = scope
	s.state = StatePageReady

	s.logger().DebugContext(ctx, "Acquired browser context", "url", s.cfg.BaseURL)

	return scope, nil
}

// Run acquires a scope for fn and releases it on every exit path, including a panic.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context, page pages.Page) error) (err error) {
	scope, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := scope.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(ctx, scope.Page())
}

// Close closes an active context and then the browser. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	active := s.active
	s.active = nil
	s.state = StateClosed
	s.mu.Unlock()

	var errs []error
	if active != nil {
		errs = append(errs, active.Close())
	}
	if s.driver != nil {
		if err := s.driver.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
	}

	s.logger().Debug("Closed browser session")

	return errors.Join(errs...)
}

func (s *Session) logger() *slog.Logger {
	if s.options.Logger == nil {
		return slog.Default()
	}
	return s.options.Logger
}

func (s *Session) release(scope *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != scope {
		return
	}
	s.active = nil
	if s.state == StatePageReady {
		s.state = StateReady
	}
}
