package pages

import (
	"slices"
	"strings"
	"time"
)

// Step is one browser primitive issued through a traced page.
type Step struct {
	Action   string
	Selector string
	// Value is the filled text, the navigated URL or the awaited pattern.
	Value string
	Err   error
	Start time.Time
	End   time.Time
}

// Duration returns how long the primitive blocked.
func (s Step) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

const maskedValue = "***"

// StepFunc receives every step of a traced page after it completed.
type StepFunc func(Step)

// TraceOption configures a traced page.
type TraceOption func(*tracedPage)

// MaskSelector masks every value filled into the element matched by selector.
func MaskSelector(selector string) TraceOption {
	return func(p *tracedPage) {
		if selector != "" {
			p.maskSelectors = append(p.maskSelectors, selector)
		}
	}
}

// MaskValue masks a secret wherever it is filled in.
func MaskValue(value string) TraceOption {
	return func(p *tracedPage) {
		if value != "" {
			p.maskValues = append(p.maskValues, value)
		}
	}
}

// Traced wraps a page so that every primitive is reported to fn.
// Values filled into password fields and masked values are recorded as "***".
func Traced(page Page, fn StepFunc, opts ...TraceOption) Page {
	p := &tracedPage{next: page, fn: fn}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tracedPage struct {
	next          Page
	fn            StepFunc
	maskSelectors []string
	maskValues    []string
}

func (p *tracedPage) masked(selector, value string) bool {
	return strings.Contains(strings.ToLower(selector), "password") ||
		slices.Contains(p.maskSelectors, selector) ||
		slices.Contains(p.maskValues, value)
}

func (p *tracedPage) record(action, selector, value string, start time.Time, err error) {
	p.fn(Step{
		Action:   action,
		Selector: selector,
		Value:    value,
		Err:      err,
		Start:    start,
		End:      time.Now(),
	})
}

func (p *tracedPage) Locator(selector string) Locator {
	return &tracedLocator{page: p, selector: selector, next: p.next.Locator(selector)}
}

func (p *tracedPage) Goto(url string) error {
	start := time.Now()
	err := p.next.Goto(url)
	p.record("goto", "", url, start, err)
	return err
}

func (p *tracedPage) URL() string {
	return p.next.URL()
}

func (p *tracedPage) WaitForURL(pattern string, timeout time.Duration) error {
	start := time.Now()
	err := p.next.WaitForURL(pattern, timeout)
	p.record("wait-url", "", pattern, start, err)
	return err
}

func (p *tracedPage) WaitForSelector(selector string, timeout time.Duration) error {
	start := time.Now()
	err := p.next.WaitForSelector(selector, timeout)
	p.record("wait-selector", selector, "", start, err)
	return err
}

func (p *tracedPage) Content() (string, error) {
	start := time.Now()
	content, err := p.next.Content()
	p.record("content", "", "", start, err)
	return content, err
}

type tracedLocator struct {
	page     *tracedPage
	selector string
	next     Locator
}

func (l *tracedLocator) Fill(value string) error {
	start := time.Now()
	err := l.next.Fill(value)
	recorded := value
	if l.page.masked(l.selector, value) {
		recorded = maskedValue
	}
	l.page.record("fill", l.selector, recorded, start, err)
	return err
}

func (l *tracedLocator) Click() error {
	start := time.Now()
	err := l.next.Click()
	l.page.record("click", l.selector, "", start, err)
	return err
}

func (l *tracedLocator) TextContent() (string, error) {
	start := time.Now()
	text, err := l.next.TextContent()
	l.page.record("text", l.selector, text, start, err)
	return text, err
}

func (l *tracedLocator) IsVisible() (bool, error) {
	start := time.Now()
	visible, err := l.next.IsVisible()
	value := "hidden"
	if visible {
		value = "visible"
	}
	l.page.record("visible", l.selector, value, start, err)
	return visible, err
}

func (l *tracedLocator) First() Locator {
	return &tracedLocator{page: l.page, selector: l.selector + " >> nth=0", next: l.next.First()}
}
