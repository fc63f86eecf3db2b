// Package pagestest provides an in-memory pages.Page for tests that must not start a browser.
package pagestest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/networkteam/hrmcheck/pages"
)

var (
	ErrNotFound = errors.New("element not found")
	ErrTimeout  = errors.New("timeout exceeded")
)

// Element is the state of one selector on a fake page.
type Element struct {
	Text    string
	Value   string
	Visible bool
}

// Action is a recorded primitive.
type Action struct {
	Kind     string
	Selector string
	Value    string
}

// Page is a scripted page. Selectors are matched literally.
type Page struct {
	mu       sync.Mutex
	url      string
	content  string
	elements map[string]*Element
	actions  []Action
	onClick  map[string]func(p *Page)
	onGoto   func(p *Page, url string)
	failures map[string]error
}

var _ pages.Page = (*Page)(nil)

func NewPage() *Page {
	return &Page{
		elements: make(map[string]*Element),
		onClick:  make(map[string]func(p *Page)),
		failures: make(map[string]error),
	}
}

// SetElement adds or replaces an element.
func (p *Page) SetElement(selector, text string, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = &Element{Text: text, Visible: visible}
}

func (p *Page) RemoveElement(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// ClearElements removes all elements, as a navigation to another document does.
func (p *Page) ClearElements() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = make(map[string]*Element)
}

// Element returns a copy of the element state.
func (p *Page) Element(selector string) (Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[selector]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

// Value returns the text filled into a selector.
func (p *Page) Value(selector string) string {
	el, _ := p.Element(selector)
	return el.Value
}

func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

func (p *Page) SetContent(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
}

// OnClick registers a handler run after a click on selector.
func (p *Page) OnClick(selector string, fn func(p *Page)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onClick[selector] = fn
}

// OnGoto registers a handler run after every navigation.
func (p *Page) OnGoto(fn func(p *Page, url string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onGoto = fn
}

// FailOn makes the primitive kind ("fill", "click", "text", "visible", "goto") fail for selector.
func (p *Page) FailOn(kind, selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[kind+" "+selector] = err
}

// Actions returns the recorded primitives in order.
func (p *Page) Actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Action(nil), p.actions...)
}

func (p *Page) record(kind, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, Action{Kind: kind, Selector: selector, Value: value})
	return p.failures[kind+" "+selector]
}

func (p *Page) Locator(selector string) pages.Locator {
	return &Locator{page: p, selector: selector}
}

func (p *Page) Goto(url string) error {
	if err := p.record("goto", "", url); err != nil {
		return err
	}
	p.SetURL(url)

	p.mu.Lock()
	fn := p.onGoto
	p.mu.Unlock()
	if fn != nil {
		fn(p, url)
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// WaitForURL does not wait; the URL must already match.
func (p *Page) WaitForURL(pattern string, timeout time.Duration) error {
	if err := p.record("wait-url", "", pattern); err != nil {
		return err
	}
	if !MatchGlob(pattern, p.URL()) {
		return fmt.Errorf("waiting for URL %q (%s): %w", pattern, timeout, ErrTimeout)
	}
	return nil
}

// WaitForSelector does not wait; the element must already be visible.
func (p *Page) WaitForSelector(selector string, timeout time.Duration) error {
	if err := p.record("wait-selector", selector, ""); err != nil {
		return err
	}
	el, ok := p.Element(selector)
	if !ok || !el.Visible {
		return fmt.Errorf("waiting for %s (%s): %w", selector, timeout, ErrTimeout)
	}
	return nil
}

func (p *Page) Content() (string, error) {
	if err := p.record("content", "", ""); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, nil
}

// Locator resolves its selector at the time of each call.
type Locator struct {
	page     *Page
	selector string
}

func (l *Locator) Fill(value string) error {
	if err := l.page.record("fill", l.selector, value); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, ok := l.page.elements[l.selector]
	if !ok {
		return fmt.Errorf("fill %s: %w", l.selector, ErrNotFound)
	}
	el.Value = value
	return nil
}

func (l *Locator) Click() error {
	if err := l.page.record("click", l.selector, ""); err != nil {
		return err
	}
	l.page.mu.Lock()
	el, ok := l.page.elements[l.selector]
	fn := l.page.onClick[l.selector]
	l.page.mu.Unlock()
	if !ok {
		return fmt.Errorf("click %s: %w", l.selector, ErrNotFound)
	}
	// Like playwright, a hidden element is never clickable
	if !el.Visible {
		return fmt.Errorf("click %s: element is not visible: %w", l.selector, ErrTimeout)
	}
	if fn != nil {
		fn(l.page)
	}
	return nil
}

func (l *Locator) TextContent() (string, error) {
	if err := l.page.record("text", l.selector, ""); err != nil {
		return "", err
	}
	el, ok := l.page.Element(l.selector)
	if !ok {
		return "", fmt.Errorf("text %s: %w", l.selector, ErrNotFound)
	}
	return el.Text, nil
}

func (l *Locator) IsVisible() (bool, error) {
	if err := l.page.record("visible", l.selector, ""); err != nil {
		return false, err
	}
	el, ok := l.page.Element(l.selector)
	return ok && el.Visible, nil
}

// First resolves to the same element; the fake keeps one element per selector.
func (l *Locator) First() pages.Locator {
	return l
}

// MatchGlob matches a URL against a playwright style glob:
// "**" matches any characters, "*" any characters except "/".
func MatchGlob(pattern, url string) bool {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(c)))
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String()).MatchString(url)
}
