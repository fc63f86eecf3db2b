package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// FromPlaywright adapts a playwright page.
func FromPlaywright(page playwright.Page) Page {
	return &playwrightPage{page: page}
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Locator(selector string) Locator {
	return &playwrightLocator{locator: p.page.Locator(selector)}
}

func (p *playwrightPage) Goto(url string) error {
	_, err := p.page.Goto(url)
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) WaitForURL(pattern string, timeout time.Duration) error {
	return p.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{
		Timeout: milliseconds(timeout),
	})
}

func (p *playwrightPage) WaitForSelector(selector string, timeout time.Duration) error {
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: milliseconds(timeout),
	})
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

type playwrightLocator struct {
	locator playwright.Locator
}

func (l *playwrightLocator) Fill(value string) error {
	return l.locator.Fill(value)
}

func (l *playwrightLocator) Click() error {
	return l.locator.Click()
}

func (l *playwrightLocator) TextContent() (string, error) {
	return l.locator.TextContent()
}

func (l *playwrightLocator) IsVisible() (bool, error) {
	return l.locator.IsVisible()
}

func (l *playwrightLocator) First() Locator {
	return &playwrightLocator{locator: l.locator.First()}
}

func milliseconds(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
