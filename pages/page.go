// Package pages contains the page objects of the OrangeHRM application and the
// capability interfaces they are built on.
//
// Page objects hold nothing but locators. A locator is resolved lazily by the
// browser layer, so constructing a page object never requires its elements to exist.
package pages

import "time"

// Locator identifies zero or more elements of a page by selector.
type Locator interface {
	Fill(value string) error
	Click() error
	// TextContent blocks until the element exists and returns its text.
	TextContent() (string, error)
	// IsVisible reports visibility without waiting for the element.
	IsVisible() (bool, error)
	First() Locator
}

// Page is a navigable document view.
type Page interface {
	Locator(selector string) Locator
	Goto(url string) error
	URL() string
	// WaitForURL waits until the page URL matches a glob pattern ("**" matches across path segments).
	WaitForURL(pattern string, timeout time.Duration) error
	WaitForSelector(selector string, timeout time.Duration) error
	Content() (string, error)
}
