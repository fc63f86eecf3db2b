package pages

import (
	"time"

	"github.com/networkteam/hrmcheck/config"
)

// DashboardPage is the landing page after a successful login.
type DashboardPage struct {
	Page Page

	headerSelector string
	header         Locator
}

func NewDashboardPage(page Page, sel config.Selectors) *DashboardPage {
	return &DashboardPage{
		Page:           page,
		headerSelector: sel.Header,
		header:         page.Locator(sel.Header),
	}
}

// HeaderText blocks until the breadcrumb header exists and returns its text.
func (dp *DashboardPage) HeaderText() (string, error) {
	return dp.header.TextContent()
}

// IsHeaderVisible reports whether the header is currently visible.
func (dp *DashboardPage) IsHeaderVisible() (bool, error) {
	return dp.header.IsVisible()
}

// WaitForHeader waits until the header is visible.
func (dp *DashboardPage) WaitForHeader(timeout time.Duration) error {
	return dp.Page.WaitForSelector(dp.headerSelector, timeout)
}
