//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/pages"
)

func TestMainMenu_Navigates(t *testing.T) {
	tests := []struct {
		menu       string
		urlPattern string
		path       string
	}{
		{menu: "Directory", urlPattern: pages.DirectoryURL, path: pages.DirectoryPath},
		{menu: "My Info", urlPattern: pages.PersonalDetailsURL, path: pages.PersonalDetailsPath},
		{menu: "Buzz", urlPattern: pages.BuzzURL, path: pages.BuzzPath},
	}
	for _, tt := range tests {
		t.Run(tt.menu, func(t *testing.T) {
			page := session.Page(t)
			login(t, page)

			require.NoError(t, pages.NewMainMenu(page, cfg.Selectors).Open(tt.menu))

			require.NoError(t, page.WaitForURL(tt.urlPattern, cfg.Timeouts.URL))
			assert.Contains(t, page.URL(), tt.path)
		})
	}
}

func TestMyInfo_Tabs(t *testing.T) {
	tests := []struct {
		tab        string
		urlPattern string
		path       string
	}{
		{tab: "Job", urlPattern: pages.JobDetailsURL, path: pages.JobDetailsPath},
		{tab: "Contact Details", urlPattern: pages.ContactDetailsURL, path: pages.ContactDetailsPath},
	}
	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			page := session.Page(t)
			login(t, page)
			menu := pages.NewMainMenu(page, cfg.Selectors)
			require.NoError(t, menu.Open("My Info"))
			require.NoError(t, page.WaitForURL(pages.PersonalDetailsURL, cfg.Timeouts.URL))

			require.NoError(t, menu.Open(tt.tab))

			require.NoError(t, page.WaitForURL(tt.urlPattern, cfg.Timeouts.URL))
			assert.Contains(t, page.URL(), tt.path)
		})
	}
}

func TestMyDetails_PersonalDetails(t *testing.T) {
	page := session.Page(t)
	login(t, page)

	require.NoError(t, pages.NewMainMenu(page, cfg.Selectors).OpenMyDetails())

	require.NoError(t, page.WaitForURL(pages.PersonalDetailsURL, cfg.Timeouts.URL))
	content, err := page.Content()
	require.NoError(t, err)
	assert.Contains(t, content, "Personal Details")
}

func TestAdmin_SearchUser(t *testing.T) {
	page := session.Page(t)
	login(t, page)
	adminPage := pages.NewAdminPage(page, cfg.Selectors)

	require.NoError(t, adminPage.GoToAdmin())
	require.NoError(t, adminPage.SearchUser(cfg.Username))

	require.NoError(t, page.WaitForSelector(cfg.Selectors.TableCell, cfg.Timeouts.Action))
	visible, err := adminPage.FirstResultCell().IsVisible()
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestBuzz_Buttons(t *testing.T) {
	tests := map[string]func(*pages.BuzzPage) error{
		"post":  (*pages.BuzzPage).ClickPost,
		"share": (*pages.BuzzPage).ClickShare,
	}
	for name, click := range tests {
		t.Run(name, func(t *testing.T) {
			page := session.Page(t)
			login(t, page)
			require.NoError(t, pages.NewMainMenu(page, cfg.Selectors).Open("Buzz"))
			require.NoError(t, page.WaitForURL(pages.BuzzURL, cfg.Timeouts.URL))

			assert.NoError(t, click(pages.NewBuzzPage(page, cfg.Selectors)))
		})
	}
}
