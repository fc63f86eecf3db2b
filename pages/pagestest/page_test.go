package pagestest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
	"github.com/networkteam/hrmcheck/pages/pagestest"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		url     string
		want    bool
	}{
		{"**/dashboard/index", "https://hrm.example.com/web/index.php/dashboard/index", true},
		{"**/dashboard/index", "https://hrm.example.com/web/index.php/dashboard/index?x=1", false},
		{"**/web/index.php/pim/viewPersonalDetails/**", "https://h/web/index.php/pim/viewPersonalDetails/empNumber/7", true},
		{"**/web/index.php/pim/viewPersonalDetails/**", "https://h/web/index.php/pim/viewJobDetails/empNumber/7", false},
		{"https://h/*/login", "https://h/auth/login", true},
		{"https://h/*/login", "https://h/web/auth/login", false},
		{"**/buzz/viewBuzz", "https://h/web/index.php/buzz/viewBuzz", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, pagestest.MatchGlob(tt.pattern, tt.url))
		})
	}
}

func TestDemoSite_LoginFlow(t *testing.T) {
	cfg := config.Default()
	site := pagestest.NewDemoSite(cfg)

	require.NoError(t, site.Goto(cfg.BaseURL))
	assert.Equal(t, "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login", site.URL())

	require.NoError(t, pages.NewLoginPage(site, cfg.Selectors).Login("Admin", "admin123"))
	require.NoError(t, site.WaitForURL(pages.DashboardURL, time.Second))

	text, err := pages.NewDashboardPage(site, cfg.Selectors).HeaderText()
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", text)
}

func TestDemoSite_InvalidLogin(t *testing.T) {
	cfg := config.Default()
	site := pagestest.NewDemoSite(cfg)
	require.NoError(t, site.Goto(cfg.BaseURL))

	lp := pages.NewLoginPage(site, cfg.Selectors)
	require.NoError(t, lp.Login("Invalid", "invalid"))

	text, err := lp.ErrorText()
	require.NoError(t, err)
	assert.Contains(t, text, "Invalid credentials")
	assert.Error(t, site.WaitForURL(pages.DashboardURL, time.Second))
}

func TestDemoSite_NavigationRequiresLogin(t *testing.T) {
	cfg := config.Default()
	site := pagestest.NewDemoSite(cfg)
	require.NoError(t, site.Goto(cfg.BaseURL))

	err := pages.NewMainMenu(site, cfg.Selectors).Open("Directory")

	assert.ErrorIs(t, err, pagestest.ErrNotFound)
}

func TestDemoSite_LogoutLinkHiddenUntilDropdownOpens(t *testing.T) {
	cfg := config.Default()
	site := pagestest.NewDemoSite(cfg)
	require.NoError(t, site.Goto(cfg.BaseURL))
	require.NoError(t, pages.NewLoginPage(site, cfg.Selectors).Login("Admin", "admin123"))

	err := site.Locator(cfg.Selectors.LogoutLink).Click()
	assert.ErrorIs(t, err, pagestest.ErrTimeout, "a hidden link is not clickable")
	assert.Equal(t, "https://opensource-demo.orangehrmlive.com/web/index.php/dashboard/index", site.URL())

	require.NoError(t, pages.NewUserMenu(site, cfg.Selectors).Logout())
	assert.Equal(t, "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login", site.URL())
}
