package pages_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
	"github.com/networkteam/hrmcheck/pages/pagestest"
)

func TestDashboardPage(t *testing.T) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	dp := pages.NewDashboardPage(page, sel)

	visible, err := dp.IsHeaderVisible()
	require.NoError(t, err)
	assert.False(t, visible, "header is not visible before it exists")

	_, err = dp.HeaderText()
	assert.ErrorIs(t, err, pagestest.ErrNotFound)

	page.SetElement(sel.Header, "Dashboard", true)

	require.NoError(t, dp.WaitForHeader(time.Second))
	text, err := dp.HeaderText()
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", text)

	visible, err = dp.IsHeaderVisible()
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestAdminPage_SearchUser(t *testing.T) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	page.SetElement(sel.AdminTab, "Admin", true)
	page.SetElement(sel.AdminSearch, "", true)
	page.SetElement(sel.AdminSubmit, "Search", true)
	page.OnClick(sel.AdminSubmit, func(p *pagestest.Page) {
		p.SetElement(sel.TableCell, p.Value(sel.AdminSearch), true)
	})
	ap := pages.NewAdminPage(page, sel)

	require.NoError(t, ap.GoToAdmin())
	require.NoError(t, ap.SearchUser("Admin"))

	visible, err := ap.FirstResultCell().IsVisible()
	require.NoError(t, err)
	assert.True(t, visible)

	assert.Equal(t, []pagestest.Action{
		{Kind: "click", Selector: sel.AdminTab},
		{Kind: "fill", Selector: sel.AdminSearch, Value: "Admin"},
		{Kind: "click", Selector: sel.AdminSubmit},
		{Kind: "visible", Selector: sel.TableCell},
	}, page.Actions())
}

func TestAdminPage_GoToAdmin_MissingTab(t *testing.T) {
	page := pagestest.NewPage()

	err := pages.NewAdminPage(page, config.DefaultSelectors()).GoToAdmin()

	require.ErrorIs(t, err, pagestest.ErrNotFound)
	assert.Contains(t, err.Error(), "opening admin module")
}

func TestMainMenu_Open(t *testing.T) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	page.SetElement(`a:has-text("Directory")`, "Directory", true)

	menu := pages.NewMainMenu(page, sel)

	require.NoError(t, menu.Open("Directory"))
	err := menu.Open("Recruitment")
	require.ErrorIs(t, err, pagestest.ErrNotFound)
	assert.Contains(t, err.Error(), `"Recruitment"`)
}

func TestUserMenu_Logout(t *testing.T) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	page.SetElement(sel.UserDropdown, "Paul", true)
	page.SetElement(sel.LogoutLink, "Logout", true)

	require.NoError(t, pages.NewUserMenu(page, sel).Logout())

	assert.Equal(t, []pagestest.Action{
		{Kind: "click", Selector: sel.UserDropdown},
		{Kind: "click", Selector: sel.LogoutLink},
	}, page.Actions())
}

func TestBuzzPage(t *testing.T) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	page.SetElement(sel.BuzzPost, "Post", true)
	bp := pages.NewBuzzPage(page, sel)

	require.NoError(t, bp.ClickPost())
	assert.ErrorIs(t, bp.ClickShare(), pagestest.ErrNotFound)
}
