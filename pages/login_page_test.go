package pages_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
	"github.com/networkteam/hrmcheck/pages/pagestest"
)

func newLoginForm() (*pagestest.Page, config.Selectors) {
	sel := config.DefaultSelectors()
	page := pagestest.NewPage()
	page.SetElement(sel.Username, "", true)
	page.SetElement(sel.Password, "", true)
	page.SetElement(sel.Submit, "Login", true)
	return page, sel
}

func TestLoginPage_Login_FillsAndSubmitsInOrder(t *testing.T) {
	page, sel := newLoginForm()

	err := pages.NewLoginPage(page, sel).Login("Admin", "admin123")
	require.NoError(t, err)

	assert.Equal(t, []pagestest.Action{
		{Kind: "fill", Selector: "input[name='username']", Value: "Admin"},
		{Kind: "fill", Selector: "input[name='password']", Value: "admin123"},
		{Kind: "click", Selector: "button[type='submit']"},
	}, page.Actions())
}

func TestLoginPage_Login_BlankCredentials(t *testing.T) {
	page, sel := newLoginForm()

	err := pages.NewLoginPage(page, sel).Login("", "")
	require.NoError(t, err)

	assert.Equal(t, "", page.Value(sel.Username))
	assert.Equal(t, "", page.Value(sel.Password))
}

func TestLoginPage_Login_StopsAtFirstFailure(t *testing.T) {
	page, sel := newLoginForm()
	boom := errors.New("detached")
	page.FailOn("fill", sel.Password, boom)

	err := pages.NewLoginPage(page, sel).Login("Admin", "admin123")

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "filling password")
	for _, a := range page.Actions() {
		assert.NotEqual(t, "click", a.Kind, "submit must not be clicked after a failed fill")
	}
}

func TestLoginPage_ConstructionDoesNotRequireElements(t *testing.T) {
	page := pagestest.NewPage()

	lp := pages.NewLoginPage(page, config.DefaultSelectors())

	assert.NotNil(t, lp)
	assert.Empty(t, page.Actions())
}

func TestLoginPage_Queries(t *testing.T) {
	page, sel := newLoginForm()
	page.SetElement(sel.LoginAlert, "Invalid credentials", true)
	page.SetElement(sel.AppRoot, "Username Required", true)
	lp := pages.NewLoginPage(page, sel)

	text, err := lp.ErrorText()
	require.NoError(t, err)
	assert.Equal(t, "Invalid credentials", text)

	form, err := lp.FormText()
	require.NoError(t, err)
	assert.Contains(t, form, "Required")

	visible, err := lp.IsRememberMeVisible()
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestLoginPage_ErrorText_MissingAlert(t *testing.T) {
	page, sel := newLoginForm()

	_, err := pages.NewLoginPage(page, sel).ErrorText()

	assert.ErrorIs(t, err, pagestest.ErrNotFound)
}
