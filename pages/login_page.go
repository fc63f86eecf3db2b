package pages

import (
	"fmt"

	"github.com/networkteam/hrmcheck/config"
)

// LoginPage is the unauthenticated login form.
type LoginPage struct {
	Page Page

	usernameInput Locator
	passwordInput Locator
	loginButton   Locator
	alert         Locator
	appRoot       Locator
	rememberMe    Locator
}

func NewLoginPage(page Page, sel config.Selectors) *LoginPage {
	return &LoginPage{
		Page:          page,
		usernameInput: page.Locator(sel.Username),
		passwordInput: page.Locator(sel.Password),
		loginButton:   page.Locator(sel.Submit),
		alert:         page.Locator(sel.LoginAlert),
		appRoot:       page.Locator(sel.AppRoot),
		rememberMe:    page.Locator(sel.RememberMe),
	}
}

// Login fills both credentials and submits the form.
// It returns once the click is issued; the resulting navigation or error
// message has to be awaited by the caller.
func (lp *LoginPage) Login(username, password string) error {
	if err := lp.usernameInput.Fill(username); err != nil {
		return fmt.Errorf("filling username: %w", err)
	}
	if err := lp.passwordInput.Fill(password); err != nil {
		return fmt.Errorf("filling password: %w", err)
	}
	if err := lp.loginButton.Click(); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	return nil
}

// ErrorText returns the text of the authentication alert.
func (lp *LoginPage) ErrorText() (string, error) {
	return lp.alert.TextContent()
}

// FormText returns the text of the whole application root, which includes
// the "Required" messages of empty fields.
func (lp *LoginPage) FormText() (string, error) {
	return lp.appRoot.TextContent()
}

func (lp *LoginPage) IsRememberMeVisible() (bool, error) {
	return lp.rememberMe.IsVisible()
}
