package config

import (
	"fmt"
	"reflect"
)

// Selectors are the element selectors of the target application.
// They must match the OrangeHRM markup exactly.
type Selectors struct {
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	Submit        string `yaml:"submit"`
	LoginAlert    string `yaml:"loginAlert"`
	AppRoot       string `yaml:"appRoot"`
	RememberMe    string `yaml:"rememberMe"`
	Header        string `yaml:"header"`
	AdminTab      string `yaml:"adminTab"`
	AdminSearch   string `yaml:"adminSearch"`
	AdminSubmit   string `yaml:"adminSubmit"`
	TableCell     string `yaml:"tableCell"`
	UserDropdown  string `yaml:"userDropdown"`
	LogoutLink    string `yaml:"logoutLink"`
	MyDetailsLink string `yaml:"myDetailsLink"`
	BuzzPost      string `yaml:"buzzPost"`
	BuzzShare     string `yaml:"buzzShare"`
	// MenuLink is a format string taking the visible link text.
	MenuLink string `yaml:"menuLink"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Username:      "input[name='username']",
		Password:      "input[name='password']",
		Submit:        "button[type='submit']",
		LoginAlert:    ".oxd-alert-content-text",
		AppRoot:       "#app",
		RememberMe:    "input[name='rememberMe']",
		Header:        "h6.oxd-text--h6.oxd-topbar-header-breadcrumb-module",
		AdminTab:      "a[href='/web/index.php/admin/viewAdminModule']",
		AdminSearch:   "input[placeholder='Type for hints...']",
		AdminSubmit:   "button[type='submit']",
		TableCell:     ".oxd-table-cell",
		UserDropdown:  ".oxd-userdropdown-name",
		LogoutLink:    "a[href='/web/index.php/auth/logout']",
		MyDetailsLink: "a[href='/web/index.php/pim/viewMyDetails']",
		BuzzPost:      "button.oxd-button.oxd-button--medium.oxd-button--main",
		BuzzShare:     "button.oxd-icon-button",
		MenuLink:      `a:has-text("%s")`,
	}
}

// Menu returns the text-based locator of a navigation link.
func (s Selectors) Menu(text string) string {
	return fmt.Sprintf(s.MenuLink, text)
}

// Validate reports the first empty selector.
func (s Selectors) Validate() error {
	v := reflect.ValueOf(s)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if v.Field(i).String() == "" {
			return fmt.Errorf("invalid selectors.%s: must not be empty", t.Field(i).Tag.Get("yaml"))
		}
	}
	return nil
}
