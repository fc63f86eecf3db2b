package pages

import (
	"fmt"

	"github.com/networkteam/hrmcheck/config"
)

// Routes of the OrangeHRM application as URL glob patterns and path fragments.
const (
	DashboardURL       = "**/dashboard/index"
	DirectoryURL       = "**/web/index.php/directory/viewDirectory"
	PersonalDetailsURL = "**/web/index.php/pim/viewPersonalDetails/**"
	JobDetailsURL      = "**/web/index.php/pim/viewJobDetails/**"
	ContactDetailsURL  = "**/contactDetails/**"
	BuzzURL            = "**/web/index.php/buzz/viewBuzz"

	DirectoryPath       = "/web/index.php/directory/viewDirectory"
	PersonalDetailsPath = "/web/index.php/pim/viewPersonalDetails/"
	JobDetailsPath      = "/web/index.php/pim/viewJobDetails/"
	ContactDetailsPath  = "/web/index.php/pim/contactDetails/"
	BuzzPath            = "/web/index.php/buzz/viewBuzz"
	LoginPath           = "/auth/login"
)

// MainMenu is the side navigation and the tab bar of the PIM module.
// Both are addressed by the visible link text.
type MainMenu struct {
	Page Page

	sel       config.Selectors
	myDetails Locator
}

func NewMainMenu(page Page, sel config.Selectors) *MainMenu {
	return &MainMenu{
		Page:      page,
		sel:       sel,
		myDetails: page.Locator(sel.MyDetailsLink),
	}
}

// Open clicks the link with the given text, e.g. "Directory" or "Contact Details".
func (m *MainMenu) Open(name string) error {
	if err := m.Page.Locator(m.sel.Menu(name)).Click(); err != nil {
		return fmt.Errorf("opening %q: %w", name, err)
	}
	return nil
}

// OpenMyDetails follows the direct link to the personal details of the logged in user.
func (m *MainMenu) OpenMyDetails() error {
	if err := m.myDetails.Click(); err != nil {
		return fmt.Errorf("opening my details: %w", err)
	}
	return nil
}

// UserMenu is the dropdown in the top bar.
type UserMenu struct {
	Page Page

	dropdown   Locator
	logoutLink Locator
}

func NewUserMenu(page Page, sel config.Selectors) *UserMenu {
	return &UserMenu{
		Page:       page,
		dropdown:   page.Locator(sel.UserDropdown),
		logoutLink: page.Locator(sel.LogoutLink),
	}
}

// Logout opens the dropdown and clicks the logout link.
func (um *UserMenu) Logout() error {
	if err := um.dropdown.Click(); err != nil {
		return fmt.Errorf("opening user dropdown: %w", err)
	}
	if err := um.logoutLink.Click(); err != nil {
		return fmt.Errorf("clicking logout: %w", err)
	}
	return nil
}

// BuzzPage is the social feed.
type BuzzPage struct {
	Page Page

	postButton  Locator
	shareButton Locator
}

func NewBuzzPage(page Page, sel config.Selectors) *BuzzPage {
	return &BuzzPage{
		Page:        page,
		postButton:  page.Locator(sel.BuzzPost),
		shareButton: page.Locator(sel.BuzzShare).First(),
	}
}

func (bp *BuzzPage) ClickPost() error {
	if err := bp.postButton.Click(); err != nil {
		return fmt.Errorf("clicking post: %w", err)
	}
	return nil
}

// ClickShare clicks the first icon button of the feed.
func (bp *BuzzPage) ClickShare() error {
	if err := bp.shareButton.Click(); err != nil {
		return fmt.Errorf("clicking share: %w", err)
	}
	return nil
}
