package pages

import (
	"fmt"

	"github.com/networkteam/hrmcheck/config"
)

// AdminPage is the user management module.
type AdminPage struct {
	Page Page

	adminTab     Locator
	searchBox    Locator
	searchButton Locator
	tableCell    Locator
}

func NewAdminPage(page Page, sel config.Selectors) *AdminPage {
	return &AdminPage{
		Page:         page,
		adminTab:     page.Locator(sel.AdminTab),
		searchBox:    page.Locator(sel.AdminSearch),
		searchButton: page.Locator(sel.AdminSubmit),
		tableCell:    page.Locator(sel.TableCell),
	}
}

func (ap *AdminPage) GoToAdmin() error {
	if err := ap.adminTab.Click(); err != nil {
		return fmt.Errorf("opening admin module: %w", err)
	}
	return nil
}

// SearchUser enters a name into the search box and submits the search.
// Results are not parsed; inspect the page afterwards.
func (ap *AdminPage) SearchUser(username string) error {
	if err := ap.searchBox.Fill(username); err != nil {
		return fmt.Errorf("filling search box: %w", err)
	}
	if err := ap.searchButton.Click(); err != nil {
		return fmt.Errorf("submitting search: %w", err)
	}
	return nil
}

// FirstResultCell returns the first cell of the result table.
func (ap *AdminPage) FirstResultCell() Locator {
	return ap.tableCell.First()
}
