// Package scenario holds the end-to-end checks of the OrangeHRM demo as plain functions
// and runs them one after another, each in a fresh browser context.
package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
)

// Scenario is one independent check. Run starts on the unauthenticated start page.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Env is what a scenario gets to work with.
type Env struct {
	Page   pages.Page
	Config config.Config
	Logger *slog.Logger
}

// LoginAsAdmin submits the configured credentials and waits for the dashboard.
func (e *Env) LoginAsAdmin() error {
	if err := pages.NewLoginPage(e.Page, e.Config.Selectors).Login(e.Config.Username, e.Config.Password); err != nil {
		return err
	}
	if err := e.Page.WaitForURL(pages.DashboardURL, e.Config.Timeouts.Login); err != nil {
		return fmt.Errorf("waiting for dashboard: %w", err)
	}
	return nil
}

// WaitForURL waits for a URL glob with the URL timeout.
func (e *Env) WaitForURL(pattern string) error {
	if err := e.Page.WaitForURL(pattern, e.Config.Timeouts.URL); err != nil {
		return fmt.Errorf("waiting for %s: %w", pattern, err)
	}
	return nil
}

func (e *Env) ExpectURLContains(fragment string) error {
	if url := e.Page.URL(); !strings.Contains(url, fragment) {
		return Failf("expected URL to contain %q, but current URL is %s", fragment, url)
	}
	return nil
}

// Names returns the scenario names in order.
func Names(scenarios []Scenario) []string {
	return lo.Map(scenarios, func(s Scenario, _ int) string {
		return s.Name
	})
}

// Filter selects the scenarios whose name matches pattern. An empty pattern selects all.
func Filter(scenarios []Scenario, pattern string) ([]Scenario, error) {
	if pattern == "" {
		return scenarios, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return lo.Filter(scenarios, func(s Scenario, _ int) bool {
		return re.MatchString(s.Name)
	}), nil
}
