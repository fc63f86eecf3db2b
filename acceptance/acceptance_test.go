//go:build acceptance
// +build acceptance

// Package acceptance drives a real browser against the configured OrangeHRM deployment.
// Run with: go test -tags acceptance ./acceptance/...
package acceptance

import (
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
)

var (
	cfg     config.Config
	session *fixture.Session
)

// TestMain installs Playwright browsers and shares one browser between all tests.
// Set HEADLESS=false to run with a visible browser for debugging.
func TestMain(m *testing.M) {
	var err error
	cfg, err = config.Load(os.Getenv("HRM_CONFIG"), os.LookupEnv)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}
	if err := fixture.Install(cfg); err != nil {
		log.Fatalf("could not install playwright: %v", err)
	}

	session, err = fixture.Launch(cfg, fixture.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	if err != nil {
		log.Fatalf("could not launch %s: %v", cfg.Browser, err)
	}

	code := m.Run()
	if err := session.Close(); err != nil {
		log.Printf("closing browser: %v", err)
	}
	os.Exit(code)
}
