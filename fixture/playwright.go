package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/pages"
)

// Install downloads the playwright driver and the configured browser.
func Install(cfg config.Config) error {
	return playwright.Install(&playwright.RunOptions{
		Browsers: []string{cfg.Browser},
	})
}

// Launch starts playwright and the configured browser.
// HEADLESS=false in the environment (see config.Load) runs a visible browser for debugging.
func Launch(cfg config.Config, opts ...Option) (*Session, error) {
	driver, err := launchPlaywright(cfg)
	if err != nil {
		return nil, err
	}
	return NewSession(driver, cfg, opts...), nil
}

type playwrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.Config
}

func launchPlaywright(cfg config.Config) (*playwrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch cfg.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching %s: %w", cfg.Browser, err)
	}

	return &playwrightDriver{pw: pw, browser: browser, cfg: cfg}, nil
}

func (d *playwrightDriver) NewContext(ctx context.Context, listener Listener) (BrowserContext, error) {
	browserContext, err := d.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(d.cfg.BaseURL),
	})
	if err != nil {
		return nil, err
	}
	browserContext.SetDefaultTimeout(float64(d.cfg.Timeouts.Action.Milliseconds()))

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browserContext.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if listener != nil {
		observe(ctx, page, listener)
	}

	return &playwrightContext{
		context: browserContext,
		page:    pages.FromPlaywright(page),
	}, nil
}

func (d *playwrightDriver) Close() error {
	if err := d.browser.Close(); err != nil {
		_ = d.pw.Stop()
		return err
	}
	return d.pw.Stop()
}

type playwrightContext struct {
	context playwright.BrowserContext
	page    pages.Page
}

func (c *playwrightContext) Page() pages.Page {
	return c.page
}

func (c *playwrightContext) Close() error {
	return c.context.Close()
}

// observe forwards page events to listener. Callbacks run on the playwright
// dispatcher goroutine and must not call back into the page.
func observe(ctx context.Context, page playwright.Page, listener Listener) {
	var starts sync.Map
	takeRequestStart := func(request playwright.Request) time.Time {
		if start, ok := starts.LoadAndDelete(request); ok {
			return start.(time.Time)
		}
		return time.Now()
	}

	page.OnRequest(func(request playwright.Request) {
		starts.Store(request, time.Now())
	})
	page.OnResponse(func(response playwright.Response) {
		request := response.Request()
		start := takeRequestStart(request)
		listener.CollectExchange(ctx, collector.Exchange{
			Source:       collector.SourceBrowser,
			Method:       request.Method(),
			URL:          response.URL(),
			ResourceType: request.ResourceType(),
			Status:       response.Status(),
			Headers:      response.Headers(),
			Start:        start,
			Duration:     time.Since(start),
		})
	})
	page.OnRequestFailed(func(request playwright.Request) {
		start := takeRequestStart(request)
		failure := "request failed"
		if err := request.Failure(); err != nil {
			failure = err.Error()
		}
		listener.CollectExchange(ctx, collector.Exchange{
			Source:       collector.SourceBrowser,
			Method:       request.Method(),
			URL:          request.URL(),
			ResourceType: request.ResourceType(),
			Failure:      failure,
			Start:        start,
			Duration:     time.Since(start),
		})
	})
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		listener.CollectConsole(ctx, collector.ConsoleMessage{
			Type: msg.Type(),
			Text: msg.Text(),
			Time: time.Now(),
		})
	})
}
