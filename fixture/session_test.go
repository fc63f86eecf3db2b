package fixture_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/fixture/fixturetest"
	"github.com/networkteam/hrmcheck/pages"
	"github.com/networkteam/hrmcheck/pages/pagestest"
)

func newSession(t *testing.T, opts ...fixture.Option) (*fixture.Session, *fixturetest.Driver) {
	t.Helper()
	cfg := config.Default()
	driver := fixturetest.NewDriver(cfg)
	session := fixture.NewSession(driver, cfg, opts...)
	t.Cleanup(func() { _ = session.Close() })
	return session, driver
}

func TestSession_AcquireNavigatesToStartURL(t *testing.T) {
	session, driver := newSession(t)
	assert.Equal(t, fixture.StateReady, session.State())

	scope, err := session.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixture.StatePageReady, session.State())

	actions := driver.Contexts()[0].Site().Actions()
	require.NotEmpty(t, actions)
	assert.Equal(t, pagestest.Action{Kind: "goto", Value: config.DefaultBaseURL}, actions[0])

	visible, err := pages.NewLoginPage(scope.Page(), config.DefaultSelectors()).IsRememberMeVisible()
	require.NoError(t, err)
	assert.False(t, visible)

	require.NoError(t, scope.Close())
	assert.Equal(t, fixture.StateReady, session.State())
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestSession_OneScopeAtATime(t *testing.T) {
	session, _ := newSession(t)

	scope, err := session.Acquire(context.Background())
	require.NoError(t, err)

	_, err = session.Acquire(context.Background())
	assert.ErrorIs(t, err, fixture.ErrScopeActive)

	require.NoError(t, scope.Close())
	require.NoError(t, scope.Close(), "closing a scope twice is a no-op")

	scope, err = session.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, scope.Close())
}

func TestSession_ContextsAreIsolated(t *testing.T) {
	session, driver := newSession(t)
	cfg := session.Config()

	err := session.Run(context.Background(), func(ctx context.Context, page pages.Page) error {
		if err := pages.NewLoginPage(page, cfg.Selectors).Login(cfg.Username, cfg.Password); err != nil {
			return err
		}
		return page.WaitForURL(pages.DashboardURL, cfg.Timeouts.Login)
	})
	require.NoError(t, err)

	err = session.Run(context.Background(), func(ctx context.Context, page pages.Page) error {
		assert.Contains(t, page.URL(), pages.LoginPath, "a new context starts unauthenticated")
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, driver.Contexts(), 2)
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestSession_RunReleasesOnError(t *testing.T) {
	session, driver := newSession(t)
	failure := errors.New("assertion failed")

	err := session.Run(context.Background(), func(ctx context.Context, page pages.Page) error {
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, fixture.StateReady, session.State())
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestSession_RunReleasesOnPanic(t *testing.T) {
	session, driver := newSession(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = session.Run(context.Background(), func(ctx context.Context, page pages.Page) error {
			panic("boom")
		})
	})
	assert.Equal(t, fixture.StateReady, session.State())
	assert.Equal(t, 0, driver.OpenContexts())

	require.NoError(t, session.Run(context.Background(), func(ctx context.Context, page pages.Page) error {
		return nil
	}), "the browser is unaffected by a failed test")
}

func TestSession_FailedNavigationClosesContext(t *testing.T) {
	session, driver := newSession(t)
	navErr := errors.New("net::ERR_NAME_NOT_RESOLVED")
	driver.NewPage = func() *pagestest.Page {
		p := pagestest.NewPage()
		p.FailOn("goto", "", navErr)
		return p
	}

	_, err := session.Acquire(context.Background())
	assert.ErrorIs(t, err, navErr)
	assert.Equal(t, fixture.StateReady, session.State())
	require.Len(t, driver.Contexts(), 1)
	assert.True(t, driver.Contexts()[0].Closed())
}

func TestSession_NewContextFailure(t *testing.T) {
	session, driver := newSession(t)
	driver.FailNewContext = errors.New("browser crashed")

	_, err := session.Acquire(context.Background())
	assert.ErrorIs(t, err, driver.FailNewContext)
	assert.Equal(t, fixture.StateReady, session.State())
}

func TestSession_CanceledContext(t *testing.T) {
	session, driver := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, driver.Contexts())
}

func TestSession_Close(t *testing.T) {
	session, driver := newSession(t)

	_, err := session.Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	assert.Equal(t, fixture.StateClosed, session.State())
	assert.Equal(t, 0, driver.OpenContexts(), "the active context is closed with the session")
	assert.True(t, driver.Closed())

	require.NoError(t, session.Close())

	_, err = session.Acquire(context.Background())
	assert.ErrorIs(t, err, fixture.ErrSessionClosed)
}

func TestSession_ZeroValueHasNoBrowser(t *testing.T) {
	var session fixture.Session
	assert.Equal(t, fixture.StateNoBrowser, session.State())

	_, err := session.Acquire(context.Background())
	assert.ErrorIs(t, err, fixture.ErrNoBrowser)
}

func TestSession_Page(t *testing.T) {
	session, driver := newSession(t)

	t.Run("test", func(t *testing.T) {
		page := session.Page(t)
		assert.Contains(t, page.URL(), pages.LoginPath)
		assert.Equal(t, fixture.StatePageReady, session.State())
	})

	assert.Equal(t, fixture.StateReady, session.State(), "the context is closed by the test cleanup")
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestSession_CollectorAndTracing(t *testing.T) {
	ec := collector.NewEventCollector(10)
	defer ec.Close()
	browserOptions := collector.DefaultBrowserOptions()
	browserOptions.EventCollector = ec
	bc := collector.NewBrowserCollectorWithOptions(10, browserOptions)

	session, _ := newSession(t, fixture.WithCollector(bc), fixture.WithTracing(ec))

	ctx := ec.StartEvent(context.Background())
	err := session.Run(ctx, func(ctx context.Context, page pages.Page) error {
		_, err := page.Locator(config.DefaultSelectors().Username).IsVisible()
		return err
	})
	require.NoError(t, err)
	ec.EndEvent(ctx, "scenario")

	require.Len(t, bc.GetExchanges(10), 1)

	events := ec.GetEvents(10)
	require.Len(t, events, 1)
	var steps, exchanges int
	for _, child := range events[0].Children {
		switch child.Data.(type) {
		case collector.Step:
			steps++
		case collector.Exchange:
			exchanges++
		}
	}
	assert.Equal(t, 2, steps, "goto and visible")
	assert.Equal(t, 1, exchanges)
}

func TestSession_TracingMasksConfiguredPassword(t *testing.T) {
	ec := collector.NewEventCollector(10)
	defer ec.Close()
	cfg := config.Default()
	cfg.Selectors.Password = "#pw"
	cfg.Password = "hunter2"
	session := fixture.NewSession(fixturetest.NewDriver(cfg), cfg, fixture.WithTracing(ec))
	defer session.Close()

	ctx := ec.StartEvent(context.Background())
	err := session.Run(ctx, func(ctx context.Context, page pages.Page) error {
		return pages.NewLoginPage(page, cfg.Selectors).Login(cfg.Username, cfg.Password)
	})
	require.NoError(t, err)
	ec.EndEvent(ctx, "scenario")

	events := ec.GetEvents(10)
	require.Len(t, events, 1)
	var fills []string
	for _, child := range events[0].Children {
		if step, ok := child.Data.(collector.Step); ok && step.Action == "fill" {
			fills = append(fills, step.Value)
		}
	}
	assert.Equal(t, []string{"Admin", "***"}, fills)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "page ready", fixture.StatePageReady.String())
	assert.Equal(t, "State(9)", fixture.State(9).String())
}
