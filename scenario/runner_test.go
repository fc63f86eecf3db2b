package scenario_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/config"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/fixture/fixturetest"
	"github.com/networkteam/hrmcheck/scenario"
)

func newSession(t *testing.T, cfg config.Config, opts ...fixture.Option) (*fixture.Session, *fixturetest.Driver) {
	t.Helper()
	driver := fixturetest.NewDriver(cfg)
	session := fixture.NewSession(driver, cfg, opts...)
	t.Cleanup(func() { _ = session.Close() })
	return session, driver
}

func TestAll_Names(t *testing.T) {
	names := scenario.Names(scenario.All())

	assert.Equal(t, []string{
		"login_valid_credentials",
		"login_invalid_credentials",
		"dashboard_header_exists",
		"directory_navigates",
		"my_info_navigates",
		"job_details_navigates",
		"contact_details_navigates",
		"admin_search_user",
		"buzz_navigates",
		"buzz_post_button",
		"buzz_share_button",
		"my_details_personal_details",
		"logout",
		"remember_me_absent",
		"blank_credentials_required",
	}, names)
}

func TestRunner_CatalogPassesAgainstDemoSite(t *testing.T) {
	session, driver := newSession(t, config.Default())

	var progress []string
	runner := scenario.NewRunner(session, scenario.RunnerOptions{
		OnResult: func(result collector.ScenarioResult) {
			progress = append(progress, result.Name)
		},
	})

	summary := runner.Run(context.Background(), scenario.All())

	for _, result := range summary.Results {
		assert.True(t, result.Passed(), "%s: %s", result.Name, result.Error)
	}
	assert.True(t, summary.OK())
	assert.Equal(t, len(scenario.All()), summary.Passed())
	assert.Equal(t, scenario.Names(scenario.All()), progress)

	assert.Len(t, driver.Contexts(), len(scenario.All()), "every scenario gets a fresh context")
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestRunner_WrongPasswordFailsLoginScenarios(t *testing.T) {
	cfg := config.Default()
	cfg.Password = "wrong"
	// The site still expects the default credentials
	session := fixture.NewSession(fixturetest.NewDriver(config.Default()), cfg)
	defer session.Close()

	scenarios, err := scenario.Filter(scenario.All(), "^(login_valid_credentials|directory_navigates|remember_me_absent)$")
	require.NoError(t, err)

	summary := scenario.NewRunner(session, scenario.DefaultRunnerOptions()).Run(context.Background(), scenarios)

	require.Len(t, summary.Results, 3)
	assert.False(t, summary.OK())
	assert.Equal(t, []string{"login_valid_credentials", "directory_navigates"}, summary.FailedNames())
	assert.Contains(t, summary.Results[1].Error, "waiting for dashboard")
	assert.Contains(t, summary.Results[1].URL, "/auth/login")
	assert.True(t, summary.Results[2].Passed(), "later scenarios still run")
}

func TestRunner_RecordsEventTree(t *testing.T) {
	ec := collector.NewEventCollector(100)
	defer ec.Close()
	browserOptions := collector.DefaultBrowserOptions()
	browserOptions.EventCollector = ec
	bc := collector.NewBrowserCollectorWithOptions(100, browserOptions)

	session, _ := newSession(t, config.Default(), fixture.WithCollector(bc), fixture.WithTracing(ec))
	sc, ok := scenario.Lookup("logout")
	require.True(t, ok)

	summary := scenario.NewRunner(session, scenario.RunnerOptions{EventCollector: ec}).
		Run(context.Background(), []scenario.Scenario{sc})
	require.True(t, summary.OK(), summary.FailedNames())

	events := ec.GetEvents(10)
	require.Len(t, events, 1)
	result, ok := events[0].Data.(collector.ScenarioResult)
	require.True(t, ok)
	assert.Equal(t, "logout", result.Name)
	assert.True(t, result.Passed())

	var actions []string
	for _, child := range events[0].Children {
		if step, ok := child.Data.(collector.Step); ok {
			actions = append(actions, step.Action)
		}
	}
	assert.Equal(t, []string{"goto", "fill", "fill", "click", "click", "click", "wait-url"}, actions)
}

func TestRunner_PanickingScenarioFailsAlone(t *testing.T) {
	session, driver := newSession(t, config.Default())
	scenarios := []scenario.Scenario{
		{Name: "panics", Run: func(ctx context.Context, env *scenario.Env) error { panic("boom") }},
		{Name: "passes", Run: func(ctx context.Context, env *scenario.Env) error { return nil }},
	}

	summary := scenario.NewRunner(session, scenario.DefaultRunnerOptions()).Run(context.Background(), scenarios)

	require.Len(t, summary.Results, 2)
	assert.Equal(t, "panic: boom", summary.Results[0].Error)
	assert.True(t, summary.Results[1].Passed())
	assert.Equal(t, 0, driver.OpenContexts())
}

func TestRunner_StopsOnCanceledContext(t *testing.T) {
	session, _ := newSession(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())

	scenarios := []scenario.Scenario{
		{Name: "first", Run: func(ctx context.Context, env *scenario.Env) error {
			cancel()
			return nil
		}},
		{Name: "second", Run: func(ctx context.Context, env *scenario.Env) error { return nil }},
	}

	summary := scenario.NewRunner(session, scenario.DefaultRunnerOptions()).Run(ctx, scenarios)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "first", summary.Results[0].Name)
}

func TestFilter(t *testing.T) {
	buzz, err := scenario.Filter(scenario.All(), "^buzz_")
	require.NoError(t, err)
	assert.Equal(t, []string{"buzz_navigates", "buzz_post_button", "buzz_share_button"}, scenario.Names(buzz))

	all, err := scenario.Filter(scenario.All(), "")
	require.NoError(t, err)
	assert.Len(t, all, 15)

	_, err = scenario.Filter(scenario.All(), "(")
	assert.Error(t, err)
}

func TestAssertionError(t *testing.T) {
	err := scenario.Failf("expected %q", "Dashboard")

	assert.ErrorIs(t, err, scenario.ErrAssertion)
	var assertionErr *scenario.AssertionError
	require.True(t, errors.As(err, &assertionErr))
	assert.Equal(t, `expected "Dashboard"`, assertionErr.Message)
	assert.Equal(t, `assertion failed: expected "Dashboard"`, err.Error())
}

func TestPreflight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/web/index.php/auth/login", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	hc := collector.NewHTTPClientCollector(10)
	client := &http.Client{Transport: hc.Transport(nil)}

	require.NoError(t, scenario.Preflight(context.Background(), client, server.URL+"/"))
	assert.Len(t, hc.GetRequests(10), 2, "the redirect is followed")

	err := scenario.Preflight(context.Background(), client, server.URL+"/down")
	assert.ErrorIs(t, err, scenario.ErrUnreachable)
	assert.Contains(t, err.Error(), "503")

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	err = scenario.Preflight(context.Background(), client, closed.URL)
	assert.ErrorIs(t, err, scenario.ErrUnreachable)
}
