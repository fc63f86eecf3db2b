package collector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/pages"
)

func TestBrowserCollector_FiltersResourceTypes(t *testing.T) {
	bc := collector.NewBrowserCollector(10)

	bc.CollectExchange(context.Background(), collector.Exchange{Method: "GET", URL: "/web/index.php/auth/login", ResourceType: "document", Status: 200})
	bc.CollectExchange(context.Background(), collector.Exchange{Method: "GET", URL: "/dist/logo.png", ResourceType: "image", Status: 200})
	bc.CollectExchange(context.Background(), collector.Exchange{Method: "GET", URL: "/dist/missing.css", ResourceType: "stylesheet", Status: 404})
	bc.CollectExchange(context.Background(), collector.Exchange{Method: "POST", URL: "/api/v2/buzz/posts", ResourceType: "xhr", Failure: "net::ERR_ABORTED"})

	exchanges := bc.GetExchanges(10)
	require.Len(t, exchanges, 3)
	assert.Equal(t, "/web/index.php/auth/login", exchanges[0].URL)
	assert.Equal(t, collector.SourceBrowser, exchanges[0].Source)
	assert.Equal(t, "/dist/missing.css", exchanges[1].URL, "failed exchanges are kept regardless of type")
	assert.True(t, exchanges[2].Failed())
}

func TestBrowserCollector_GroupsUnderScenario(t *testing.T) {
	ec := collector.NewEventCollector(10)
	defer ec.Close()
	options := collector.DefaultBrowserOptions()
	options.EventCollector = ec
	bc := collector.NewBrowserCollectorWithOptions(10, options)

	ctx := ec.StartEvent(context.Background())
	bc.CollectExchange(ctx, collector.Exchange{Method: "GET", URL: "/", ResourceType: "document", Status: 200})
	bc.CollectConsole(ctx, collector.ConsoleMessage{Type: "error", Text: "Failed to load resource", Time: time.Now()})
	ec.EndEvent(ctx, "scenario")

	events := ec.GetEvents(10)
	require.Len(t, events, 1)
	require.Len(t, events[0].Children, 2)
	assert.IsType(t, collector.Exchange{}, events[0].Children[0].Data)
	assert.Equal(t, "Failed to load resource", events[0].Children[1].Data.(collector.ConsoleMessage).Text)
}

func TestBrowserCollector_ConsoleDisabled(t *testing.T) {
	ec := collector.NewEventCollector(10)
	defer ec.Close()
	bc := collector.NewBrowserCollectorWithOptions(10, collector.BrowserOptions{EventCollector: ec})

	bc.CollectConsole(context.Background(), collector.ConsoleMessage{Type: "log", Text: "hello"})

	assert.Empty(t, ec.GetEvents(10))
}

func TestStepRecorder_Hook(t *testing.T) {
	ec := collector.NewEventCollector(10)
	defer ec.Close()
	recorder := collector.NewStepRecorder(ec)

	ctx := ec.StartEvent(context.Background())
	hook := recorder.Hook(ctx)
	start := time.Now()
	hook(pages.Step{Action: "fill", Selector: "input[name='username']", Value: "Admin", Start: start, End: start.Add(10 * time.Millisecond)})
	hook(pages.Step{Action: "click", Selector: "button[type='submit']", Err: errors.New("timeout"), Start: start, End: start})
	ec.EndEvent(ctx, collector.ScenarioResult{Name: "login_valid_credentials", Status: collector.StatusFailed})

	evt := ec.GetEvents(1)[0]
	require.Len(t, evt.Children, 2)
	step := evt.Children[0].Data.(collector.Step)
	assert.Equal(t, "fill", step.Action)
	assert.Equal(t, 10*time.Millisecond, evt.Children[0].Duration())
	assert.Error(t, evt.Children[1].Data.(collector.Step).Err)
	assert.False(t, evt.Data.(collector.ScenarioResult).Passed())
}
