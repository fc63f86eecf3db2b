package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/fixture"
	"github.com/networkteam/hrmcheck/pages"
)

type RunnerOptions struct {
	// EventCollector receives one top-level event per scenario with the result as data.
	EventCollector *collector.EventCollector
	Logger         *slog.Logger
	// OnResult is called after each scenario, e.g. to print progress.
	OnResult func(result collector.ScenarioResult)
}

func DefaultRunnerOptions() RunnerOptions {
	return RunnerOptions{
		Logger: slog.Default(),
	}
}

// Runner runs scenarios sequentially, each in a fresh context of the session.
type Runner struct {
	session *fixture.Session
	options RunnerOptions
}

func NewRunner(session *fixture.Session, options RunnerOptions) *Runner {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Runner{
		session: session,
		options: options,
	}
}

// Summary is the outcome of a run.
type Summary struct {
	Started  time.Time
	Duration time.Duration
	Results  []collector.ScenarioResult
}

func (s Summary) Passed() int {
	return lo.CountBy(s.Results, collector.ScenarioResult.Passed)
}

func (s Summary) Failed() int {
	return len(s.Results) - s.Passed()
}

// OK reports whether every scenario that ran passed.
func (s Summary) OK() bool {
	return s.Failed() == 0
}

func (s Summary) FailedNames() []string {
	return lo.FilterMap(s.Results, func(r collector.ScenarioResult, _ int) (string, bool) {
		return r.Name, !r.Passed()
	})
}

// Run executes the scenarios in order. A failing scenario does not stop the run;
// once ctx is done no further scenario is started.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) Summary {
	summary := Summary{Started: time.Now()}

	for _, sc := range scenarios {
		if ctx.Err() != nil {
			r.options.Logger.Warn("Run interrupted", "skipped", len(scenarios)-len(summary.Results))
			break
		}

		result := r.runOne(ctx, sc)
		summary.Results = append(summary.Results, result)
		if r.options.OnResult != nil {
			r.options.OnResult(result)
		}
	}

	summary.Duration = time.Since(summary.Started)
	return summary
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) collector.ScenarioResult {
	if r.options.EventCollector != nil {
		ctx = r.options.EventCollector.StartEvent(ctx)
	}
	logger := r.options.Logger.With("scenario", sc.Name)
	logger.DebugContext(ctx, "Running scenario")

	start := time.Now()
	var url string
	err := r.session.Run(ctx, func(ctx context.Context, page pages.Page) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic: %v", p)
			}
			url = page.URL()
		}()

		return sc.Run(ctx, &Env{
			Page:   page,
			Config: r.session.Config(),
			Logger: logger,
		})
	})

	result := collector.ScenarioResult{
		Name:     sc.Name,
		Status:   collector.StatusPassed,
		URL:      url,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Status = collector.StatusFailed
		result.Error = err.Error()
		logger.ErrorContext(ctx, "Scenario failed", "error", err, "url", url, "duration", result.Duration)
	} else {
		logger.InfoContext(ctx, "Scenario passed", "duration", result.Duration)
	}

	if r.options.EventCollector != nil {
		r.options.EventCollector.EndEvent(ctx, result)
	}

	return result
}
