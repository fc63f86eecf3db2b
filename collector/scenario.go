package collector

import (
	"context"
	"time"

	"github.com/networkteam/hrmcheck/pages"
)

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// ScenarioResult is the data of a top-level scenario event.
type ScenarioResult struct {
	Name   string
	Status Status
	Error  string
	// URL is the page URL when the scenario finished.
	URL      string
	Duration time.Duration
}

func (r ScenarioResult) Passed() bool {
	return r.Status == StatusPassed
}

// StepRecorder turns traced page primitives into events.
type StepRecorder struct {
	eventCollector *EventCollector
}

func NewStepRecorder(eventCollector *EventCollector) *StepRecorder {
	return &StepRecorder{eventCollector: eventCollector}
}

// Hook returns a pages.StepFunc recording steps as children of the event in ctx.
func (r *StepRecorder) Hook(ctx context.Context) pages.StepFunc {
	return func(step pages.Step) {
		r.eventCollector.CollectEvent(ctx, Step(step))
	}
}

// Step is a traced page primitive as event data.
type Step pages.Step

func (s Step) Timing() (time.Time, time.Time) {
	return s.Start, s.End
}
