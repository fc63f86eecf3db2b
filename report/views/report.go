// Package views renders the event tree of a run as HTML.
package views

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/samber/lo"

	"github.com/networkteam/hrmcheck/collector"
)

type Options struct {
	// PathPrefix where the report handler is mounted, empty for the root.
	PathPrefix string
	// Static renders links as anchors into the same document.
	Static bool
}

type optionsKey struct{}

func WithOptions(ctx context.Context, options Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, options)
}

func optionsFromContext(ctx context.Context) Options {
	options, _ := ctx.Value(optionsKey{}).(Options)
	return options
}

func eventHref(ctx context.Context, evt *collector.Event) string {
	options := optionsFromContext(ctx)
	if options.Static {
		return "#event-" + evt.ID.String()
	}
	return options.PathPrefix + "/?id=" + evt.ID.String()
}

type ReportProps struct {
	Title     string
	Generated time.Time
	// Events are top-level events in display order.
	Events        []*collector.Event
	SelectedEvent *collector.Event
	TruncateAfter int
	// Inline renders the details of every event below the list.
	Inline bool
	// Live subscribes to new events via server-sent events.
	Live bool
}

// Counts returns the number of passed and failed scenarios among events.
func Counts(events []*collector.Event) (passed, failed int) {
	results := lo.FilterMap(events, func(evt *collector.Event, _ int) (collector.ScenarioResult, bool) {
		result, ok := evt.Data.(collector.ScenarioResult)
		return result, ok
	})
	passed = lo.CountBy(results, collector.ScenarioResult.Passed)
	return passed, len(results) - passed
}

func Report(props ReportProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		passed, failed := Counts(props.Events)

		hw.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.printf(`<title>%s</title>`, templ.EscapeString(props.Title))
		hw.printf(`<script src="https://cdn.tailwindcss.com"></script>`)
		hw.render(chromaStyles())
		hw.printf(`</head><body class="bg-neutral-50 text-neutral-900 p-6 font-sans">`)

		hw.printf(`<header class="mb-6"><h1 class="text-2xl font-bold">%s</h1>`, templ.EscapeString(props.Title))
		hw.printf(`<p class="text-sm text-neutral-600 flex gap-2 items-center mt-1">`)
		hw.render(Badge(BadgeProps{Variant: BadgeVariantSuccess}, fmt.Sprintf("%d passed", passed)))
		hw.render(Badge(BadgeProps{Variant: lo.Ternary(failed > 0, BadgeVariantError, BadgeVariantSecondary)}, fmt.Sprintf("%d failed", failed)))
		hw.printf(`<span>generated %s</span></p></header>`, templ.EscapeString(props.Generated.Format(time.RFC1123)))

		hw.printf(`<main class="grid grid-cols-1 lg:grid-cols-3 gap-6">`)
		hw.render(EventList(props.Events, props.TruncateAfter))

		hw.printf(`<section id="event-details" class="lg:col-span-2 space-y-6">`)
		switch {
		case props.SelectedEvent != nil:
			hw.render(LinkButton(ButtonProps{Variant: ButtonVariantOutline}, templ.SafeURL(optionsFromContext(ctx).PathPrefix+"/"), "All scenarios"))
			hw.render(EventDetail(props.SelectedEvent))
		case props.Inline:
			for _, evt := range props.Events {
				hw.render(EventDetail(evt))
			}
		default:
			hw.printf(`<p class="text-neutral-500">Select a scenario to see its steps.</p>`)
		}
		hw.printf(`</section></main>`)

		if props.Live {
			hw.printf(`<script>new EventSource(%q).addEventListener("new-event", function (e) {`+
				`document.getElementById("event-list").insertAdjacentHTML("afterbegin", e.data);});</script>`,
				optionsFromContext(ctx).PathPrefix+"/events-sse")
		}
		hw.printf(`</body></html>`)
		return hw.err
	})
}

func EventList(events []*collector.Event, truncateAfter int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		hw.printf(`<ul id="event-list" class="space-y-1">`)
		for i, evt := range events {
			if truncateAfter > 0 && i >= truncateAfter {
				hw.printf(`<li class="text-xs text-neutral-500">%d more events not shown</li>`, len(events)-truncateAfter)
				break
			}
			hw.render(EventListItem(evt))
		}
		hw.printf(`</ul>`)
		return hw.err
	})
}

// EventListItem is a one-line summary of a top-level event linking to its details.
func EventListItem(evt *collector.Event) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		hw.printf(`<li><a class="flex gap-2 items-center rounded-md px-2 py-1 hover:bg-neutral-200" href="%s">`,
			templ.EscapeString(eventHref(ctx, evt)))
		hw.render(eventSummary(evt))
		hw.printf(`<span class="ml-auto text-xs text-neutral-500">%s</span></a></li>`, formatDuration(evt.Duration()))
		return hw.err
	})
}

// EventDetail renders an event and its direct children in start order.
func EventDetail(evt *collector.Event) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		hw.printf(`<article id="event-%s" class="rounded-lg border border-neutral-200 bg-white p-4">`, evt.ID)
		hw.printf(`<div class="flex gap-2 items-center font-semibold">`)
		hw.render(eventSummary(evt))
		hw.printf(`<span class="ml-auto text-xs text-neutral-500">%s</span></div>`, formatDuration(evt.Duration()))
		hw.render(eventBody(evt))

		if len(evt.Children) > 0 {
			children := make([]*collector.Event, len(evt.Children))
			copy(children, evt.Children)
			sort.SliceStable(children, func(i, j int) bool {
				return children[i].Start.Before(children[j].Start)
			})

			hw.printf(`<ol class="mt-3 space-y-1 border-l border-neutral-200 pl-3 text-sm">`)
			for _, child := range children {
				hw.printf(`<li><details><summary class="flex gap-2 items-center cursor-pointer">`)
				hw.render(eventSummary(child))
				hw.printf(`<span class="ml-auto text-xs text-neutral-500">+%s</span></summary>`,
					formatDuration(child.Start.Sub(evt.Start)))
				hw.render(eventBody(child))
				hw.printf(`</details></li>`)
			}
			hw.printf(`</ol>`)
		}
		hw.printf(`</article>`)
		return hw.err
	})
}

func eventSummary(evt *collector.Event) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		switch data := evt.Data.(type) {
		case collector.ScenarioResult:
			hw.render(StatusBadge(data.Status))
			hw.printf(`<span class="font-mono">%s</span>`, templ.EscapeString(data.Name))
		case collector.Step:
			variant := lo.Ternary(data.Err != nil, BadgeVariantError, BadgeVariantOutline)
			hw.render(Badge(BadgeProps{Variant: variant}, data.Action))
			hw.printf(`<span class="font-mono truncate">%s</span>`, templ.EscapeString(stepTarget(data)))
		case collector.Exchange:
			hw.render(HTTPStatusBadge(data))
			hw.printf(`<span class="font-mono truncate">%s %s</span>`, templ.EscapeString(data.Method), templ.EscapeString(data.URL))
		case collector.ConsoleMessage:
			hw.render(Badge(BadgeProps{Variant: lo.Ternary(data.Type == "error", BadgeVariantError, BadgeVariantSecondary)}, "console."+data.Type))
			hw.printf(`<span class="truncate">%s</span>`, templ.EscapeString(data.Text))
		case slog.Record:
			hw.render(LevelBadge(data.Level))
			hw.printf(`<span class="truncate">%s</span>`, templ.EscapeString(data.Message))
		default:
			hw.printf(`<span class="truncate">%s</span>`, templ.EscapeString(fmt.Sprint(data)))
		}
		return hw.err
	})
}

func eventBody(evt *collector.Event) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{ctx: ctx, w: w}
		switch data := evt.Data.(type) {
		case collector.ScenarioResult:
			if data.URL != "" {
				hw.printf(`<p class="text-sm text-neutral-600 mt-1">final URL <span class="font-mono">%s</span></p>`, templ.EscapeString(data.URL))
			}
			if data.Error != "" {
				hw.printf(`<pre class="mt-2 whitespace-pre-wrap rounded-md bg-red-50 p-2 text-sm text-red-700">%s</pre>`, templ.EscapeString(data.Error))
			}
		case collector.Step:
			if data.Err != nil {
				hw.printf(`<pre class="mt-1 whitespace-pre-wrap text-red-700">%s</pre>`, templ.EscapeString(data.Err.Error()))
			}
		case collector.Exchange:
			hw.printf(`<p class="text-xs text-neutral-600 mt-1">%s from %s</p>`, templ.EscapeString(data.ResourceType), templ.EscapeString(data.Source))
			if data.Failure != "" {
				hw.printf(`<pre class="mt-1 whitespace-pre-wrap text-red-700">%s</pre>`, templ.EscapeString(data.Failure))
			}
			if len(data.Headers) > 0 {
				hw.render(highlightContent(formatHeaders(data.Headers), "yaml"))
			}
		case slog.Record:
			if attrs := formatAttrs(iterSlogAttrs(data)); attrs != "" {
				hw.render(highlightContent(attrs, "yaml"))
			}
		}
		return hw.err
	})
}

func stepTarget(step collector.Step) string {
	parts := lo.Compact([]string{step.Selector, step.Value})
	return strings.Join(parts, " ← ")
}

func formatHeaders(headers map[string]string) string {
	keys := lo.Keys(headers)
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %q\n", key, headers[key])
	}
	return b.String()
}

// htmlWriter keeps the first write error so components can be written sequentially.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (hw *htmlWriter) printf(format string, args ...any) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

func (hw *htmlWriter) render(c templ.Component) {
	if hw.err != nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}
