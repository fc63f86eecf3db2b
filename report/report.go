// Package report renders the event tree of a run as HTML, either as a standalone
// file or served live over HTTP while a run is in progress.
package report

import (
	"context"
	"io"
	"time"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/report/views"
)

// Write renders a standalone report of events (in run order) with every
// scenario expanded. Links point into the same document.
func Write(ctx context.Context, w io.Writer, events []*collector.Event, opts ...Option) error {
	o := newOptions(opts)

	ctx = views.WithOptions(ctx, views.Options{Static: true})
	return views.Report(views.ReportProps{
		Title:         o.Title,
		Generated:     time.Now(),
		Events:        events,
		TruncateAfter: int(o.TruncateAfter),
		Inline:        true,
	}).Render(ctx, w)
}
