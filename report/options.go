package report

// options holds configuration of a report.
// This is unexported; use Option functions to configure.
type options struct {
	// PathPrefix is where the handler is mounted (e.g. "/report").
	PathPrefix string
	// TruncateAfter limits the number of events shown in the event list.
	TruncateAfter uint64
	// Title is shown as page title and heading.
	Title string
}

// Option configures a report.
type Option func(*options)

// WithPathPrefix sets the path prefix where the handler is mounted.
// This is used for generating correct URLs in the report.
func WithPathPrefix(prefix string) Option {
	return func(o *options) {
		o.PathPrefix = prefix
	}
}

// WithTruncateAfter limits the number of events shown in the event list.
// Default is 100 if not specified, 0 shows all events.
func WithTruncateAfter(limit uint64) Option {
	return func(o *options) {
		o.TruncateAfter = limit
	}
}

// WithTitle sets the heading of the report.
func WithTitle(title string) Option {
	return func(o *options) {
		o.Title = title
	}
}

func newOptions(opts []Option) options {
	o := options{
		TruncateAfter: 100,
		Title:         "hrmcheck report",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
