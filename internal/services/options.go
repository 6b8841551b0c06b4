package services

import "time"

type options struct {
	now            func() time.Time
	highlightDelay time.Duration
	onChange       func()
}

// Option configures a DepositEngine, a FundLedger or a Workspace.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHighlightDelay sets how long new deposits stay highlighted after they
// are first shown.
func WithHighlightDelay(d time.Duration) Option {
	return func(o *options) { o.highlightDelay = d }
}

// WithOnChange registers a hook called after a background change to the
// working set (a cleared highlight), so the caller can redraw.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now, highlightDelay: DefaultHighlightDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.highlightDelay <= 0 {
		o.highlightDelay = DefaultHighlightDelay
	}
	return o
}
