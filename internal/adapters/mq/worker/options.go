package worker

import (
	"time"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/pkg/logger"
)

// Option applies a configuration option to the Refresher.
type Option func(*Refresher)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(r *Refresher) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDirectory sets the email to alias directory used when aggregating.
func WithDirectory(dir entry.Directory) Option {
	return func(r *Refresher) { r.dir = dir }
}

// WithStartDate sets the season start stamped on every aggregate.
func WithStartDate(iso string) Option {
	return func(r *Refresher) {
		if iso != "" {
			r.startDate = iso
		}
	}
}

// WithClock replaces time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}
