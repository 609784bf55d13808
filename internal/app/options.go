package service

import (
	"time"

	"github.com/beerlog/beerboard/internal/adapters/mq/worker"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the drink log is read from.
func WithSource(src worker.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithQueueSize sets how many refresh requests may be pending.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRefreshInterval sets the scheduled refresh period; zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithSeasonDays sets the season length used for per-day averages.
func WithSeasonDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.seasonDays = days
		}
	}
}

// WithStartDate sets the season start date (YYYY-MM-DD).
func WithStartDate(iso string) Option {
	return func(s *Service) {
		if iso != "" {
			s.startDate = iso
		}
	}
}

// WithDirectory sets the email to alias directory.
func WithDirectory(dir entry.Directory) Option {
	return func(s *Service) { s.dir = dir }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
