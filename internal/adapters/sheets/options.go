package sheets

import (
	"time"

	"google.golang.org/api/option"

	"github.com/beerlog/beerboard/pkg/logger"
)

// GoogleOption configures a GoogleSource.
type GoogleOption func(*GoogleSource)

// WithRange sets the A1 range to read.
func WithRange(readRange string) GoogleOption {
	return func(s *GoogleSource) {
		if readRange != "" {
			s.readRange = readRange
		}
	}
}

// WithTimeout bounds each API call.
func WithTimeout(d time.Duration) GoogleOption {
	return func(s *GoogleSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit sets the fetch rate and burst.
func WithRateLimit(rps float64, burst int) GoogleOption {
	return func(s *GoogleSource) {
		if rps > 0 && burst > 0 {
			s.rps = rps
			s.burst = burst
		}
	}
}

// WithBreaker tunes the circuit breaker: it opens once at least minRequests
// calls were made and failureRatio of them failed, stays open for
// openTimeout, then admits halfOpenProbes trial calls.
func WithBreaker(minRequests uint32, failureRatio float64, openTimeout time.Duration, halfOpenProbes uint32) GoogleOption {
	return func(s *GoogleSource) {
		if minRequests > 0 {
			s.minRequests = minRequests
		}
		if failureRatio > 0 && failureRatio <= 1 {
			s.failureRatio = failureRatio
		}
		if openTimeout > 0 {
			s.openTimeout = openTimeout
		}
		if halfOpenProbes > 0 {
			s.halfOpenProbes = halfOpenProbes
		}
	}
}

// WithClientOptions passes extra options to the API client, such as a custom
// endpoint or HTTP client.
func WithClientOptions(opts ...option.ClientOption) GoogleOption {
	return func(s *GoogleSource) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) GoogleOption {
	return func(s *GoogleSource) {
		if l != nil {
			s.logger = l
		}
	}
}
