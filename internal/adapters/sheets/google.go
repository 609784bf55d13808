package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/beerlog/beerboard/pkg/logger"
	"github.com/beerlog/beerboard/pkg/metrics"
)

// Defaults for the Google Sheets source.
const (
	DefaultRange = "Respuestas de formulario 1!A:L"

	defaultTimeout         = 10 * time.Second
	defaultRPS             = 1
	defaultBurst           = 2
	defaultMinRequests     = 3
	defaultFailureRatio    = 0.6
	defaultOpenTimeout     = time.Minute
	defaultHalfOpenProbes  = 1
	defaultBreakerInterval = 5 * time.Minute
	breakerName            = "google-sheets"
)

// GoogleSource reads the drink log through the Sheets API with an API key.
// Calls are rate limited and guarded by a circuit breaker so a failing API
// is not hammered by interval and manual refreshes.
type GoogleSource struct {
	spreadsheetID string
	readRange     string
	timeout       time.Duration

	rps            float64
	burst          int
	minRequests    uint32
	failureRatio   float64
	openTimeout    time.Duration
	halfOpenProbes uint32
	clientOpts     []option.ClientOption

	service *sheetsapi.Service
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[][]string]
	logger  logger.Logger
}

// NewGoogleSource builds the API client. A missing key or spreadsheet id
// yields ErrNotConfigured.
func NewGoogleSource(ctx context.Context, apiKey, spreadsheetID string, opts ...GoogleOption) (*GoogleSource, error) {
	if apiKey == "" || spreadsheetID == "" {
		return nil, fmt.Errorf("%w: api key and spreadsheet id are required", ErrNotConfigured)
	}
	s := &GoogleSource{
		spreadsheetID:  spreadsheetID,
		readRange:      DefaultRange,
		timeout:        defaultTimeout,
		rps:            defaultRPS,
		burst:          defaultBurst,
		minRequests:    defaultMinRequests,
		failureRatio:   defaultFailureRatio,
		openTimeout:    defaultOpenTimeout,
		halfOpenProbes: defaultHalfOpenProbes,
		logger:         logger.Get().Named("sheets"),
	}
	for _, opt := range opts {
		opt(s)
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, s.clientOpts...)
	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	s.service = service
	s.limiter = rate.NewLimiter(rate.Limit(s.rps), s.burst)
	s.cb = s.newBreaker()
	return s, nil
}

func (s *GoogleSource) newBreaker() *gobreaker.CircuitBreaker[[][]string] {
	metrics.UpdateBreakerState(breakerName, stateToFloat(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[[][]string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: s.halfOpenProbes,
		Interval:    defaultBreakerInterval,
		Timeout:     s.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.UpdateBreakerState(name, stateToFloat(to))
		},
	})
}

// Fetch implements Source.
func (s *GoogleSource) Fetch(ctx context.Context) ([][]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		metrics.RecordFetchError(s.Name(), "rate_limited")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	start := time.Now()
	rows, err := s.cb.Execute(func() ([][]string, error) {
		return s.get(ctx)
	})
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordFetchError(s.Name(), "breaker_open")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		kind := "api"
		if errors.Is(err, context.DeadlineExceeded) {
			kind = "timeout"
		}
		metrics.RecordFetchError(s.Name(), kind)
		return nil, err
	}
	return rows, nil
}

func (s *GoogleSource) get(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return FromSheetValues(resp.Values), nil
}

// Name implements Source.
func (s *GoogleSource) Name() string { return "google" }

// State reports the circuit breaker state.
func (s *GoogleSource) State() string { return s.cb.State().String() }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
