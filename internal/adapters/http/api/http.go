// Package api serves the dashboard queries over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/beerlog/beerboard/internal/adapters/repository"
	"github.com/beerlog/beerboard/pkg/logger"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Current returns the published snapshot, or an error while none exists.
	Current(ctx context.Context) (*repository.Snapshot, error)

	// Revalidate queues a manual refresh and returns its request id.
	// Fails with model.ErrBackpressure when a refresh is already pending.
	Revalidate(ctx context.Context) (string, error)

	// SeasonDays is the season length used for per-day averages.
	SeasonDays() int

	// Now is the clock used for date-relative figures.
	Now() time.Time
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps     Dependencies
	stats    StatsProvider
	maxLimit int

	rps   float64
	burst int

	logger logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps limit-like query parameters.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithRateLimit sets the per-client request rate; zero disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps >= 0 && burst > 0 {
			s.rps = rps
			s.burst = burst
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, stats StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		stats:    stats,
		maxLimit: defaultMaxLimit,
		logger:   logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("/healthz", "healthz", s.handleHealth)
	route("/stats", "stats", s.handleStats)

	route("/api/dashboard", "dashboard", s.handleDashboard)
	route("/api/totals", "totals", s.handleTotals)
	route("/api/leaderboard", "leaderboard", s.handleLeaderboard)
	route("/api/alone", "alone", s.handleAlone)
	route("/api/records", "records", s.handleRecords)
	route("/api/milestones", "milestones", s.handleMilestones)
	route("/api/months", "months", s.handleMonths)
	route("/api/months/{key}", "month", s.handleMonth)
	route("/api/consumption", "consumption", s.handleConsumption)
	route("/api/month-grid", "month_grid", s.handleMonthGrid)
	route("/api/time-ranges", "time_ranges", s.handleTimeRanges)
	route("/api/matrix", "matrix", s.handleMatrix)
	route("/api/categories", "categories", s.handleCategories)
	route("/api/top-brands", "top_brands", s.handleTopBrands)
	route("/api/players", "players", s.handlePlayers)
	route("/api/players/{email}", "player", s.handlePlayer)
	route("/api/versus", "versus", s.handleVersus)
	route("/api/streaks", "streaks", s.handleStreaks)
	route("/api/revalidate", "revalidate", s.handleRevalidate)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowMethod answers 405 unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	return false
}
