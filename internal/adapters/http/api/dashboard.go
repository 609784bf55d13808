package api

import (
	"fmt"
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/analytics"
)

// handleDashboard serves GET /api/dashboard: the whole aggregate. The
// response is tagged with the snapshot fingerprint so clients can poll
// with If-None-Match.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	etag := fmt.Sprintf(`"%016x"`, snap.Hash)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap.Data)
}

// handleTotals serves GET /api/totals.
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_totals"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, analytics.TotalStats(snap.Data, s.deps.SeasonDays(), s.deps.Now()))
}

// handleLeaderboard serves GET /api/leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Leaderboard(snap.Data, s.deps.SeasonDays()))
}

// handleAlone serves GET /api/alone?limit=N.
func (s *Server) handleAlone(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_alone"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	limit, err := queryInt(r, "limit", analytics.DefaultAloneLimit, 1, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.AloneLeaderboard(snap.Data, limit))
}
