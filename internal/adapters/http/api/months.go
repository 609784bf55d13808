package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/entry"
)

type monthsResponse struct {
	Months []analytics.MonthMeta `json:"months"`
	Dates  []string              `json:"dates"`
}

type monthResponse struct {
	Month analytics.MonthMeta `json:"month"`
	Days  map[string]int      `json:"days"`
	Total int                 `json:"total"`
}

// memberParam normalizes a member query value; "" and "all" select everyone.
func memberParam(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, analytics.AllMembers) {
		return analytics.AllMembers
	}
	return entry.NormalizeEmail(raw)
}

// handleMonths serves GET /api/months: the active months and days.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_months"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	keys := analytics.MonthKeys(snap.Data)
	resp := monthsResponse{Months: make([]analytics.MonthMeta, 0, len(keys)), Dates: analytics.ChartDates(snap.Data)}
	for _, k := range keys {
		if meta, ok := analytics.MonthInfo(k); ok {
			resp.Months = append(resp.Months, meta)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMonth serves GET /api/months/{key}: calendar data for one month.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_month"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	key := r.PathValue("key")
	meta, ok := analytics.MonthInfo(key)
	if !ok {
		s.badRequest(w, op, fmt.Errorf("invalid month %q, want YYYY-MM", key))
		return
	}
	days := analytics.MonthDailyCounts(snap.Data, key)
	total := 0
	for _, n := range days {
		total += n
	}
	writeJSON(w, http.StatusOK, monthResponse{Month: meta, Days: days, Total: total})
}

// handleConsumption serves GET /api/consumption?member=&cumulative=.
func (s *Server) handleConsumption(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_consumption"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	cumulative, err := queryBool(r, "cumulative", false)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	member := memberParam(r.URL.Query().Get("member"))
	if member != analytics.AllMembers && snap.Data.Player(member) == nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, fmt.Errorf("member %q", member)))
		return
	}
	writeJSON(w, http.StatusOK, analytics.MonthlyConsumption(snap.Data, member, s.deps.Now(), cumulative))
}

// handleMonthGrid serves GET /api/month-grid.
func (s *Server) handleMonthGrid(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_month_grid"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, analytics.PlayerMonthGrid(snap.Data))
}
