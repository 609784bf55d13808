package api

import (
	"fmt"
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// Record kinds accepted by /api/records.
const (
	recordsGlobalBeers      = "global-beers"
	recordsGlobalLiters     = "global-liters"
	recordsIndividualBeers  = "individual-beers"
	recordsIndividualLiters = "individual-liters"
)

type recordsFunc func(d *model.DashboardData, limit, unique int) []types.DayRecord

var recordKinds = map[string]recordsFunc{ //nolint:gochecknoglobals // dispatch table
	recordsGlobalBeers:      analytics.TopGlobalBeerDays,
	recordsGlobalLiters:     analytics.TopGlobalLiterDays,
	recordsIndividualBeers:  analytics.TopIndividualBeerRecords,
	recordsIndividualLiters: analytics.TopIndividualLiterRecords,
}

type recordsResponse struct {
	Kind    string            `json:"kind"`
	Records []types.DayRecord `json:"records"`
}

// handleRecords serves GET /api/records?kind=&limit=&unique=.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_records"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = recordsGlobalBeers
	}
	top, ok := recordKinds[kind]
	if !ok {
		s.badRequest(w, op, fmt.Errorf("unknown kind %q", kind))
		return
	}
	limit, err := queryInt(r, "limit", analytics.DefaultRecordLimit, 1, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	unique, err := queryInt(r, "unique", analytics.DefaultUniqueValues, 1, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Kind: kind, Records: top(snap.Data, limit, unique)})
}

// handleMilestones serves GET /api/milestones?step=&max=.
func (s *Server) handleMilestones(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_milestones"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	step, err := queryInt(r, "step", analytics.DefaultMilestoneStep, 1, 1_000_000)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	limit, err := queryInt(r, "max", analytics.DefaultMilestoneMax, step, 1_000_000)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.PlayerMilestones(snap.Data, step, limit))
}
