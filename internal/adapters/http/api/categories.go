package api

import (
	"fmt"
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/model"
)

// Category kinds accepted by /api/categories.
const (
	categoryBrand    = "brand"
	categoryVariety  = "variety"
	categoryLocation = "location"
	categoryEvent    = "event"
)

type timeRangesResponse struct {
	Order  []string       `json:"order"`
	Totals map[string]int `json:"totals"`
}

type matrixResponse struct {
	Weekdays   []string `json:"weekdays"`
	TimeRanges []string `json:"timeRanges"`
	Counts     [][]int  `json:"counts"`
}

// handleTimeRanges serves GET /api/time-ranges.
func (s *Server) handleTimeRanges(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_time_ranges"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, timeRangesResponse{Order: model.TimeRanges, Totals: analytics.TimeRangeTotals(snap.Data)})
}

// handleMatrix serves GET /api/matrix: weekday by time range counts.
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matrix"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, matrixResponse{
		Weekdays:   analytics.Weekdays,
		TimeRanges: model.TimeRanges,
		Counts:     analytics.DayOfWeekTimeRangeMatrix(snap.Data),
	})
}

// handleCategories serves GET /api/categories?kind=&member=: a histogram with
// shares, for everyone or for one member.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_categories"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	d := snap.Data
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = categoryBrand
	}
	member := memberParam(r.URL.Query().Get("member"))

	if member == analytics.AllMembers {
		var hist map[string]int
		switch kind {
		case categoryBrand:
			hist = d.GlobalBrands
		case categoryVariety:
			hist = d.GlobalVarieties
		case categoryLocation:
			hist = d.GlobalLocations
		case categoryEvent:
			hist = d.GlobalEvents
		default:
			s.badRequest(w, op, fmt.Errorf("unknown kind %q", kind))
			return
		}
		writeJSON(w, http.StatusOK, analytics.CategoryShares(hist, d.TotalBeers))
		return
	}

	p := d.Player(member)
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, fmt.Errorf("member %q", member)))
		return
	}
	var hist map[string]int
	switch kind {
	case categoryBrand:
		hist = analytics.MemberBrands(d, member)
	case categoryVariety:
		hist = analytics.MemberVarieties(d, member)
	case categoryLocation:
		hist = analytics.MemberLocations(d, member)
	case categoryEvent:
		hist = analytics.MemberEvents(d, member)
	default:
		s.badRequest(w, op, fmt.Errorf("unknown kind %q", kind))
		return
	}
	writeJSON(w, http.StatusOK, analytics.CategoryShares(hist, p.TotalBeers))
}

// handleTopBrands serves GET /api/top-brands?min_unique=&top=.
func (s *Server) handleTopBrands(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_brands"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	minUnique, err := queryInt(r, "min_unique", analytics.DefaultMinUniqueBrand, 0, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	top, err := queryInt(r, "top", analytics.DefaultTopBrands, 1, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.MemberTopBrands(snap.Data, minUnique, top))
}
