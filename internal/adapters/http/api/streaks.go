package api

import (
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/streak"
)

const defaultStreakLimit = 10

type streakView struct {
	streak.Streak
	Details []streak.Detail `json:"details"`
}

// handleStreaks serves GET /api/streaks?member=&limit=.
func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_streaks"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	limit, err := queryInt(r, "limit", defaultStreakLimit, 1, s.maxLimit)
	if err != nil {
		s.badRequest(w, op, err)
		return
	}
	found := streak.Find(snap.Data.Entries, memberParam(r.URL.Query().Get("member")))
	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]streakView, 0, len(found))
	for _, st := range found {
		out = append(out, streakView{Streak: st, Details: streak.Details(st)})
	}
	writeJSON(w, http.StatusOK, out)
}
