package api

import (
	"fmt"
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/types"
)

type playerSummary struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	TotalBeers int     `json:"totalBeers"`
	Liters     float64 `json:"liters"`
	DrankAlone int     `json:"drankAlone"`
}

type playerResponse struct {
	playerSummary
	Progression  []types.ProgressionPoint `json:"progression"`
	TopBeerDays  []types.DayRecord        `json:"topBeerDays"`
	TopLiterDays []types.DayRecord        `json:"topLiterDays"`
	Milestones   []types.Milestone        `json:"milestones"`
	Brands       []types.CategoryShare    `json:"brands"`
	Varieties    []types.CategoryShare    `json:"varieties"`
	Locations    []types.CategoryShare    `json:"locations"`
	Events       []types.CategoryShare    `json:"events"`
	TimeRanges   map[string]int           `json:"timeRanges"`
}

// handlePlayers serves GET /api/players in first-seen order.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	emails := analytics.PlayerEmails(snap.Data)
	out := make([]playerSummary, 0, len(emails))
	for _, email := range emails {
		p := analytics.PlayerStats(snap.Data, email)
		out = append(out, playerSummary{
			Email:      email,
			Name:       p.Alias,
			TotalBeers: p.TotalBeers,
			Liters:     analytics.Liters(p.TotalMilliliters),
			DrankAlone: p.DrankAlone,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePlayer serves GET /api/players/{email}: one member's profile.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	d := snap.Data
	email := entry.NormalizeEmail(r.PathValue("email"))
	p := d.Player(email)
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, fmt.Errorf("member %q", email)))
		return
	}

	milestones := analytics.PlayerMilestones(d, analytics.DefaultMilestoneStep, analytics.DefaultMilestoneMax)[email]
	if milestones == nil {
		milestones = []types.Milestone{}
	}
	writeJSON(w, http.StatusOK, playerResponse{
		playerSummary: playerSummary{
			Email:      email,
			Name:       p.Alias,
			TotalBeers: p.TotalBeers,
			Liters:     analytics.Liters(p.TotalMilliliters),
			DrankAlone: p.DrankAlone,
		},
		Progression:  analytics.Progression(d, email),
		TopBeerDays:  analytics.TopPlayerBeerDays(d, email, analytics.DefaultRecordLimit, analytics.DefaultUniqueValues),
		TopLiterDays: analytics.TopPlayerLiterDays(d, email, analytics.DefaultRecordLimit, analytics.DefaultUniqueValues),
		Milestones:   milestones,
		Brands:       analytics.CategoryShares(analytics.MemberBrands(d, email), p.TotalBeers),
		Varieties:    analytics.CategoryShares(analytics.MemberVarieties(d, email), p.TotalBeers),
		Locations:    analytics.CategoryShares(analytics.MemberLocations(d, email), p.TotalBeers),
		Events:       analytics.CategoryShares(analytics.MemberEvents(d, email), p.TotalBeers),
		TimeRanges:   p.TimeRanges,
	})
}
