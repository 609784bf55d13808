package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/types"
	"github.com/beerlog/beerboard/internal/domain/versus"
)

type versusResponse struct {
	Kind    string                 `json:"kind"`
	Player1 string                 `json:"player1"`
	Player2 string                 `json:"player2"`
	Rows    []types.ComparisonRow  `json:"rows"`
	Totals  types.ComparisonTotals `json:"totals"`
}

// handleVersus serves GET /api/versus?p1=&p2=&kind=.
func (s *Server) handleVersus(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_versus"
	snap := s.snapshot(w, r, op)
	if snap == nil {
		return
	}
	q := r.URL.Query()
	p1, p2 := entry.NormalizeEmail(q.Get("p1")), entry.NormalizeEmail(q.Get("p2"))
	if p1 == "" || p2 == "" {
		s.badRequest(w, op, errors.New("p1 and p2 are required"))
		return
	}
	kind := strings.TrimSpace(q.Get("kind"))
	if kind == "" {
		kind = versus.KindBeers
	}
	rows, ok := versus.Compare(snap.Data, kind, p1, p2)
	if !ok {
		s.badRequest(w, op, fmt.Errorf("unknown kind %q, want one of %s", kind, strings.Join(versus.Kinds, ", ")))
		return
	}
	writeJSON(w, http.StatusOK, versusResponse{
		Kind:    kind,
		Player1: p1,
		Player2: p2,
		Rows:    rows,
		Totals:  versus.Totals(rows),
	})
}
