package api

import (
	"errors"
	"net/http"

	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/pkg/logger"
)

type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	ID          string `json:"id"`
}

// handleRevalidate serves POST /api/revalidate. The refresh runs
// asynchronously; 202 only means it was queued.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_revalidate"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	id, err := s.deps.Revalidate(r.Context())
	if err != nil {
		if errors.Is(err, model.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
			return
		}
		s.logger.Error(r.Context(), "revalidate failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, revalidateResponse{Revalidated: true, ID: id})
}
