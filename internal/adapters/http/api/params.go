package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/beerlog/beerboard/internal/adapters/repository"
)

// queryInt reads an integer parameter, returning def when absent. Values
// outside [lo, hi] are rejected.
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be between %d and %d", name, lo, hi)
	}
	return n, nil
}

// queryBool reads a boolean parameter, returning def when absent.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b, nil
}

// snapshot loads the published snapshot for a GET handler. It writes the
// response itself and returns nil when the handler should stop.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, op string) *repository.Snapshot {
	if !allowMethod(w, r, http.MethodGet) {
		return nil
	}
	snap, err := s.deps.Current(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", WrapKind(op, ErrDataUnavailable, err))
		return nil
	}
	w.Header().Set("X-Snapshot-ID", snap.ID)
	return snap
}

func (s *Server) badRequest(w http.ResponseWriter, op string, err error) {
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}
