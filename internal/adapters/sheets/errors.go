package sheets

import "errors"

// Sentinel errors returned by sources.
var (
	ErrNotConfigured = errors.New("spreadsheet source not configured")
	ErrFetch         = errors.New("spreadsheet fetch failed")
	ErrUnavailable   = errors.New("spreadsheet source temporarily unavailable")
)
