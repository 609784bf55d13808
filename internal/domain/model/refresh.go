package model

import "time"

// Refresh reasons.
const (
	RefreshStartup  = "startup"
	RefreshInterval = "interval"
	RefreshManual   = "manual"
)

// RefreshRequest asks the refresh worker to pull a new sheet snapshot.
type RefreshRequest struct {
	ID          string    // unique id, echoed back to revalidate callers
	Reason      string    // startup, interval or manual
	RequestedAt time.Time // when the request was enqueued
}
