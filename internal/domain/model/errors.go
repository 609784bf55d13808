package model

import "errors"

// Error kinds shared by the service and its transports.
var (
	// ErrDataUnavailable means no snapshot has been published yet.
	ErrDataUnavailable = errors.New("dashboard data unavailable")
	// ErrBackpressure means a refresh is already pending.
	ErrBackpressure = errors.New("refresh already pending")
)
