package repository

import "errors"

// Sentinel errors for snapshot access.
var (
	ErrNoSnapshot      = errors.New("no snapshot published")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
