package service

import (
	"errors"

	"github.com/beerlog/beerboard/internal/domain/model"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNoSource        = errors.New("no spreadsheet source configured")
	ErrBackpressure    = model.ErrBackpressure
	ErrDataUnavailable = model.ErrDataUnavailable
)
