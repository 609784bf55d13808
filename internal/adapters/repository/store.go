// Package repository holds the published dashboard snapshot.
package repository

import (
	"context"
	"time"

	"github.com/beerlog/beerboard/internal/domain/model"
)

// Snapshot is one published aggregate together with the rows it was built
// from. Snapshots are never modified after Replace.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	Rows      int    // rows fetched, header included
	Hash      uint64 // fingerprint of the fetched rows
	Data      *model.DashboardData
}

// Store provides access to the current snapshot.
type Store interface {
	// Replace publishes snap, discarding the previous snapshot.
	Replace(ctx context.Context, snap *Snapshot) error

	// Current returns the published snapshot.
	// Returns ErrNoSnapshot before the first Replace.
	Current(ctx context.Context) (*Snapshot, error)

	// Age returns how long ago the current snapshot was fetched.
	// Returns ErrNoSnapshot before the first Replace.
	Age(ctx context.Context) (time.Duration, error)
}
