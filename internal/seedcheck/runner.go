package seedcheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beerlog/beerboard/pkg/logger"
)

// ErrMismatch reports that the server never served the expected leaderboard.
var ErrMismatch = errors.New("server leaderboard does not match generated rows")

func (c *Config) applyDefaults() {
	if c.Rows <= 0 {
		c.Rows = DefaultRows
	}
	if c.Members <= 0 {
		c.Members = DefaultMembers
	}
	if c.Days <= 0 {
		c.Days = DefaultDays
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Wait <= 0 {
		c.Wait = DefaultWait
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
}

// Run generates the sheet, writes it and, with a BaseURL, waits until the
// server serves a matching leaderboard.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Output == "" {
		return nil, errors.New("output path is required")
	}
	cfg.applyDefaults()
	log := logger.Get().Named("seedcheck")
	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	rows := generateSheet(cfg)
	stats.RowsGenerated = len(rows) - 1
	if err := writeSheet(cfg, rows); err != nil {
		return stats, err
	}
	want := expectedLeaderboard(rows, stats)
	log.Info(ctx, "sheet written",
		logger.String("output", cfg.Output),
		logger.Int("rows", stats.RowsGenerated),
		logger.Int("entries", stats.Entries),
		logger.Int("members", stats.Members),
	)

	if cfg.BaseURL == "" {
		return stats, nil
	}

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	id, err := client.Revalidate(ctx)
	if err != nil {
		return stats, err
	}
	log.Info(ctx, "refresh requested", logger.String("id", id))

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var lastErr error
	for {
		stats.Polls++
		got, snapID, err := client.Leaderboard(waitCtx)
		if err == nil {
			stats.SnapshotID = snapID
			if lastErr = verifyLeaderboard(want, got); lastErr == nil {
				displayLeaderboard(ctx, log, got, cfg.Verbose)
				log.Info(ctx, "leaderboard verified",
					logger.String("snapshot", snapID),
					logger.Int("polls", stats.Polls),
				)
				return stats, nil
			}
		} else {
			lastErr = err
		}
		log.Debug(ctx, "leaderboard not ready", logger.Error(lastErr))

		select {
		case <-waitCtx.Done():
			return stats, fmt.Errorf("%w: %w", ErrMismatch, lastErr)
		case <-ticker.C:
		}
	}
}
