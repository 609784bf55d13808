package seedcheck

import (
	"fmt"

	"github.com/beerlog/beerboard/internal/adapters/sheets"
	"github.com/beerlog/beerboard/internal/domain/aggregate"
	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/types"
	"github.com/beerlog/beerboard/internal/testrows"
)

// generateSheet builds the sheet for cfg.
func generateSheet(cfg *Config) [][]string {
	gen := testrows.DefaultConfig()
	gen.Rows = cfg.Rows
	gen.Members = cfg.Members
	gen.Seed = cfg.Seed
	gen.Days = cfg.Days
	if !cfg.Start.IsZero() {
		gen.Start = cfg.Start
	}
	return testrows.Generate(gen)
}

// writeSheet writes rows to the configured output file.
func writeSheet(cfg *Config, rows [][]string) error {
	if err := sheets.WriteCSV(cfg.Output, rows); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	return nil
}

// expectedLeaderboard ranks the generated rows the way the server does.
func expectedLeaderboard(rows [][]string, stats *Stats) []types.LeaderboardItem {
	d := aggregate.Build(rows)
	stats.Entries = len(d.Entries)
	stats.Members = len(d.Players)
	return analytics.Leaderboard(d, 0)
}
