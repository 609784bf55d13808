// Package seedcheck generates a synthetic drink-log sheet, writes it as a CSV
// export and, when a server URL is given, checks that a running beerboard
// serves the leaderboard computed locally from the same rows.
package seedcheck

import "time"

// Config holds configuration for a seed run.
type Config struct {
	BaseURL  string        // Base URL of a running server; empty skips verification
	Output   string        // CSV file the server reads (its SOURCE_CSV)
	Rows     int           // Data rows to generate
	Members  int           // Distinct member emails
	Seed     uint64        // Generator seed
	Days     int           // Date spread in days
	Start    time.Time     // First possible date
	Timeout  time.Duration // HTTP request timeout
	Wait     time.Duration // How long to wait for the server to pick up the file
	Interval time.Duration // Poll interval while waiting
	Verbose  bool          // Log every leaderboard row
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated int
	Entries       int
	Members       int
	SnapshotID    string
	Polls         int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
