// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
)

// Member maps a submitter email to the short alias shown on the dashboard.
type Member struct {
	Email string `koanf:"email" validate:"required,email"`
	Alias string `koanf:"alias" validate:"required"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// Google Sheets source. When the API key or spreadsheet id is empty the
	// service falls back to SourceCSV, and with neither it serves no data.
	SheetsAPIKey        string `koanf:"sheets_api_key"`
	SheetsSpreadsheetID string `koanf:"sheets_spreadsheet_id"`
	SheetsRange         string `koanf:"sheets_range" validate:"required"`
	SheetsTimeoutMS     int    `koanf:"sheets_timeout_ms" validate:"min=100"`

	// SourceCSV points at a CSV export of the log, used for offline runs.
	SourceCSV string `koanf:"source_csv"`

	// FetchRPS caps outbound fetches per second; FetchBurst is the bucket size.
	FetchRPS   float64 `koanf:"fetch_rps" validate:"gt=0"`
	FetchBurst int     `koanf:"fetch_burst" validate:"min=1"`

	// Circuit breaker around the spreadsheet fetch.
	BreakerMinRequests   uint32  `koanf:"breaker_min_requests" validate:"min=1"`
	BreakerFailureRatio  float64 `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
	BreakerOpenTimeoutS  int     `koanf:"breaker_timeout_s" validate:"min=1"`
	BreakerHalfOpenProbe uint32  `koanf:"breaker_half_open_requests" validate:"min=1"`

	// RefreshIntervalS is the period of scheduled snapshot refreshes; 0 disables them.
	RefreshIntervalS int `koanf:"refresh_interval_s" validate:"min=0"`

	// RefreshQueueSize bounds pending refresh requests.
	RefreshQueueSize int `koanf:"refresh_queue_size" validate:"min=1"`

	// SeasonStart is the ISO date the log starts counting from.
	SeasonStart string `koanf:"season_start" validate:"required,datetime=2006-01-02"`

	// SeasonDays is the fixed season length used for per-day averages.
	SeasonDays int `koanf:"season_days" validate:"min=1"`

	// Members is the email to alias directory.
	Members []Member `koanf:"members" validate:"dive"`

	// Per-client HTTP rate limit.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"min=1"`

	// MaxRecordsLimit caps limit query parameters on list endpoints.
	MaxRecordsLimit int `koanf:"max_records_limit" validate:"min=1"`

	// CORSOrigins lists allowed origins; empty allows all.
	CORSOrigins []string `koanf:"cors_origins"`
}

// DefaultMembers is the directory of known submitters.
func DefaultMembers() []Member {
	return []Member{
		{Email: "jmartinezmadero@gmail.com", Alias: "Javi"},
		{Email: "mpata2000@gmail.com", Alias: "Pata"},
		{Email: "juan.tardieu@gmail.com", Alias: "Juani"},
		{Email: "joaquintardieu@gmail.com", Alias: "Joaquito"},
		{Email: "juancsaravia22@gmail.com", Alias: "Juancru"},
	}
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		SheetsRange:          "Respuestas de formulario 1!A:L",
		SheetsTimeoutMS:      10_000,
		FetchRPS:             1,
		FetchBurst:           2,
		BreakerMinRequests:   3,
		BreakerFailureRatio:  0.6,
		BreakerOpenTimeoutS:  60,
		BreakerHalfOpenProbe: 1,
		RefreshIntervalS:     300,
		RefreshQueueSize:     8,
		SeasonStart:          "2025-02-01",
		SeasonDays:           334,
		Members:              DefaultMembers(),
		RateLimitRPS:         5,
		RateLimitBurst:       30,
		MaxRecordsLimit:      100,
	}
}

// MemberMap returns the directory as an email to alias map.
func (c *Config) MemberMap() map[string]string {
	out := make(map[string]string, len(c.Members))
	for _, m := range c.Members {
		out[m.Email] = m.Alias
	}
	return out
}

// SheetsConfigured reports whether the Google Sheets source can be built.
func (c *Config) SheetsConfigured() bool {
	return c.SheetsAPIKey != "" && c.SheetsSpreadsheetID != ""
}
