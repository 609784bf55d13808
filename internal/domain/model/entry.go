// Package model contains domain models passed between layers.
package model

// Canonical time-range buckets, in day order.
const (
	TimeRange0to3   = "0-3"
	TimeRange4to7   = "4-7"
	TimeRange8to11  = "8-11"
	TimeRange12to15 = "12-15"
	TimeRange16to19 = "16-19"
	TimeRange20to23 = "20-23"
)

// TimeRanges lists the buckets in canonical order.
var TimeRanges = []string{ //nolint:gochecknoglobals // fixed axis
	TimeRange0to3, TimeRange4to7, TimeRange8to11, TimeRange12to15, TimeRange16to19, TimeRange20to23,
}

// TimeRangeIndex returns the position of tr in TimeRanges, or -1.
func TimeRangeIndex(tr string) int {
	for i, r := range TimeRanges {
		if r == tr {
			return i
		}
	}
	return -1
}

// Entry is one logged drink. Values are never mutated after parsing.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Brand     string `json:"brand"`
	Variety   string `json:"variety"`
	Date      string `json:"date"` // YYYY-MM-DD, or "" when the source date was malformed
	Location  string `json:"location"`
	Event     string `json:"event"`
	Alone     bool   `json:"alone"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Amount    int    `json:"amount"` // milliliters
	Food      string `json:"food"`
	TimeRange string `json:"timeRange"` // one of TimeRanges, or ""
	Extra     string `json:"extra"`
}
