package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the stored date form.
const ISOLayout = "2006-01-02"

// ParseDate converts a D/M/YYYY cell to YYYY-MM-DD. Day and month may have
// one or two digits. Anything else, including impossible dates such as
// 31/2/2025, yields "".
func ParseDate(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return ""
	}
	day, ok := digits(parts[0], 1, 2)
	if !ok {
		return ""
	}
	month, ok := digits(parts[1], 1, 2)
	if !ok {
		return ""
	}
	year, ok := digits(parts[2], 4, 4)
	if !ok {
		return ""
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func digits(s string, minLen, maxLen int) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < minLen || len(s) > maxLen {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// ParseISODate parses a stored date at UTC midnight.
func ParseISODate(iso string) (time.Time, bool) {
	t, err := time.ParseInLocation(ISOLayout, iso, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDisplayDate renders YYYY-MM-DD as DD/MM/YYYY. Invalid input is
// returned unchanged.
func FormatDisplayDate(iso string) string {
	t, ok := ParseISODate(iso)
	if !ok {
		return iso
	}
	return t.Format("02/01/2006")
}

// NextDay returns the calendar day after iso, or "" when iso is invalid.
func NextDay(iso string) string {
	t, ok := ParseISODate(iso)
	if !ok {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(ISOLayout)
}

// DaysBetween counts whole UTC days from start to end.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}
