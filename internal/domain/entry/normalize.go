package entry

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/beerlog/beerboard/internal/domain/model"
)

// NormalizeKey lowercases s, trims it and collapses inner whitespace. Two
// labels that differ only in case or spacing share a key.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeCategory returns the display label for a category: the key with
// each word title-cased. It is idempotent.
func NormalizeCategory(s string) string {
	key := NormalizeKey(s)
	if key == "" {
		return ""
	}
	// Casers keep state between calls, so each call gets its own.
	return cases.Title(language.Und).String(key)
}

// NormalizeTimeRange canonicalizes inputs such as "20 - 23hs" or "08-11 h"
// to one of model.TimeRanges. Unrecognized input yields "".
func NormalizeTimeRange(raw string) string {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, "hs", "")
	s = strings.ReplaceAll(s, "h", "")
	s = strings.Join(strings.Fields(s), "")

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return ""
	}
	tr := trimLeadingZeros(lo) + "-" + trimLeadingZeros(hi)
	if model.TimeRangeIndex(tr) < 0 {
		return ""
	}
	return tr
}

func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

// ParseAmount reads the leading integer of s as milliliters ("330ml" is 330).
// Missing, non-numeric or negative input yields 0.
func ParseAmount(s string) int {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			return 0
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
