// Package versus builds side-by-side comparison tables for two members.
package versus

import (
	"sort"

	"github.com/beerlog/beerboard/internal/domain/analytics"
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// Comparison kinds accepted by Compare.
const (
	KindBeers    = "beers"
	KindLiters   = "liters"
	KindBrand    = "brand"
	KindVariety  = "variety"
	KindLocation = "location"
	KindEvent    = "event"
)

// Kinds lists every comparison kind.
var Kinds = []string{KindBeers, KindLiters, KindBrand, KindVariety, KindLocation, KindEvent} //nolint:gochecknoglobals // fixed list

// Compare dispatches on kind. The second result is false for unknown kinds.
func Compare(d *model.DashboardData, kind, p1, p2 string) ([]types.ComparisonRow, bool) {
	switch kind {
	case KindBeers:
		return BeersPerMonth(d, p1, p2), true
	case KindLiters:
		return LitersPerMonth(d, p1, p2), true
	case KindBrand:
		return ByBrand(d, p1, p2), true
	case KindVariety:
		return ByVariety(d, p1, p2), true
	case KindLocation:
		return ByLocation(d, p1, p2), true
	case KindEvent:
		return ByEvent(d, p1, p2), true
	default:
		return nil, false
	}
}

// side returns which columns an entry counts toward. Comparing a member with
// themselves fills both columns.
func side(e model.Entry, p1, p2 string) (left, right bool) {
	return e.Email == p1, e.Email == p2
}

func perMonth(d *model.DashboardData, p1, p2 string, value func(model.Entry) float64) []types.ComparisonRow {
	out := []types.ComparisonRow{}
	if d == nil {
		return out
	}
	p1, p2 = entry.NormalizeEmail(p1), entry.NormalizeEmail(p2)
	left, right := map[string]float64{}, map[string]float64{}
	active := map[string]int{}
	for _, e := range d.Entries {
		mk := analytics.MonthKey(e.Date)
		if mk == "" {
			continue
		}
		l, r := side(e, p1, p2)
		if l {
			left[mk] += value(e)
		}
		if r {
			right[mk] += value(e)
		}
		if l || r {
			active[mk]++
		}
	}
	months := make([]string, 0, len(active))
	for mk := range active {
		months = append(months, mk)
	}
	sort.Slice(months, func(i, j int) bool { return analytics.CompareMonthKeys(months[i], months[j]) < 0 })
	for _, mk := range months {
		out = append(out, types.ComparisonRow{
			Key:          mk,
			Label:        analytics.MonthLabel(mk),
			Player1Value: left[mk],
			Player2Value: right[mk],
		})
	}
	return out
}

// BeersPerMonth compares beer counts per month over the months either member
// was active, oldest first.
func BeersPerMonth(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	return perMonth(d, p1, p2, func(model.Entry) float64 { return 1 })
}

// LitersPerMonth compares volume per month.
func LitersPerMonth(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	rows := perMonth(d, p1, p2, func(e model.Entry) float64 { return float64(e.Amount) })
	for i := range rows {
		rows[i].Player1Value = analytics.Liters(int(rows[i].Player1Value))
		rows[i].Player2Value = analytics.Liters(int(rows[i].Player2Value))
	}
	return rows
}

// byCategory counts entries per normalized category for both members and
// sorts by the pair's combined count, then label.
func byCategory(d *model.DashboardData, p1, p2 string, field func(model.Entry) string) []types.ComparisonRow {
	out := []types.ComparisonRow{}
	if d == nil {
		return out
	}
	p1, p2 = entry.NormalizeEmail(p1), entry.NormalizeEmail(p2)
	index := map[string]int{}
	for _, e := range d.Entries {
		key := entry.NormalizeKey(field(e))
		if key == "" {
			continue
		}
		l, r := side(e, p1, p2)
		if !l && !r {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, types.ComparisonRow{Key: key, Label: entry.NormalizeCategory(key)})
		}
		if l {
			out[i].Player1Value++
		}
		if r {
			out[i].Player2Value++
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti := out[i].Player1Value + out[i].Player2Value
		tj := out[j].Player1Value + out[j].Player2Value
		if ti != tj {
			return ti > tj
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ByBrand compares brand counts.
func ByBrand(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	return byCategory(d, p1, p2, func(e model.Entry) string { return e.Brand })
}

// ByVariety compares variety counts.
func ByVariety(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	return byCategory(d, p1, p2, func(e model.Entry) string { return e.Variety })
}

// ByLocation compares location counts.
func ByLocation(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	return byCategory(d, p1, p2, func(e model.Entry) string { return e.Location })
}

// ByEvent compares event counts.
func ByEvent(d *model.DashboardData, p1, p2 string) []types.ComparisonRow {
	return byCategory(d, p1, p2, func(e model.Entry) string { return e.Event })
}

// Totals sums both columns of a table.
func Totals(rows []types.ComparisonRow) types.ComparisonTotals {
	var t types.ComparisonTotals
	for _, r := range rows {
		t.Player1 += r.Player1Value
		t.Player2 += r.Player2Value
	}
	t.Difference = t.Player1 - t.Player2
	return t
}
