// Package analytics answers read-only queries over a DashboardData snapshot.
//
// Every function accepts a nil aggregate and returns a zero or empty result
// for it. Nothing here mutates its input.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// DefaultSeasonDays is the season length used as the averaging denominator.
const DefaultSeasonDays = 334

const mlPerLiter = 1000

// Liters converts milliliters to liters.
func Liters(ml int) float64 {
	return float64(ml) / mlPerLiter
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// DaysSinceStart counts whole UTC days from the season start to now. An
// invalid start yields 0.
func DaysSinceStart(start string, now time.Time) int {
	s, ok := entry.ParseISODate(start)
	if !ok {
		return 0
	}
	return entry.DaysBetween(s, now.UTC())
}

// TotalStats summarizes d. Averages divide by the fixed season length, not by
// the days elapsed, so they do not drift between refreshes.
func TotalStats(d *model.DashboardData, seasonDays int, now time.Time) types.TotalStats {
	if d == nil {
		return types.TotalStats{}
	}
	liters := Liters(d.TotalMilliliters)
	out := types.TotalStats{
		TotalBeers:     d.TotalBeers,
		TotalLiters:    liters,
		TotalDays:      seasonDays,
		DaysSinceStart: DaysSinceStart(d.StartDate, now),
	}
	if seasonDays > 0 {
		out.AvgBeersPerDay = float64(d.TotalBeers) / float64(seasonDays)
		out.AvgLitersPerDay = liters / float64(seasonDays)
	}
	return out
}

// Leaderboard ranks members by beers, highest first. Members with equal
// counts keep their first-seen order.
func Leaderboard(d *model.DashboardData, seasonDays int) []types.LeaderboardItem {
	if d == nil {
		return []types.LeaderboardItem{}
	}
	items := make([]types.LeaderboardItem, 0, len(d.Players))
	for _, email := range d.Players {
		p := d.PlayersStats[email]
		if p == nil {
			continue
		}
		item := types.LeaderboardItem{
			Email:  email,
			Name:   p.Alias,
			Beers:  p.TotalBeers,
			Liters: round(Liters(p.TotalMilliliters), 1),
		}
		if seasonDays > 0 {
			item.AvgPerDay = round(float64(p.TotalBeers)/float64(seasonDays), 2)
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Beers > items[j].Beers })
	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}
