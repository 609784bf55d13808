package aggregate

import (
	"errors"
	"fmt"

	"github.com/beerlog/beerboard/internal/domain/model"
)

// ErrInconsistent reports that global indexes disagree with per-member sums.
var ErrInconsistent = errors.New("aggregate inconsistent")

// Check verifies that every global total, histogram and per-day series
// equals the sum of its per-member counterparts.
func Check(d *model.DashboardData) error {
	if d == nil {
		return nil
	}
	var beers, ml, alone int
	sums := map[string]map[string]int{}
	add := func(name string, m map[string]int) {
		acc, ok := sums[name]
		if !ok {
			acc = map[string]int{}
			sums[name] = acc
		}
		for k, v := range m {
			acc[k] += v
		}
	}
	for _, p := range d.PlayersStats {
		beers += p.TotalBeers
		ml += p.TotalMilliliters
		alone += p.DrankAlone
		add("brands", p.Brands)
		add("varieties", p.Varieties)
		add("locations", p.Locations)
		add("events", p.Events)
		add("timeRanges", p.TimeRanges)
		add("beerPerDay", p.BeerPerDay)
		add("milliLitersPerDay", p.MilliLitersPerDay)
	}

	if beers != d.TotalBeers {
		return fmt.Errorf("%w: totalBeers %d != member sum %d", ErrInconsistent, d.TotalBeers, beers)
	}
	if ml != d.TotalMilliliters {
		return fmt.Errorf("%w: totalMilliliters %d != member sum %d", ErrInconsistent, d.TotalMilliliters, ml)
	}
	if alone != d.GlobalAlone {
		return fmt.Errorf("%w: globalAlone %d != member sum %d", ErrInconsistent, d.GlobalAlone, alone)
	}
	if len(d.Entries) != d.TotalBeers {
		return fmt.Errorf("%w: %d entries but totalBeers %d", ErrInconsistent, len(d.Entries), d.TotalBeers)
	}
	for name, global := range map[string]map[string]int{
		"brands":            d.GlobalBrands,
		"varieties":         d.GlobalVarieties,
		"locations":         d.GlobalLocations,
		"events":            d.GlobalEvents,
		"timeRanges":        d.GlobalTimeRanges,
		"beerPerDay":        d.GlobalBeerPerDay,
		"milliLitersPerDay": d.GlobalMilliLitersPerDay,
	} {
		if err := sameCounts(global, sums[name]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInconsistent, name, err)
		}
	}
	return nil
}

func sameCounts(global, summed map[string]int) error {
	for k, v := range global {
		if summed[k] != v {
			return fmt.Errorf("%q global %d != member sum %d", k, v, summed[k])
		}
	}
	for k, v := range summed {
		if _, ok := global[k]; !ok && v != 0 {
			return fmt.Errorf("%q missing from global index", k)
		}
	}
	return nil
}
