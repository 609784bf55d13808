// Package aggregate builds the DashboardData snapshot from a raw sheet in a
// single pass over its rows.
package aggregate

import (
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
)

// DefaultStartDate is the first day of the season.
const DefaultStartDate = "2025-02-01"

type builder struct {
	dir       entry.Directory
	startDate string
}

// Option configures Build.
type Option func(*builder)

// WithDirectory sets the email to alias directory used for display names.
func WithDirectory(dir entry.Directory) Option {
	return func(b *builder) { b.dir = dir }
}

// WithStartDate sets the season start reported in the aggregate.
func WithStartDate(iso string) Option {
	return func(b *builder) {
		if iso != "" {
			b.startDate = iso
		}
	}
}

// Build parses rows (header first) and aggregates them. Fewer than two rows
// is the valid "no data yet" state and yields an empty aggregate. Blank rows
// are skipped; every other row becomes an entry.
func Build(rows [][]string, opts ...Option) *model.DashboardData {
	b := builder{startDate: DefaultStartDate}
	for _, opt := range opts {
		opt(&b)
	}

	d := model.NewDashboardData(b.startDate)
	if len(rows) < 2 {
		return d
	}
	d.Entries = make([]model.Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e, ok := entry.ParseRow(row, b.dir)
		if !ok {
			continue
		}
		Add(d, e)
	}
	return d
}

// Add folds one entry into d, updating the global and per-member indexes
// together so they stay consistent.
func Add(d *model.DashboardData, e model.Entry) {
	d.Entries = append(d.Entries, e)
	d.TotalBeers++
	d.TotalMilliliters += e.Amount
	bump(d.GlobalBrands, e.Brand, 1)
	bump(d.GlobalVarieties, e.Variety, 1)
	bump(d.GlobalLocations, e.Location, 1)
	bump(d.GlobalEvents, e.Event, 1)
	bump(d.GlobalTimeRanges, e.TimeRange, 1)
	if e.Alone {
		d.GlobalAlone++
	}
	bump(d.GlobalBeerPerDay, e.Date, 1)
	bump(d.GlobalMilliLitersPerDay, e.Date, e.Amount)

	p, ok := d.PlayersStats[e.Email]
	if !ok {
		p = model.NewPlayerStats(e.Name)
		d.PlayersStats[e.Email] = p
		d.Players = append(d.Players, e.Email)
	}
	p.Entries = append(p.Entries, e)
	p.TotalBeers++
	p.TotalMilliliters += e.Amount
	bump(p.Brands, e.Brand, 1)
	bump(p.Varieties, e.Variety, 1)
	bump(p.Locations, e.Location, 1)
	bump(p.Events, e.Event, 1)
	bump(p.TimeRanges, e.TimeRange, 1)
	if e.Alone {
		p.DrankAlone++
	}
	bump(p.BeerPerDay, e.Date, 1)
	bump(p.MilliLitersPerDay, e.Date, e.Amount)
}

// Empty keys mean "unknown" and are left out of keyed indexes.
func bump(m map[string]int, key string, n int) {
	if key == "" {
		return
	}
	m[key] += n
}
