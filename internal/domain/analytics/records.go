package analytics

import (
	"sort"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// Default record selection: three rows drawn from the two best values.
const (
	DefaultRecordLimit  = 3
	DefaultUniqueValues = 2
)

// selectTop orders records by value desc then date asc, keeps those whose
// value is one of the first uniqueTopValues distinct values, and caps the
// result at limit rows. Ties therefore share a slot without growing the list.
func selectTop(records []types.DayRecord, value func(types.DayRecord) int, limit, uniqueTopValues int) []types.DayRecord {
	out := []types.DayRecord{}
	if len(records) == 0 || limit <= 0 || uniqueTopValues <= 0 {
		return out
	}
	sort.SliceStable(records, func(i, j int) bool {
		vi, vj := value(records[i]), value(records[j])
		if vi != vj {
			return vi > vj
		}
		return records[i].Date < records[j].Date
	})

	allowed := make(map[int]struct{}, uniqueTopValues)
	for _, r := range records {
		if len(allowed) == uniqueTopValues {
			break
		}
		allowed[value(r)] = struct{}{}
	}
	for _, r := range records {
		if len(out) == limit {
			break
		}
		if _, ok := allowed[value(r)]; ok {
			out = append(out, r)
		}
	}
	return out
}

func byBeers(r types.DayRecord) int { return r.Beers }

// Liter comparisons run on integer milliliters so equal volumes tie exactly.
func byMilliliters(r types.DayRecord) int { return r.Milliliters }

func dayRecords(beers, ml map[string]int, email, name string) []types.DayRecord {
	records := make([]types.DayRecord, 0, len(beers))
	for date, n := range beers {
		records = append(records, newDayRecord(date, email, name, n, ml[date]))
	}
	return records
}

func newDayRecord(date, email, name string, beers, ml int) types.DayRecord {
	return types.DayRecord{
		Date:        date,
		DisplayDate: entry.FormatDisplayDate(date),
		Email:       email,
		Name:        name,
		Beers:       beers,
		Milliliters: ml,
		Liters:      Liters(ml),
	}
}

// TopGlobalBeerDays returns the days with the most beers logged by everyone.
func TopGlobalBeerDays(d *model.DashboardData, limit, uniqueTopValues int) []types.DayRecord {
	if d == nil {
		return []types.DayRecord{}
	}
	return selectTop(dayRecords(d.GlobalBeerPerDay, d.GlobalMilliLitersPerDay, "", ""), byBeers, limit, uniqueTopValues)
}

// TopGlobalLiterDays returns the days with the most volume logged by everyone.
func TopGlobalLiterDays(d *model.DashboardData, limit, uniqueTopValues int) []types.DayRecord {
	if d == nil {
		return []types.DayRecord{}
	}
	return selectTop(dayRecords(d.GlobalBeerPerDay, d.GlobalMilliLitersPerDay, "", ""), byMilliliters, limit, uniqueTopValues)
}

// memberDays groups entries by member and day. Entries without a date are not
// attributable to a day and are left out.
func memberDays(d *model.DashboardData) []types.DayRecord {
	type key struct{ email, date string }
	index := map[key]int{}
	var records []types.DayRecord
	for _, e := range d.Entries {
		if e.Date == "" {
			continue
		}
		k := key{e.Email, e.Date}
		i, ok := index[k]
		if !ok {
			i = len(records)
			index[k] = i
			records = append(records, newDayRecord(e.Date, e.Email, e.Name, 0, 0))
		}
		records[i].Beers++
		records[i].Milliliters += e.Amount
	}
	for i := range records {
		records[i].Liters = Liters(records[i].Milliliters)
	}
	return records
}

// TopIndividualBeerRecords returns the best single-member days by beers.
func TopIndividualBeerRecords(d *model.DashboardData, limit, uniqueTopValues int) []types.DayRecord {
	if d == nil {
		return []types.DayRecord{}
	}
	return selectTop(memberDays(d), byBeers, limit, uniqueTopValues)
}

// TopIndividualLiterRecords returns the best single-member days by volume.
func TopIndividualLiterRecords(d *model.DashboardData, limit, uniqueTopValues int) []types.DayRecord {
	if d == nil {
		return []types.DayRecord{}
	}
	return selectTop(memberDays(d), byMilliliters, limit, uniqueTopValues)
}

// TopPlayerBeerDays returns one member's best days by beers.
func TopPlayerBeerDays(d *model.DashboardData, email string, limit, uniqueTopValues int) []types.DayRecord {
	p := d.Player(email)
	if p == nil {
		return []types.DayRecord{}
	}
	return selectTop(dayRecords(p.BeerPerDay, p.MilliLitersPerDay, email, p.Alias), byBeers, limit, uniqueTopValues)
}

// TopPlayerLiterDays returns one member's best days by volume.
func TopPlayerLiterDays(d *model.DashboardData, email string, limit, uniqueTopValues int) []types.DayRecord {
	p := d.Player(email)
	if p == nil {
		return []types.DayRecord{}
	}
	return selectTop(dayRecords(p.BeerPerDay, p.MilliLitersPerDay, email, p.Alias), byMilliliters, limit, uniqueTopValues)
}
