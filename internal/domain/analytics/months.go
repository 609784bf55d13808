package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

var monthLabels = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"} //nolint:gochecknoglobals // fixed labels

// MonthKey returns the YYYY-MM bucket of an ISO date, or "".
func MonthKey(iso string) string {
	if len(iso) < 7 {
		return ""
	}
	return iso[:7]
}

func parseMonthKey(key string) (year, month int, ok bool) {
	y, m, found := strings.Cut(key, "-")
	if !found || len(y) != 4 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// CompareMonthKeys orders month keys by calendar position. Malformed keys sort
// first, in lexical order among themselves.
func CompareMonthKeys(a, b string) int {
	ya, ma, okA := parseMonthKey(a)
	yb, mb, okB := parseMonthKey(b)
	switch {
	case !okA && !okB:
		return strings.Compare(a, b)
	case !okA:
		return -1
	case !okB:
		return 1
	}
	if ya != yb {
		return ya - yb
	}
	return ma - mb
}

// MonthLabel renders "2025-03" as "Mar 2025". Malformed keys are returned as-is.
func MonthLabel(key string) string {
	year, month, ok := parseMonthKey(key)
	if !ok {
		return key
	}
	return monthLabels[month-1] + " " + strconv.Itoa(year)
}

// MonthMeta describes a calendar month for month views.
type MonthMeta struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	DaysInMonth  int    `json:"daysInMonth"`
	FirstWeekday int    `json:"firstWeekday"` // 0=Monday..6=Sunday
}

// MonthInfo returns calendar metadata for key.
func MonthInfo(key string) (MonthMeta, bool) {
	year, month, ok := parseMonthKey(key)
	if !ok {
		return MonthMeta{}, false
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return MonthMeta{
		Key:          key,
		Label:        MonthLabel(key),
		Year:         year,
		Month:        month,
		DaysInMonth:  first.AddDate(0, 1, -1).Day(),
		FirstWeekday: mondayFirst(first.Weekday()),
	}, true
}

func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// ChartDates lists every day with activity, oldest first.
func ChartDates(d *model.DashboardData) []string {
	if d == nil {
		return []string{}
	}
	return sortedKeys(d.GlobalBeerPerDay)
}

// MonthKeys lists every month with activity, oldest first.
func MonthKeys(d *model.DashboardData) []string {
	if d == nil {
		return []string{}
	}
	return monthsOf(d.GlobalBeerPerDay)
}

func monthsOf(perDay map[string]int) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for date := range perDay {
		mk := MonthKey(date)
		if mk == "" {
			continue
		}
		if _, ok := seen[mk]; !ok {
			seen[mk] = struct{}{}
			out = append(out, mk)
		}
	}
	sortMonths(out)
	return out
}

func sortMonths(keys []string) {
	sort.Slice(keys, func(i, j int) bool { return CompareMonthKeys(keys[i], keys[j]) < 0 })
}

// MonthDailyCounts returns the global beer count of every active day in the
// month.
func MonthDailyCounts(d *model.DashboardData, monthKey string) map[string]int {
	out := map[string]int{}
	if d == nil || monthKey == "" {
		return out
	}
	for date, n := range d.GlobalBeerPerDay {
		if MonthKey(date) == monthKey {
			out[date] = n
		}
	}
	return out
}

// monthsBetween lists month keys from first through last inclusive.
func monthsBetween(first, last string) []string {
	fy, fm, ok := parseMonthKey(first)
	if !ok {
		return nil
	}
	ly, lm, ok := parseMonthKey(last)
	if !ok {
		return nil
	}
	var out []string
	for y, m := fy, fm; y < ly || (y == ly && m <= lm); {
		out = append(out, time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out
}

// MonthlyConsumption buckets beers and liters per month for one member, or for
// everyone when member is "" or "all". Buckets run from the earliest active
// month through the month of through, zero-filled. With cumulative set each
// bucket carries the running total.
func MonthlyConsumption(d *model.DashboardData, member string, through time.Time, cumulative bool) []types.MonthPoint {
	out := []types.MonthPoint{}
	if d == nil {
		return out
	}
	beers, ml := d.GlobalBeerPerDay, d.GlobalMilliLitersPerDay
	if !allMembers(member) {
		p := d.Player(member)
		if p == nil {
			return out
		}
		beers, ml = p.BeerPerDay, p.MilliLitersPerDay
	}
	active := monthsOf(beers)
	if len(active) == 0 {
		return out
	}
	last := through.UTC().Format("2006-01")
	if CompareMonthKeys(active[len(active)-1], last) > 0 {
		last = active[len(active)-1]
	}

	beerByMonth := map[string]int{}
	mlByMonth := map[string]int{}
	for date, n := range beers {
		beerByMonth[MonthKey(date)] += n
	}
	for date, n := range ml {
		mlByMonth[MonthKey(date)] += n
	}

	var runBeers, runML int
	for _, mk := range monthsBetween(active[0], last) {
		b, m := beerByMonth[mk], mlByMonth[mk]
		if cumulative {
			runBeers += b
			runML += m
			b, m = runBeers, runML
		}
		out = append(out, types.MonthPoint{Month: mk, Label: MonthLabel(mk), Beers: b, Liters: round(Liters(m), 2)})
	}
	return out
}

// PlayerMonthGrid tabulates beers per member per month over every active
// month. Rows follow first-seen member order.
func PlayerMonthGrid(d *model.DashboardData) types.MonthGrid {
	grid := types.MonthGrid{Months: []string{}, Labels: []string{}, Rows: []types.MonthGridRow{}}
	if d == nil {
		return grid
	}
	grid.Months = MonthKeys(d)
	pos := make(map[string]int, len(grid.Months))
	for i, mk := range grid.Months {
		pos[mk] = i
		grid.Labels = append(grid.Labels, MonthLabel(mk))
	}
	for _, email := range d.Players {
		p := d.PlayersStats[email]
		if p == nil {
			continue
		}
		row := types.MonthGridRow{
			Email:  email,
			Name:   p.Alias,
			Beers:  make([]int, len(grid.Months)),
			Liters: make([]float64, len(grid.Months)),
			Total:  p.TotalBeers,
		}
		ml := make([]int, len(grid.Months))
		for date, n := range p.BeerPerDay {
			if i, ok := pos[MonthKey(date)]; ok {
				row.Beers[i] += n
				ml[i] += p.MilliLitersPerDay[date]
			}
		}
		for i, v := range ml {
			row.Liters[i] = round(Liters(v), 2)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// Progression returns one member's per-day counts with running totals, or
// the whole group's when email is "" or "all".
func Progression(d *model.DashboardData, email string) []types.ProgressionPoint {
	out := []types.ProgressionPoint{}
	if d == nil {
		return out
	}
	beers, ml := d.GlobalBeerPerDay, d.GlobalMilliLitersPerDay
	if !allMembers(email) {
		p := d.Player(email)
		if p == nil {
			return out
		}
		beers, ml = p.BeerPerDay, p.MilliLitersPerDay
	}
	var runBeers, runML int
	for _, date := range sortedKeys(beers) {
		runBeers += beers[date]
		runML += ml[date]
		out = append(out, types.ProgressionPoint{
			Date:             date,
			Beers:            beers[date],
			Liters:           Liters(ml[date]),
			Cumulative:       runBeers,
			CumulativeLiters: Liters(runML),
		})
	}
	return out
}

// AllMembers is the member filter meaning everyone.
const AllMembers = "all"

func allMembers(member string) bool {
	return member == "" || member == AllMembers
}
