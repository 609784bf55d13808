package analytics

import (
	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
)

// Weekdays labels the matrix rows, Monday first.
var Weekdays = []string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"} //nolint:gochecknoglobals // fixed axis

// TimeRangeTotals counts entries per time range. Entries without a range are
// skipped.
func TimeRangeTotals(d *model.DashboardData) map[string]int {
	out := map[string]int{}
	if d == nil {
		return out
	}
	for _, e := range d.Entries {
		if e.TimeRange != "" {
			out[e.TimeRange]++
		}
	}
	return out
}

// DayOfWeekTimeRangeMatrix counts entries by weekday (rows, Monday first) and
// time range (columns, in model.TimeRanges order). Entries missing either
// coordinate are skipped.
func DayOfWeekTimeRangeMatrix(d *model.DashboardData) [][]int {
	m := make([][]int, len(Weekdays))
	for i := range m {
		m[i] = make([]int, len(model.TimeRanges))
	}
	if d == nil {
		return m
	}
	for _, e := range d.Entries {
		ti := model.TimeRangeIndex(e.TimeRange)
		if ti < 0 {
			continue
		}
		day, ok := entry.ParseISODate(e.Date)
		if !ok {
			continue
		}
		m[mondayFirst(day.Weekday())][ti]++
	}
	return m
}
