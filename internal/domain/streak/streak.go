// Package streak finds runs of consecutive time slots in which a member logged
// at least one drink.
package streak

import (
	"sort"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
)

// AllMembers selects every member in Find.
const AllMembers = "all"

// Streak is a maximal run of adjacent slots for one member.
type Streak struct {
	Email          string        `json:"email"`
	Name           string        `json:"name"`
	Beers          int           `json:"beers"`
	Milliliters    int           `json:"milliliters"`
	Liters         float64       `json:"liters"`
	StartDate      string        `json:"startDate"`
	StartTimeRange string        `json:"startTimeRange"`
	EndDate        string        `json:"endDate"`
	EndTimeRange   string        `json:"endTimeRange"`
	Entries        []model.Entry `json:"entries"`
}

// Detail is one merged line of a streak breakdown.
type Detail struct {
	Count     int    `json:"count"`
	Brand     string `json:"brand"`
	Variety   string `json:"variety"`
	Amount    int    `json:"amount"`
	TimeRange string `json:"timeRange"`
	Date      string `json:"date"`
}

type slot struct {
	email   string
	date    string
	index   int
	entries []model.Entry
}

func (s *slot) less(o *slot) bool {
	if s.email != o.email {
		return s.email < o.email
	}
	if s.date != o.date {
		return s.date < o.date
	}
	return s.index < o.index
}

// Find groups entries into (member, day, time range) slots and merges
// adjacent slots into streaks. A slot follows another when it is the next
// range on the same day, or when 20-23 is followed by 0-3 on the next day.
// Entries without a date or range are ignored. member selects one email;
// "" or "all" selects everyone. The result is sorted by beers, most first.
func Find(entries []model.Entry, member string) []Streak {
	filter := ""
	if member != AllMembers {
		filter = entry.NormalizeEmail(member)
	}

	type key struct {
		email, date string
		index       int
	}
	index := map[key]*slot{}
	var slots []*slot
	for _, e := range entries {
		if filter != "" && e.Email != filter {
			continue
		}
		ti := model.TimeRangeIndex(e.TimeRange)
		if e.Date == "" || ti < 0 {
			continue
		}
		k := key{e.Email, e.Date, ti}
		s, ok := index[k]
		if !ok {
			s = &slot{email: e.Email, date: e.Date, index: ti}
			index[k] = s
			slots = append(slots, s)
		}
		s.entries = append(s.entries, e)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].less(slots[j]) })

	out := []Streak{}
	var cur *Streak
	last := -1
	for _, s := range slots {
		if cur != nil && cur.Email == s.email && adjacent(cur.EndDate, last, s.date, s.index) {
			cur.extend(s)
			last = s.index
			continue
		}
		if cur != nil {
			out = append(out, cur.finish())
		}
		cur = open(s)
		last = s.index
	}
	if cur != nil {
		out = append(out, cur.finish())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Beers > out[j].Beers })
	return out
}

var lastIndex = len(model.TimeRanges) - 1 //nolint:gochecknoglobals // derived constant

func adjacent(endDate string, endIndex int, date string, index int) bool {
	if date == endDate {
		return index == endIndex+1
	}
	return endIndex == lastIndex && index == 0 && date == entry.NextDay(endDate)
}

func open(s *slot) *Streak {
	st := &Streak{
		Email:          s.email,
		Name:           s.entries[0].Name,
		StartDate:      s.date,
		StartTimeRange: model.TimeRanges[s.index],
	}
	st.extend(s)
	return st
}

func (st *Streak) extend(s *slot) {
	st.Beers += len(s.entries)
	for _, e := range s.entries {
		st.Milliliters += e.Amount
	}
	st.EndDate = s.date
	st.EndTimeRange = model.TimeRanges[s.index]
	st.Entries = append(st.Entries, s.entries...)
}

func (st *Streak) finish() Streak {
	st.Liters = float64(st.Milliliters) / 1000
	return *st
}

// Details merges a streak's entries that share brand, variety, amount, range
// and day, ordered by day then range.
func Details(s Streak) []Detail {
	type key struct {
		brand, variety, tr, date string
		amount                   int
	}
	index := map[key]int{}
	out := []Detail{}
	for _, e := range s.Entries {
		k := key{e.Brand, e.Variety, e.TimeRange, e.Date, e.Amount}
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, Detail{Count: 1, Brand: e.Brand, Variety: e.Variety, Amount: e.Amount, TimeRange: e.TimeRange, Date: e.Date})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return model.TimeRangeIndex(out[i].TimeRange) < model.TimeRangeIndex(out[j].TimeRange)
	})
	return out
}
