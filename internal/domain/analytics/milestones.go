package analytics

import (
	"sort"

	"github.com/beerlog/beerboard/internal/domain/entry"
	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// Milestone defaults.
const (
	DefaultMilestoneStep = 100
	DefaultMilestoneMax  = 600
)

// PlayerMilestones walks each member's days in order and records the day the
// running total first reaches a new multiple of step, up to limit. When one day
// jumps over several multiples only the highest is recorded. Members without
// milestones are absent from the result.
func PlayerMilestones(d *model.DashboardData, step, limit int) map[string][]types.Milestone {
	out := map[string][]types.Milestone{}
	if d == nil || step <= 0 {
		return out
	}
	for _, email := range d.Players {
		p := d.PlayersStats[email]
		if p == nil {
			continue
		}
		if ms := milestones(email, p, step, limit); len(ms) > 0 {
			out[email] = ms
		}
	}
	return out
}

func milestones(email string, p *model.PlayerStats, step, limit int) []types.Milestone {
	var (
		out        []types.Milestone
		cumulative int
		last       int
	)
	for _, date := range sortedKeys(p.BeerPerDay) {
		cumulative += p.BeerPerDay[date]
		reached := cumulative / step * step
		if reached > last && reached > 0 && reached <= limit {
			out = append(out, types.Milestone{
				Date:        date,
				DisplayDate: entry.FormatDisplayDate(date),
				Email:       email,
				Member:      p.Alias,
				Beers:       cumulative,
				Milestone:   reached,
			})
			last = reached
		}
	}
	return out
}

// ISO dates sort chronologically as strings.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
