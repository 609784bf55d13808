package analytics

import (
	"math"
	"sort"

	"github.com/beerlog/beerboard/internal/domain/model"
	"github.com/beerlog/beerboard/internal/domain/types"
)

// Defaults for the member insight lists.
const (
	DefaultAloneLimit     = 5
	DefaultMinUniqueBrand = 3
	DefaultTopBrands      = 3
)

// PlayerStats returns the stats for email. Unknown members get an empty value
// with allocated maps.
func PlayerStats(d *model.DashboardData, email string) model.PlayerStats {
	if p := d.Player(email); p != nil {
		return *p
	}
	return *model.NewPlayerStats("")
}

// PlayerEmails lists member emails in first-seen order.
func PlayerEmails(d *model.DashboardData) []string {
	if d == nil {
		return []string{}
	}
	return append([]string{}, d.Players...)
}

// memberCount tallies one field over a member's entries, skipping empty
// values.
func memberCount(d *model.DashboardData, email string, field func(model.Entry) string) map[string]int {
	out := map[string]int{}
	p := d.Player(email)
	if p == nil {
		return out
	}
	for _, e := range p.Entries {
		if v := field(e); v != "" {
			out[v]++
		}
	}
	return out
}

// MemberLocations counts a member's entries per location.
func MemberLocations(d *model.DashboardData, email string) map[string]int {
	return memberCount(d, email, func(e model.Entry) string { return e.Location })
}

// MemberEvents counts a member's entries per event.
func MemberEvents(d *model.DashboardData, email string) map[string]int {
	return memberCount(d, email, func(e model.Entry) string { return e.Event })
}

// MemberBrands returns a member's brand histogram.
func MemberBrands(d *model.DashboardData, email string) map[string]int {
	return copyCounts(PlayerStats(d, email).Brands)
}

// MemberVarieties returns a member's variety histogram.
func MemberVarieties(d *model.DashboardData, email string) map[string]int {
	return copyCounts(PlayerStats(d, email).Varieties)
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AloneLeaderboard ranks members by solo entries, most first, keeping only
// members with at least one.
func AloneLeaderboard(d *model.DashboardData, limit int) []types.AloneItem {
	out := []types.AloneItem{}
	if d == nil {
		return out
	}
	for _, email := range d.Players {
		p := d.PlayersStats[email]
		if p == nil || p.DrankAlone == 0 {
			continue
		}
		item := types.AloneItem{Email: email, Name: p.Alias, AloneCount: p.DrankAlone, Total: p.TotalBeers}
		if p.TotalBeers > 0 {
			item.Percentage = int(math.Round(float64(p.DrankAlone) / float64(p.TotalBeers) * 100))
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AloneCount > out[j].AloneCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryShares turns a histogram into a list sorted by count desc, then
// label asc, with each bucket's share of total.
func CategoryShares(hist map[string]int, total int) []types.CategoryShare {
	out := make([]types.CategoryShare, 0, len(hist))
	for label, n := range hist {
		share := types.CategoryShare{Label: label, Count: n}
		if total > 0 {
			share.Percentage = round(float64(n)/float64(total)*100, 1)
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MemberTopBrands lists, for every member who tried at least minUnique
// brands, their top brands.
func MemberTopBrands(d *model.DashboardData, minUnique, top int) []types.MemberBrands {
	out := []types.MemberBrands{}
	if d == nil {
		return out
	}
	for _, email := range d.Players {
		p := d.PlayersStats[email]
		if p == nil || len(p.Brands) < minUnique {
			continue
		}
		shares := CategoryShares(p.Brands, p.TotalBeers)
		if top > 0 && len(shares) > top {
			shares = shares[:top]
		}
		out = append(out, types.MemberBrands{Email: email, Name: p.Alias, UniqueBrands: len(p.Brands), Top: shares})
	}
	return out
}
