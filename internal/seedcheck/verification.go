package seedcheck

import (
	"context"
	"fmt"

	"github.com/beerlog/beerboard/internal/domain/types"
	"github.com/beerlog/beerboard/pkg/logger"
)

// verifyLeaderboard checks that got ranks the same members with the same
// counts as want. Names are not compared since the server may carry a member
// directory the generator does not know about.
func verifyLeaderboard(want, got []types.LeaderboardItem) error {
	if len(want) != len(got) {
		return fmt.Errorf("leaderboard has %d members, expected %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Email != g.Email {
			return fmt.Errorf("rank %d is %s, expected %s", i+1, g.Email, w.Email)
		}
		if w.Beers != g.Beers {
			return fmt.Errorf("%s has %d beers, expected %d", w.Email, g.Beers, w.Beers)
		}
		if w.Liters != g.Liters {
			return fmt.Errorf("%s has %.1f liters, expected %.1f", w.Email, g.Liters, w.Liters)
		}
		if i > 0 && g.Beers > got[i-1].Beers {
			return fmt.Errorf("leaderboard not sorted at rank %d", i+1)
		}
	}
	return nil
}

func displayLeaderboard(ctx context.Context, log logger.Logger, items []types.LeaderboardItem, verbose bool) {
	n := len(items)
	if !verbose && n > 3 {
		n = 3
	}
	for _, item := range items[:n] {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", item.Rank),
			logger.String("email", item.Email),
			logger.Int("beers", item.Beers),
			logger.Float64("liters", item.Liters),
		)
	}
}
