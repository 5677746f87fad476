package planner

import (
	"slices"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// RankByFeasibility orders itineraries feasible-first, then by ascending
// total duration, keeping generation order among equals, and returns at
// most limit of them (limit <= 0 keeps all).  The input is not modified.
func RankByFeasibility(its []model.Itinerary, limit int) []model.Itinerary {
	out := slices.Clone(its)
	slices.SortStableFunc(out, func(a, b model.Itinerary) int {
		if a.Feasible != b.Feasible {
			if a.Feasible {
				return -1
			}
			return 1
		}
		return a.TotalMinutes - b.TotalMinutes
	})
	return truncate(out, limit)
}

// RankByScore orders itineraries by descending score, keeping generation
// order among equal scores, and returns at most limit of them.
func RankByScore(its []model.Itinerary, limit int) []model.Itinerary {
	out := slices.Clone(its)
	slices.SortStableFunc(out, func(a, b model.Itinerary) int {
		return b.ScoreValue() - a.ScoreValue()
	})
	return truncate(out, limit)
}

func truncate(its []model.Itinerary, limit int) []model.Itinerary {
	if limit > 0 && len(its) > limit {
		return its[:limit]
	}
	return its
}
