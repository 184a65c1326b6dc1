package ranking

import (
	"sort"

	"github.com/okian/zrinyi/internal/domain/model"
)

// DefaultSchoolTopN is how many competitors count towards a school total.
const DefaultSchoolTopN = 4

// Schools aggregates the leaderboard per school. Only the first topN
// competitors of a school in leaderboard order contribute; later ones stay on
// the leaderboard but leave the school total unchanged. The result is sorted
// by total points desc, total prior desc, key desc, with 1-based positions
// and no tie collapsing.
func Schools(leaderboard []model.RankedRecord, topN int) []model.RankedSchool {
	if topN <= 0 {
		topN = DefaultSchoolTopN
	}

	bySchool := make(map[string]*model.SchoolAggregate)
	for _, rec := range leaderboard {
		key := rec.SchoolKey()
		agg, ok := bySchool[key]
		if !ok {
			agg = &model.SchoolAggregate{Key: key}
			bySchool[key] = agg
		}
		if agg.Contributors >= topN {
			continue
		}
		agg.TotalPoints += rec.Points
		agg.TotalPrior += rec.Prior
		agg.Contributors++
	}

	aggs := make([]model.SchoolAggregate, 0, len(bySchool))
	for _, agg := range bySchool {
		aggs = append(aggs, *agg)
	}
	// Keys are unique, so this order is total and map iteration order does
	// not leak into the result.
	sort.Slice(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TotalPrior != b.TotalPrior {
			return a.TotalPrior > b.TotalPrior
		}
		return a.Key > b.Key
	})

	out := make([]model.RankedSchool, len(aggs))
	for i, agg := range aggs {
		out[i] = model.RankedSchool{SchoolAggregate: agg, Position: i + 1}
	}
	return out
}
