// Package ranking orders competitor records into the merged leaderboard and
// derives the school ranking from it.
package ranking

import (
	"sort"

	"github.com/okian/zrinyi/internal/domain/model"
)

// before reports whether a ranks ahead of b: points desc, prior desc, then
// name desc.
func before(a, b model.CompetitorRecord) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Prior != b.Prior {
		return a.Prior > b.Prior
	}
	return a.Name > b.Name
}

// Rank sorts pool in place and returns the leaderboard. Rows whose
// (Points, Prior) pair equals the previous row's are marked Tied; positions
// keep advancing through ties.
func Rank(pool []model.CompetitorRecord) []model.RankedRecord {
	sort.SliceStable(pool, func(i, j int) bool {
		return before(pool[i], pool[j])
	})

	out := make([]model.RankedRecord, len(pool))
	for i, rec := range pool {
		out[i] = model.RankedRecord{
			CompetitorRecord: rec,
			Position:         i + 1,
			Tied:             i > 0 && sameScore(pool[i-1], rec),
		}
	}
	return out
}

func sameScore(a, b model.CompetitorRecord) bool {
	return a.Points == b.Points && a.Prior == b.Prior
}
