package algo

import (
	"sort"

	"github.com/huangsam/finscore/schema"
)

// RankedDelta is a keyed delta produced by RankGaps.
type RankedDelta[K ~string] struct {
	Key   K
	Delta schema.Delta
}

// RankGaps sorts deltas by difference ascending, so the widest shortfalls of the
// primary company come first, and returns the top 'limit' entries. Ties are broken
// by key. A limit of zero or less returns everything.
func RankGaps[K ~string](deltas map[K]schema.Delta, limit int) []RankedDelta[K] {
	out := make([]RankedDelta[K], 0, len(deltas))
	for k, d := range deltas {
		out = append(out, RankedDelta[K]{Key: k, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Delta.Difference != out[j].Delta.Difference {
			return out[i].Delta.Difference < out[j].Delta.Difference
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}
