package stats

import (
	"math"
	"sort"
)

// NearestRankPercentile returns the value at the nearest-rank position for
// fraction p of values. p is clamped to [0,1]. The input slice is not
// modified. ok is false for an empty input.
func NearestRankPercentile(values []int, p float64) (value int, ok bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}

	sorted := make([]int, n)
	copy(sorted, values)
	sort.Ints(sorted)

	p = math.Max(0, math.Min(1, p))
	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1], true
}
