// Package alloc converts between arm sizes, totals, and weighted
// multi-group allocations with integer-rounding guarantees: sums are
// exact and every group stays at least 1.
package alloc

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"statdesign/internal/errors"
)

// ValidateRatio rejects non-positive allocation ratios.
func ValidateRatio(ratio float64) error {
	if ratio <= 0 {
		return errors.InvalidInput("ratio must be positive")
	}
	return nil
}

// GroupsFromN1 returns integer group sizes (n1, n2) for ratio = n2/n1.
func GroupsFromN1(n1 int, ratio float64) (int, int, error) {
	if n1 < 1 {
		return 0, 0, errors.InvalidInput("n1 must be at least 1")
	}
	if err := ValidateRatio(ratio); err != nil {
		return 0, 0, err
	}
	n2 := int(math.Ceil(float64(n1) * ratio))
	if n2 < 1 {
		n2 = 1
	}
	return n1, n2, nil
}

// GroupsFromTotal resolves a total sample size into integer group
// sizes under ratio, keeping both arms at least 1 and the sum exact.
func GroupsFromTotal(total int, ratio float64) (int, int, error) {
	if total < 2 {
		return 0, 0, errors.InvalidInput("total sample size must be at least 2")
	}
	if err := ValidateRatio(ratio); err != nil {
		return 0, 0, err
	}
	share := float64(total) / (1 + ratio)
	n1 := int(math.Round(share))
	if n1 < 1 {
		n1 = 1
	}
	n2 := total - n1
	if n2 < 1 {
		n2 = 1
		n1 = total - 1
	}
	return n1, n2, nil
}

// ByWeights allocates total observations proportionally to positive
// weights using the largest-remainder method, then forces every group
// to at least 1 and rebalances any drift round-robin.
func ByWeights(total int, weights []float64) ([]int, error) {
	if len(weights) == 0 {
		return nil, errors.InvalidInput("weights cannot be empty")
	}
	weightSum := 0.0
	for _, w := range weights {
		if w <= 0 {
			return nil, errors.InvalidInput("weights must be positive")
		}
		weightSum += w
	}
	if total < len(weights) {
		return nil, errors.InvalidInput("total must be >= number of groups")
	}

	raw := make([]float64, len(weights))
	ints := make([]int, len(weights))
	assigned := 0
	for i, w := range weights {
		raw[i] = float64(total) * (w / weightSum)
		ints[i] = int(math.Floor(raw[i]))
		assigned += ints[i]
	}

	// hand the remainder to the largest fractional parts, ties to the
	// lower index so equal weights allocate deterministically
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa := raw[order[a]] - math.Floor(raw[order[a]])
		fb := raw[order[b]] - math.Floor(raw[order[b]])
		return fa > fb
	})
	for _, idx := range order[:total-assigned] {
		ints[idx]++
	}

	for i, v := range ints {
		if v == 0 {
			ints[i] = 1
		}
	}
	gap := total
	for _, v := range ints {
		gap -= v
	}
	// round-robin rebalance; never shrink a group below 1 (a deficit
	// always has a donor because total >= len(weights))
	step := 1
	if gap < 0 {
		step = -1
	}
	for idx := 0; gap != 0; idx++ {
		i := idx % len(ints)
		if step < 0 && ints[i] <= 1 {
			continue
		}
		ints[i] += step
		gap -= step
	}
	return ints, nil
}

// HarmonicMean of positive group sizes, used for the effective
// per-group n in unbalanced ANOVA noncentrality.
func HarmonicMean(values []float64) (float64, error) {
	mean, err := stats.HarmonicMean(values)
	if err != nil {
		return 0, errors.InvalidInput("harmonic mean defined for positive values")
	}
	return mean, nil
}

// HarmonicMeanInts is HarmonicMean over integer group sizes.
func HarmonicMeanInts(values []int) (float64, error) {
	converted := make([]float64, len(values))
	for i, v := range values {
		converted[i] = float64(v)
	}
	return HarmonicMean(converted)
}
