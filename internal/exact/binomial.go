// Package exact implements the exact discrete power engine: binomial
// probability tables, critical-region search for one-sample binomial
// tests, and Fisher-exact two-sample enumeration. Enumeration cost
// grows quadratically in the arm sizes, so every entry point takes a
// feasibility ceiling and refuses to enumerate past it.
package exact

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

// DefaultMaxN is the default per-arm ceiling for exact enumeration.
const DefaultMaxN = 200

// ErrUnsupported signals that the requested exact computation exceeds
// the enumeration ceiling. Callers downgrade to the normal
// approximation with an advisory, never silently.
var ErrUnsupported = errors.New(errors.CodeExactUnsupported,
	"exact enumeration not supported at this sample size; falling back to normal approximation")

// binomPMF builds the array of P(X=k), k=0..n, by the multiplicative
// recurrence p(k+1) = p(k)*(n-k)/(k+1)*(p/q), avoiding factorials.
func binomPMF(n int, p float64) []float64 {
	q := 1 - p
	probs := make([]float64, n+1)
	prob := math.Pow(q, float64(n))
	probs[0] = prob
	for k := 0; k < n; k++ {
		if prob == 0 {
			break
		}
		prob *= float64(n-k) / float64(k+1) * (p / q)
		probs[k+1] = prob
	}
	return probs
}

// cdfFromPMF is the prefix-sum cumulative array.
func cdfFromPMF(pmf []float64) []float64 {
	cdf := make([]float64, len(pmf))
	total := 0.0
	for i, p := range pmf {
		total += p
		cdf[i] = total
	}
	return cdf
}

// sfFromPMF is the suffix-sum survival array: sf[k] = P(X >= k).
func sfFromPMF(pmf []float64) []float64 {
	sf := make([]float64, len(pmf))
	total := 0.0
	for i := len(pmf) - 1; i >= 0; i-- {
		total += pmf[i]
		sf[i] = total
	}
	return sf
}

// criticalOneSided returns the rejection bounds [low, high] under the
// null proportion. For tail=greater the region is {k >= low}; for
// tail=less it is {k <= high}. An empty region is signalled by
// low = n+1 (greater) or high = -1 (less).
func criticalOneSided(n int, pNull, alpha float64, tail design.Tail) (int, int) {
	pmf := binomPMF(n, pNull)
	if tail == design.Greater {
		sf := sfFromPMF(pmf)
		for k := 0; k <= n; k++ {
			if sf[k] <= alpha {
				return k, n
			}
		}
		return n + 1, n
	}
	cdf := cdfFromPMF(pmf)
	for k := n; k >= 0; k-- {
		if cdf[k] <= alpha {
			return 0, k
		}
	}
	return 0, -1
}

// criticalTwoSided searches alpha/2 independently in each tail and
// returns (low, high): reject when k <= low or k >= high.
func criticalTwoSided(n int, pNull, alpha float64) (int, int) {
	pmf := binomPMF(n, pNull)
	cdf := cdfFromPMF(pmf)
	sf := sfFromPMF(pmf)
	halfAlpha := alpha / 2
	low := -1
	for k := 0; k <= n; k++ {
		if cdf[k] <= halfAlpha {
			low = k
		} else {
			break
		}
	}
	high := n + 1
	for k := n; k >= 0; k-- {
		if sf[k] <= halfAlpha {
			high = k
		} else {
			break
		}
	}
	return low, high
}

// PowerOneProp computes exact power for a one-sample binomial test:
// the PMF mass under the true p over the rejection region defined
// under the null pNull.
func PowerOneProp(p, pNull float64, n int, alpha float64, tail design.Tail, maxN int) (float64, error) {
	if n > maxN {
		return 0, ErrUnsupported
	}
	pmf := binomPMF(n, p)
	if tail == design.TwoSided {
		low, high := criticalTwoSided(n, pNull, alpha)
		var left, right float64
		if low >= 0 {
			for k := 0; k <= low; k++ {
				left += pmf[k]
			}
		}
		if high <= n {
			for k := high; k <= n; k++ {
				right += pmf[k]
			}
		}
		return left + right, nil
	}
	low, high := criticalOneSided(n, pNull, alpha, tail)
	power := 0.0
	if tail == design.Greater {
		for k := low; k <= n; k++ {
			power += pmf[k]
		}
		return power, nil
	}
	for k := 0; k <= high; k++ {
		power += pmf[k]
	}
	return power, nil
}

// PowerOnePropEquivalence computes exact power for a two one-sided
// binomial equivalence test with a symmetric margin around p0: the
// acceptance interval is the intersection of the two shifted-null
// one-sided regions.
func PowerOnePropEquivalence(p, p0, margin float64, n int, alpha float64, maxN int) (float64, error) {
	if n > maxN {
		return 0, ErrUnsupported
	}
	lowBound, _ := criticalOneSided(n, p0-margin, alpha, design.Greater)
	_, highBound := criticalOneSided(n, p0+margin, alpha, design.Less)
	if lowBound > highBound {
		return 0, nil
	}
	pmf := binomPMF(n, p)
	power := 0.0
	for k := lowBound; k <= highBound && k <= n; k++ {
		power += pmf[k]
	}
	return power, nil
}
