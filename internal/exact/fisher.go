package exact

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"statdesign/domain/design"
)

// hypergeomProbs returns P(X=x) for x in [xMin, xMax] under the
// hypergeometric distribution of the pooled 2x2 table, computed in
// log space to survive large binomial coefficients.
func hypergeomProbs(n1, n2, successes, xMin, xMax int) []float64 {
	logDenom := combin.LogGeneralizedBinomial(float64(n1+n2), float64(successes))
	probs := make([]float64, xMax-xMin+1)
	for x := xMin; x <= xMax; x++ {
		y := successes - x
		logNum := combin.LogGeneralizedBinomial(float64(n1), float64(x)) +
			combin.LogGeneralizedBinomial(float64(n2), float64(y))
		probs[x-xMin] = math.Exp(logNum - logDenom)
	}
	return probs
}

// fisherPValue computes the Fisher exact p-value for the observed
// table (x1 of n1, x2 of n2). The two-sided p-value sums all tables
// at most as probable as the observed one.
func fisherPValue(x1, n1, x2, n2 int, tail design.Tail) float64 {
	successes := x1 + x2
	xMin := max(0, successes-n2)
	xMax := min(n1, successes)
	probs := hypergeomProbs(n1, n2, successes, xMin, xMax)
	idx := x1 - xMin
	switch tail {
	case design.TwoSided:
		threshold := probs[idx] + 1e-12
		p := 0.0
		for _, prob := range probs {
			if prob <= threshold {
				p += prob
			}
		}
		return p
	case design.Greater:
		p := 0.0
		for i := idx; i < len(probs); i++ {
			p += probs[i]
		}
		return p
	default:
		p := 0.0
		for i := 0; i <= idx; i++ {
			p += probs[i]
		}
		return p
	}
}

// PowerTwoProp computes exact power of Fisher's exact test by
// enumerating the joint binomial outcome space of both arms and
// accumulating the probability of rejecting at level alpha. Cost is
// O(n1*n2) p-value evaluations; the ceiling keeps it bounded.
func PowerTwoProp(p1, p2 float64, n1, n2 int, alpha float64, tail design.Tail, maxN int) (float64, error) {
	if n1 > maxN || n2 > maxN {
		return 0, ErrUnsupported
	}
	pmf1 := binomPMF(n1, p1)
	pmf2 := binomPMF(n2, p2)
	power := 0.0
	for x1, prob1 := range pmf1 {
		if prob1 == 0 {
			continue
		}
		for x2, prob2 := range pmf2 {
			if prob2 == 0 {
				continue
			}
			if fisherPValue(x1, n1, x2, n2, tail) <= alpha {
				power += prob1 * prob2
			}
		}
	}
	return power, nil
}
