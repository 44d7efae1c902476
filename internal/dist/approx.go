package dist

import (
	"math"

	"statdesign/domain/design"
)

// approxBackend is the self-contained approximation used when the
// exact noncentral backend is not enabled. The t family delegates to
// the normal power formula (accurate beyond single-digit df,
// conservative below); the F family goes through the Wilson-Hilferty
// chi-square transform and a normal tail approximation.
type approxBackend struct{}

func (approxBackend) PowerNoncentralT(delta, df, alpha float64, tail design.Tail) float64 {
	return PowerNormal(delta, alpha, tail)
}

func (approxBackend) NCTCDF(x, df, delta float64) float64 {
	return NormCDF(x - delta)
}

func (approxBackend) PowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64 {
	return approxPowerNoncentralF(lambda, dfNum, dfDen, alpha)
}

func (approxBackend) TQuantile(p, df float64) float64 {
	return NormQuantile(p)
}

// chiSquaredQuantileWH approximates the chi-square quantile with the
// Wilson-Hilferty cube-root transform.
func chiSquaredQuantileWH(prob, df float64) float64 {
	z := NormQuantile(prob)
	term := 1 - 2/(9*df) + z*math.Sqrt(2/(9*df))
	return df * term * term * term
}

func approxPowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64 {
	if lambda <= 0 {
		return 0
	}
	critNum := chiSquaredQuantileWH(1-alpha, dfNum)
	critDen := chiSquaredQuantileWH(alpha, dfDen)
	if critDen <= 0 {
		return 0
	}
	crit := (dfDen * critNum) / (dfNum * critDen)
	mean := dfNum + lambda
	variance := 2 * (dfNum + 2*lambda)
	if variance <= 0 {
		return 0
	}
	z := (mean - crit*dfNum) / math.Sqrt(variance)
	return NormSF(-z)
}
