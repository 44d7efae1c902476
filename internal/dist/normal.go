// Package dist provides the distribution layer of the solver core:
// the standard normal primitive, the exact/approximate backend
// switch, and power functions for the noncentral t and F families.
package dist

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// NormCDF computes the standard normal cumulative distribution at x.
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormSF computes the standard normal survival function 1-CDF(x).
func NormSF(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// NormQuantile computes the standard normal inverse CDF at p.
func NormQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
