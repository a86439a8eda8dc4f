package policy

import "math"

// Coefficients for Acklam's rational approximation of the inverse standard
// normal CDF. Relative error is below 1.15e-9 over the full domain.
var (
	normInvA = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	normInvB = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	normInvC = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	normInvD = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)

// normInv returns the p-quantile of the standard normal distribution.
// Out-of-range p maps to +-Inf.
func normInv(p float64) float64 {
	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((normInvC[0]*q+normInvC[1])*q+normInvC[2])*q+normInvC[3])*q+normInvC[4])*q + normInvC[5]) /
			((((normInvD[0]*q+normInvD[1])*q+normInvD[2])*q+normInvD[3])*q + 1)
	case p > pHigh:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((normInvC[0]*q+normInvC[1])*q+normInvC[2])*q+normInvC[3])*q+normInvC[4])*q + normInvC[5]) /
			((((normInvD[0]*q+normInvD[1])*q+normInvD[2])*q+normInvD[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((normInvA[0]*r+normInvA[1])*r+normInvA[2])*r+normInvA[3])*r+normInvA[4])*r + normInvA[5]) * q /
			(((((normInvB[0]*r+normInvB[1])*r+normInvB[2])*r+normInvB[3])*r+normInvB[4])*r + 1)
	}
}
