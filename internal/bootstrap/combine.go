package bootstrap

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CombinePValues merges independent p-values with Pearson's variant of the
// chi-square combination: the statistic 2*sum(log(1-p_i)) is referred to the
// chi-square distribution with 2k degrees of freedom via its lower tail.
// Unlike a plain mean this accumulates evidence across iterations, which
// corrects for the repeated-sampling procedure itself.
//
// For a single p-value the combination is the identity. An empty input
// returns NaN.
func CombinePValues(ps []float64) float64 {
	if len(ps) == 0 {
		return math.NaN()
	}

	statistic := 0.0
	for _, p := range ps {
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		statistic += math.Log1p(-p)
	}
	statistic *= 2

	// statistic is <= 0; -statistic is the chi-square variate. A p of
	// exactly 1 pushes it to +Inf, which the CDF maps back to 1.
	chi := distuv.ChiSquared{K: float64(2 * len(ps))}
	return chi.CDF(-statistic)
}
