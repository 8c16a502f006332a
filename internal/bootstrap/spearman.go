package bootstrap

import (
	"math"
	"sort"

	"intersectomics/domain/matrix"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// spearman computes Spearman's rank correlation and its two-sided p-value
// for two aligned vectors. Ties receive average ranks; rho is the Pearson
// correlation of the rank vectors, which stays exact under ties. The p-value
// comes from the t-distribution with n-2 degrees of freedom.
//
// A constant input (zero rank variance) or fewer than three observations
// leaves the pair undefined: both returns are NaN.
func spearman(x, y []float64) (float64, float64) {
	n := len(x)
	if n != len(y) || n < 3 {
		return math.NaN(), math.NaN()
	}

	rho := stat.Correlation(averageRanks(x), averageRanks(y), nil)
	if math.IsNaN(rho) {
		return math.NaN(), math.NaN()
	}
	if rho > 1 {
		rho = 1
	} else if rho < -1 {
		rho = -1
	}

	denom := 1 - rho*rho
	if denom <= 0 {
		// Perfect monotone relation: the t statistic diverges.
		return rho, 0
	}

	tStat := rho * math.Sqrt(float64(n-2)/denom)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * tDist.Survival(math.Abs(tStat))
	if p > 1 {
		p = 1
	}
	return rho, p
}

// averageRanks converts values to 1-based ranks, assigning tied values the
// average of the ranks they span.
func averageRanks(data []float64) []float64 {
	n := len(data)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return data[order[a]] < data[order[b]]
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

// Correlate computes the full pairwise correlation and p-value matrices for
// one resampled biomolecule-by-key matrix. Self-pairs are skipped; the
// diagonal stays undefined. This is the single-iteration building block the
// aggregator repeats.
func Correlate(ids []string, vectors []ResampledVector, method Method) (*matrix.Pairwise, *matrix.Pairwise, error) {
	if err := method.Validate(); err != nil {
		return nil, nil, err
	}

	corr := matrix.NewPairwise(ids)
	pvals := matrix.NewPairwise(ids)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			rho, p := spearman(vectors[i], vectors[j])
			if math.IsNaN(rho) {
				continue
			}
			if err := corr.Set(ids[i], ids[j], rho); err != nil {
				return nil, nil, err
			}
			if err := pvals.Set(ids[i], ids[j], p); err != nil {
				return nil, nil, err
			}
		}
	}
	return corr, pvals, nil
}
