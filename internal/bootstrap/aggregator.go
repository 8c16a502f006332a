package bootstrap

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"intersectomics/domain/core"
	"intersectomics/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// PairStat is the aggregated bootstrap outcome for one unordered biomolecule
// pair: the mean correlation over the defined iterations, the combined
// p-value, and the 2.5/97.5 percentile bootstrap confidence interval.
type PairStat struct {
	A, B        string
	Correlation float64
	PValue      float64
	CILower     float64
	CIUpper     float64
	Iterations  int
	Defined     bool
}

// Aggregator runs the fit/sample/correlate loop over pairs of biomolecules
// from one table. The per-biomolecule samplers are fitted once up front and
// shared read-only across workers; each pair gets its own seeded random
// stream, so results do not depend on which worker processes which pair.
type Aggregator struct {
	iterations int
	baseSeed   uint64
	samplers   map[string]*ReplicateSampler
}

// NewAggregator fits one sampler per biomolecule in the table.
func NewAggregator(tbl *table.MeasurementTable, iterations int, baseSeed uint64) (*Aggregator, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", iterations)
	}

	samplers := make(map[string]*ReplicateSampler, tbl.NBiomolecules())
	for _, id := range tbl.Biomolecules() {
		groups, err := tbl.ReplicateGroups(id)
		if err != nil {
			return nil, err
		}
		s, err := NewReplicateSampler(groups)
		if err != nil {
			return nil, fmt.Errorf("biomolecule %q: %w", id, err)
		}
		samplers[id] = s
	}
	return &Aggregator{
		iterations: iterations,
		baseSeed:   baseSeed,
		samplers:   samplers,
	}, nil
}

// Pair bootstraps one unordered biomolecule pair. Iterations whose
// correlation is undefined (a degenerate draw) are excluded from both the
// mean and the p-value combination; if every iteration is undefined the
// pair is returned with Defined=false and is dropped downstream.
func (a *Aggregator) Pair(x, y string) (PairStat, error) {
	sx, ok := a.samplers[x]
	if !ok {
		return PairStat{}, fmt.Errorf("biomolecule %q not in table", x)
	}
	sy, ok := a.samplers[y]
	if !ok {
		return PairStat{}, fmt.Errorf("biomolecule %q not in table", y)
	}

	pairSeed := core.PairSeed(a.baseSeed, x, y)
	rng := rand.New(rand.NewPCG(pairSeed, pairSeed))

	corrs := make([]float64, 0, a.iterations)
	pvals := make([]float64, 0, a.iterations)
	for i := 0; i < a.iterations; i++ {
		vx := sx.Sample(rng)
		vy := sy.Sample(rng)
		rho, p := spearman(vx, vy)
		if math.IsNaN(rho) || math.IsNaN(p) {
			continue
		}
		corrs = append(corrs, rho)
		pvals = append(pvals, p)
	}

	if len(corrs) == 0 {
		return PairStat{A: x, B: y, Correlation: math.NaN(), PValue: math.NaN(), CILower: math.NaN(), CIUpper: math.NaN()}, nil
	}

	mean, err := stats.Mean(corrs)
	if err != nil {
		return PairStat{}, fmt.Errorf("pair %q/%q: %w", x, y, err)
	}
	// Empirical quantiles are defined for any non-empty sample, so the
	// interval is never silently collapsed onto the mean.
	sort.Float64s(corrs)
	lo := stat.Quantile(0.025, stat.Empirical, corrs, nil)
	hi := stat.Quantile(0.975, stat.Empirical, corrs, nil)

	return PairStat{
		A:           x,
		B:           y,
		Correlation: mean,
		PValue:      CombinePValues(pvals),
		CILower:     lo,
		CIUpper:     hi,
		Iterations:  len(corrs),
		Defined:     true,
	}, nil
}
