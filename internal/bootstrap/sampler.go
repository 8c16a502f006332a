package bootstrap

import (
	"fmt"
	"math"
	"math/rand/v2"

	"intersectomics/domain/core"
	"intersectomics/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ResampledVector holds one synthetic value per replicate-group key for a
// single biomolecule, in the table's key order. It lives for exactly one
// bootstrap iteration.
type ResampledVector []float64

type fittedGroup struct {
	key   string
	mean  float64
	sigma float64
	fixed bool
}

// ReplicateSampler fits one normal distribution per replicate-group key of a
// single biomolecule and draws one synthetic value per key. The fit uses the
// sample mean and the sample (n-1) standard deviation. A group whose
// standard deviation is zero or undefined (a single observation, or all
// observations identical) degenerates to a fixed point at the mean instead
// of erroring.
type ReplicateSampler struct {
	groups []fittedGroup
}

// NewReplicateSampler fits the per-key distributions for the given ordered
// replicate groups.
func NewReplicateSampler(groups []table.ReplicateGroup) (*ReplicateSampler, error) {
	fitted := make([]fittedGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Values) == 0 {
			return nil, core.NewEmptyReplicateGroupError(g.Key)
		}

		mean, err := stats.Mean(g.Values)
		if err != nil {
			return nil, fmt.Errorf("fit group %q: %w", g.Key, err)
		}

		fg := fittedGroup{key: g.Key, mean: mean}
		if len(g.Values) < 2 {
			fg.fixed = true
		} else {
			sd, err := stats.StandardDeviationSample(g.Values)
			if err != nil {
				return nil, fmt.Errorf("fit group %q: %w", g.Key, err)
			}
			if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
				fg.fixed = true
			} else {
				fg.sigma = sd
			}
		}
		fitted = append(fitted, fg)
	}
	return &ReplicateSampler{groups: fitted}, nil
}

// Keys returns the replicate-group keys in sampling order.
func (s *ReplicateSampler) Keys() []string {
	keys := make([]string, len(s.groups))
	for i, g := range s.groups {
		keys[i] = g.key
	}
	return keys
}

// Sample draws one value per replicate-group key from the fitted
// distributions. Fixed-point groups always return their observed mean.
// The sampler itself is immutable; all randomness flows through rng, so a
// single sampler is safe to share across workers.
func (s *ReplicateSampler) Sample(rng *rand.Rand) ResampledVector {
	out := make(ResampledVector, len(s.groups))
	for i, g := range s.groups {
		if g.fixed {
			out[i] = g.mean
			continue
		}
		out[i] = distuv.Normal{Mu: g.mean, Sigma: g.sigma, Src: rng}.Rand()
	}
	return out
}
