package omics

import (
	"intersectomics/domain/core"
)

// WeightAggregator combines the per-layer weights of one retained edge into
// its consensus weight. Aggregators used with Intersect should be
// commutative so the result is independent of layer order.
type WeightAggregator func(weights []float64) float64

// MeanWeights is the default aggregator.
func MeanWeights(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return sum / float64(len(weights))
}

// IntersectOptions controls the consensus construction.
type IntersectOptions struct {
	// Aggregate combines per-layer edge weights; nil means MeanWeights.
	Aggregate WeightAggregator

	// KeepIsolates retains nodes that lose all their edges in the
	// intersection. The default prunes them before community detection.
	KeepIsolates bool
}

// Intersect merges two or more layer graphs into a consensus graph. The node
// set is the exact (case-sensitive) intersection of the layer node sets; the
// edge set keeps an unordered pair only when every layer has it between
// surviving nodes, with the aggregated weight.
//
// Fewer than two layers and an empty node intersection are distinct
// insufficient-overlap errors, never a silently empty graph.
func Intersect(graphs []*Graph, opts IntersectOptions) (*Graph, error) {
	if len(graphs) < 2 {
		return nil, core.ErrTooFewLayers
	}
	aggregate := opts.Aggregate
	if aggregate == nil {
		aggregate = MeanWeights
	}

	consensus := NewGraph()
	for _, id := range graphs[0].Nodes() {
		inAll := true
		for _, g := range graphs[1:] {
			if !g.HasNode(id) {
				inAll = false
				break
			}
		}
		if inAll {
			consensus.AddNode(id)
		}
	}
	if consensus.NodeCount() == 0 {
		return nil, core.ErrNoOverlap
	}

	for _, e := range graphs[0].Edges() {
		if !consensus.HasNode(e.A) || !consensus.HasNode(e.B) {
			continue
		}
		weights := []float64{e.Weight}
		inAll := true
		for _, g := range graphs[1:] {
			w, ok := g.Weight(e.A, e.B)
			if !ok {
				inAll = false
				break
			}
			weights = append(weights, w)
		}
		if !inAll {
			continue
		}
		if err := consensus.AddEdge(e.A, e.B, aggregate(weights)); err != nil {
			return nil, err
		}
	}

	if !opts.KeepIsolates {
		consensus.RemoveIsolates()
	}
	return consensus, nil
}
