package omics

import (
	"fmt"
	"math"

	"intersectomics/domain/matrix"
)

// BuildOptions controls how a layer graph is cut from the bootstrap
// matrices. The zero value means: alpha 0.05, signed weights, no magnitude
// cutoff, keep isolated nodes.
type BuildOptions struct {
	// Alpha is the significance cutoff; a pair becomes an edge only when
	// its combined p-value is at or below this. 0 means the 0.05 default.
	Alpha float64

	// MinAbsWeight additionally requires |correlation| at or above this
	// value before a pair becomes an edge.
	MinAbsWeight float64

	// PositiveOnly drops negatively correlated pairs entirely.
	PositiveOnly bool

	// AbsoluteWeight stores |correlation| as the edge weight instead of
	// the signed value.
	AbsoluteWeight bool

	// PruneIsolates removes nodes left without edges after thresholding.
	// By default every biomolecule of the matrices stays in the node set.
	PruneIsolates bool
}

// BuildLayerGraph converts one layer's correlation and p-value matrices into
// a weighted graph. Every biomolecule becomes a node; an undirected edge
// (a, b) is added iff the pair is defined and passes the significance and
// weight cutoffs. Pairs whose entries are NaN (dropped during bootstrap)
// never become edges.
func BuildLayerGraph(corr, pvals *matrix.Pairwise, opts BuildOptions) (*Graph, error) {
	if corr.Len() != pvals.Len() {
		return nil, fmt.Errorf("matrix size mismatch: %d vs %d", corr.Len(), pvals.Len())
	}
	alpha := opts.Alpha
	if alpha == 0 {
		alpha = 0.05
	}

	g := NewGraph()
	ids := corr.IDs()
	for _, id := range ids {
		if !pvals.Has(id) {
			return nil, fmt.Errorf("identifier %q missing from p-value matrix", id)
		}
		g.AddNode(id)
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			c := corr.At(ids[i], ids[j])
			p := pvals.At(ids[i], ids[j])
			if math.IsNaN(c) || math.IsNaN(p) {
				continue
			}
			if p > alpha {
				continue
			}
			if math.Abs(c) < opts.MinAbsWeight {
				continue
			}
			if opts.PositiveOnly && c < 0 {
				continue
			}
			w := c
			if opts.AbsoluteWeight {
				w = math.Abs(c)
			}
			if err := g.AddEdge(ids[i], ids[j], w); err != nil {
				return nil, err
			}
		}
	}

	if opts.PruneIsolates {
		g.RemoveIsolates()
	}
	return g, nil
}
