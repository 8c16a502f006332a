// Package matrix provides the symmetric pairwise result matrices produced by
// the bootstrap engine: one correlation matrix and one combined p-value
// matrix per omics layer.
package matrix

import (
	"fmt"
	"math"
)

// Pairwise is a dense square matrix keyed by biomolecule identity rather
// than array position. The diagonal is undefined and every cell starts as
// NaN; an entry stays NaN when a pair's statistic could not be estimated.
type Pairwise struct {
	ids   []string
	index map[string]int
	data  []float64
}

// NewPairwise allocates an n-by-n matrix for the given identifiers.
func NewPairwise(ids []string) *Pairwise {
	n := len(ids)
	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Pairwise{
		ids:   append([]string(nil), ids...),
		index: index,
		data:  data,
	}
}

// IDs returns the row/column identifiers in index order.
func (m *Pairwise) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Len returns the matrix dimension.
func (m *Pairwise) Len() int { return len(m.ids) }

// Has reports whether an identifier is part of the matrix.
func (m *Pairwise) Has(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Set stores a value symmetrically for the unordered pair (a, b).
// Self-pairs are rejected; the diagonal stays undefined.
func (m *Pairwise) Set(a, b string, v float64) error {
	i, ok := m.index[a]
	if !ok {
		return fmt.Errorf("unknown identifier %q", a)
	}
	j, ok := m.index[b]
	if !ok {
		return fmt.Errorf("unknown identifier %q", b)
	}
	if i == j {
		return fmt.Errorf("self-pair %q", a)
	}
	n := len(m.ids)
	m.data[i*n+j] = v
	m.data[j*n+i] = v
	return nil
}

// At returns the stored value for (a, b). Unknown identifiers and the
// diagonal read as NaN.
func (m *Pairwise) At(a, b string) float64 {
	i, ok := m.index[a]
	if !ok {
		return math.NaN()
	}
	j, ok := m.index[b]
	if !ok || i == j {
		return math.NaN()
	}
	return m.data[i*len(m.ids)+j]
}

// AtIndex returns the value at numeric positions (i, j).
func (m *Pairwise) AtIndex(i, j int) float64 {
	return m.data[i*len(m.ids)+j]
}
