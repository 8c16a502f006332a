// Package table holds the replicate-aware measurement table consumed by the
// bootstrap correlation engine. Tables are assembled by external ingest code
// and are immutable once constructed; the engine only reads them.
package table

import (
	"fmt"
	"sort"

	"intersectomics/domain/core"
)

// Sample describes one measurement column. Labels is the flattened
// multi-level column index: level name -> value (e.g. "time" -> "6h",
// "replicate" -> "2"). One configured level identifies the replicate group.
type Sample struct {
	ID     string
	Labels map[string]string
}

// ReplicateGroup is the view of one biomolecule's observations at one
// replicate-group key. Values are ordered by sample position.
type ReplicateGroup struct {
	Key    string
	Values []float64
}

// MeasurementTable is a biomolecule-by-sample numeric matrix with a named
// replicate level. Row identifiers are unique; every sample carries a
// replicate-group key; group keys are kept in a consistent sorted order.
type MeasurementTable struct {
	rows    []string
	rowIdx  map[string]int
	samples []Sample
	values  [][]float64

	level     string
	groupKeys []string
	groupCols map[string][]int
}

// New validates the raw inputs and builds a table. Shape problems are fatal
// and name the offending identifier or key.
func New(rows []string, samples []Sample, values [][]float64, replicateLevel string) (*MeasurementTable, error) {
	if len(rows) == 0 || len(samples) == 0 {
		return nil, core.ErrEmptyTable
	}
	if len(values) != len(rows) {
		return nil, fmt.Errorf("%w: %d rows but %d value rows", core.ErrMalformedTable, len(rows), len(values))
	}

	rowIdx := make(map[string]int, len(rows))
	for i, id := range rows {
		if _, dup := rowIdx[id]; dup {
			return nil, core.NewDuplicateBiomoleculeError(id)
		}
		rowIdx[id] = i
		if len(values[i]) != len(samples) {
			return nil, fmt.Errorf("%w: row %q has %d values, expected %d", core.ErrMalformedTable, id, len(values[i]), len(samples))
		}
	}

	groupCols := make(map[string][]int)
	for j, s := range samples {
		key, ok := s.Labels[replicateLevel]
		if !ok || key == "" {
			return nil, core.NewMissingReplicateKeyError(s.ID, replicateLevel)
		}
		groupCols[key] = append(groupCols[key], j)
	}

	keys := make([]string, 0, len(groupCols))
	for k := range groupCols {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &MeasurementTable{
		rows:      rows,
		rowIdx:    rowIdx,
		samples:   samples,
		values:    values,
		level:     replicateLevel,
		groupKeys: keys,
		groupCols: groupCols,
	}, nil
}

// SetGroupOrder replaces the default lexicographic key order with an
// explicit one (e.g. chronological timepoints). Every declared key must have
// at least one sample and every observed key must be declared.
func (t *MeasurementTable) SetGroupOrder(keys []string) error {
	if len(keys) != len(t.groupKeys) {
		return fmt.Errorf("%w: order names %d keys, table has %d", core.ErrMalformedTable, len(keys), len(t.groupKeys))
	}
	for _, k := range keys {
		if len(t.groupCols[k]) == 0 {
			return core.NewEmptyReplicateGroupError(k)
		}
	}
	t.groupKeys = append([]string(nil), keys...)
	return nil
}

// ReplicateLevel returns the column-label level used for grouping.
func (t *MeasurementTable) ReplicateLevel() string { return t.level }

// Biomolecules returns the row identifiers in table order.
func (t *MeasurementTable) Biomolecules() []string {
	return append([]string(nil), t.rows...)
}

// GroupKeys returns the ordered replicate-group keys.
func (t *MeasurementTable) GroupKeys() []string {
	return append([]string(nil), t.groupKeys...)
}

// Samples returns the sample columns in table order.
func (t *MeasurementTable) Samples() []Sample {
	return append([]Sample(nil), t.samples...)
}

// NBiomolecules returns the row count.
func (t *MeasurementTable) NBiomolecules() int { return len(t.rows) }

// NSamples returns the column count.
func (t *MeasurementTable) NSamples() int { return len(t.samples) }

// Row returns the raw sample values for one biomolecule.
func (t *MeasurementTable) Row(id string) ([]float64, bool) {
	i, ok := t.rowIdx[id]
	if !ok {
		return nil, false
	}
	return t.values[i], true
}

// ReplicateGroups returns the ordered per-key observation groups for one
// biomolecule.
func (t *MeasurementTable) ReplicateGroups(id string) ([]ReplicateGroup, error) {
	i, ok := t.rowIdx[id]
	if !ok {
		return nil, fmt.Errorf("biomolecule %q not in table", id)
	}

	groups := make([]ReplicateGroup, 0, len(t.groupKeys))
	for _, key := range t.groupKeys {
		cols := t.groupCols[key]
		vals := make([]float64, 0, len(cols))
		for _, j := range cols {
			vals = append(vals, t.values[i][j])
		}
		groups = append(groups, ReplicateGroup{Key: key, Values: vals})
	}
	return groups, nil
}

// RenameRows maps row identifiers onto another vocabulary (e.g. protein to
// gene names) and returns a new table. Identifiers without a mapping are
// kept; a mapping that collapses two rows onto the same name is rejected.
func (t *MeasurementTable) RenameRows(mapping map[string]string) (*MeasurementTable, error) {
	rows := make([]string, len(t.rows))
	for i, id := range t.rows {
		if mapped, ok := mapping[id]; ok {
			rows[i] = mapped
		} else {
			rows[i] = id
		}
	}
	return New(rows, t.samples, t.values, t.level)
}

// SubsetRows returns a new table restricted to the given biomolecules, in
// the given order. Unknown identifiers are an error.
func (t *MeasurementTable) SubsetRows(ids []string) (*MeasurementTable, error) {
	values := make([][]float64, 0, len(ids))
	for _, id := range ids {
		i, ok := t.rowIdx[id]
		if !ok {
			return nil, fmt.Errorf("biomolecule %q not in table", id)
		}
		values = append(values, t.values[i])
	}
	return New(append([]string(nil), ids...), t.samples, values, t.level)
}
