package table

import (
	"errors"
	"testing"

	"intersectomics/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleColumns() []Sample {
	return []Sample{
		{ID: "s1", Labels: map[string]string{"time": "t1", "replicate": "1"}},
		{ID: "s2", Labels: map[string]string{"time": "t1", "replicate": "2"}},
		{ID: "s3", Labels: map[string]string{"time": "t2", "replicate": "1"}},
		{ID: "s4", Labels: map[string]string{"time": "t2", "replicate": "2"}},
	}
}

func TestNewTable_GroupsAndOrder(t *testing.T) {
	tbl, err := New(
		[]string{"geneA", "geneB"},
		sampleColumns(),
		[][]float64{
			{1, 2, 3, 4},
			{5, 6, 7, 8},
		},
		"time",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"t1", "t2"}, tbl.GroupKeys())
	assert.Equal(t, 2, tbl.NBiomolecules())
	assert.Equal(t, 4, tbl.NSamples())

	groups, err := tbl.ReplicateGroups("geneB")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "t1", groups[0].Key)
	assert.Equal(t, []float64{5, 6}, groups[0].Values)
	assert.Equal(t, []float64{7, 8}, groups[1].Values)
}

func TestNewTable_DuplicateBiomolecule(t *testing.T) {
	_, err := New(
		[]string{"geneA", "geneA"},
		sampleColumns(),
		[][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}},
		"time",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateBiomolecule))
	assert.True(t, core.IsShapeError(err))
	assert.Contains(t, err.Error(), "geneA")
}

func TestNewTable_MissingReplicateKey(t *testing.T) {
	samples := sampleColumns()
	samples[2].Labels = map[string]string{"replicate": "1"}

	_, err := New(
		[]string{"geneA"},
		samples,
		[][]float64{{1, 2, 3, 4}},
		"time",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingReplicateKey))
	assert.Contains(t, err.Error(), "s3")
}

func TestNewTable_Empty(t *testing.T) {
	_, err := New(nil, nil, nil, "time")
	assert.True(t, errors.Is(err, core.ErrEmptyTable))
}

func TestNewTable_ValueShapeMismatch(t *testing.T) {
	_, err := New(
		[]string{"geneA"},
		sampleColumns(),
		[][]float64{{1, 2}},
		"time",
	)
	require.Error(t, err)
	assert.True(t, core.IsShapeError(err))
}

func TestSetGroupOrder(t *testing.T) {
	tbl, err := New(
		[]string{"geneA"},
		sampleColumns(),
		[][]float64{{1, 2, 3, 4}},
		"time",
	)
	require.NoError(t, err)

	require.NoError(t, tbl.SetGroupOrder([]string{"t2", "t1"}))
	assert.Equal(t, []string{"t2", "t1"}, tbl.GroupKeys())

	groups, err := tbl.ReplicateGroups("geneA")
	require.NoError(t, err)
	assert.Equal(t, "t2", groups[0].Key)

	err = tbl.SetGroupOrder([]string{"t1", "t9"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyReplicateGroup))
}

func TestRenameRows(t *testing.T) {
	tbl, err := New(
		[]string{"P001", "P002"},
		sampleColumns(),
		[][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}},
		"time",
	)
	require.NoError(t, err)

	renamed, err := tbl.RenameRows(map[string]string{"P001": "geneA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"geneA", "P002"}, renamed.Biomolecules())

	_, err = tbl.RenameRows(map[string]string{"P001": "same", "P002": "same"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicateBiomolecule))
}

func TestSubsetRows(t *testing.T) {
	tbl, err := New(
		[]string{"geneA", "geneB", "geneC"},
		sampleColumns(),
		[][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}},
		"time",
	)
	require.NoError(t, err)

	sub, err := tbl.SubsetRows([]string{"geneC", "geneA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"geneC", "geneA"}, sub.Biomolecules())

	row, ok := sub.Row("geneC")
	require.True(t, ok)
	assert.Equal(t, []float64{9, 10, 11, 12}, row)

	_, err = tbl.SubsetRows([]string{"missing"})
	assert.Error(t, err)
}
