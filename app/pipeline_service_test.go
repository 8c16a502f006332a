package app

import (
	"context"
	"testing"

	"intersectomics/domain/core"
	"intersectomics/domain/table"
	"intersectomics/internal/config"
	"intersectomics/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	schema bool
	runs   []*ports.RunRecord
}

func (m *memoryStore) EnsureSchema(context.Context) error { m.schema = true; return nil }

func (m *memoryStore) SaveRun(_ context.Context, run *ports.RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}

// layerTable builds a table whose gene1/gene2 track each other tightly
// across four timepoints while gene3 moves the opposite way.
func layerTable(t *testing.T, scale float64) *table.MeasurementTable {
	t.Helper()

	rows := []string{"gene1", "gene2", "gene3"}
	var samples []table.Sample
	for _, tp := range []string{"t0", "t1", "t2", "t3"} {
		for _, rep := range []string{"r1", "r2", "r3"} {
			samples = append(samples, table.Sample{
				ID:     tp + "_" + rep,
				Labels: map[string]string{"time": tp},
			})
		}
	}

	base := [][]float64{
		{1.0, 1.01, 0.99, 4.0, 4.02, 3.98, 8.0, 8.01, 7.99, 16.0, 16.02, 15.98},
		{2.0, 2.02, 1.98, 8.0, 8.01, 7.99, 16.0, 16.02, 15.98, 32.0, 32.01, 31.99},
		{16.0, 16.02, 15.98, 8.0, 8.01, 7.99, 4.0, 4.02, 3.98, 1.0, 1.01, 0.99},
	}
	values := make([][]float64, len(base))
	for i, row := range base {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			values[i][j] = v * scale
		}
	}

	tbl, err := table.New(rows, samples, values, "time")
	require.NoError(t, err)
	return tbl
}

func testConfig(seed uint64) *config.Config {
	return &config.Config{
		Bootstrap: config.BootstrapConfig{
			ReplicateLevel: "time",
			Iterations:     15,
			Workers:        2,
			ChunkSize:      2,
			Method:         "spearman",
			Seed:           &seed,
		},
		Graph: config.GraphConfig{
			Alpha:          0.05,
			MinCorrelation: 0.5,
			PositiveOnly:   true,
			AbsoluteWeight: true,
			Resolution:     1.0,
		},
	}
}

func TestPipelineRunEndToEnd(t *testing.T) {
	layers := []LayerInput{
		{Name: "transcriptomics", Table: layerTable(t, 1.0)},
		{Name: "proteomics", Table: layerTable(t, 3.0)},
	}
	store := &memoryStore{}
	svc := NewPipelineService(store)

	result, err := svc.Run(context.Background(), layers, testConfig(42))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Layers, 2)
	for _, layer := range result.Layers {
		assert.NotNil(t, layer.Bootstrap)
		assert.NotNil(t, layer.Graph)
	}

	// The tightly coupled positive pair must survive intersection.
	require.NotNil(t, result.Consensus)
	assert.True(t, result.Consensus.HasEdge("gene1", "gene2"),
		"expected consensus edge gene1-gene2, got edges %v", result.Consensus.Edges())

	// Every consensus node carries a community label.
	require.NotNil(t, result.Communities)
	assert.Len(t, result.Communities, result.Consensus.NodeCount())
	assert.False(t, result.FinishedAt.Before(result.StartedAt))

	// Persistence went through the store.
	require.Len(t, store.runs, 1)
	saved := store.runs[0]
	assert.Equal(t, result.RunID, saved.ID)
	assert.Equal(t, []string{"transcriptomics", "proteomics"}, saved.Layers)
	assert.Equal(t, 15, saved.Iterations)
}

func TestPipelineSeededReproducible(t *testing.T) {
	run := func() *PipelineResult {
		layers := []LayerInput{
			{Name: "transcriptomics", Table: layerTable(t, 1.0)},
			{Name: "proteomics", Table: layerTable(t, 3.0)},
		}
		svc := NewPipelineService(nil)
		result, err := svc.Run(context.Background(), layers, testConfig(7))
		require.NoError(t, err)
		return result
	}

	first, second := run(), run()

	fe, se := first.Consensus.Edges(), second.Consensus.Edges()
	require.Equal(t, len(fe), len(se))
	for i := range fe {
		assert.Equal(t, fe[i].A, se[i].A)
		assert.Equal(t, fe[i].B, se[i].B)
		assert.Equal(t, fe[i].Weight, se[i].Weight, "edge %s-%s weight drifted between seeded runs", fe[i].A, fe[i].B)
	}
	assert.Equal(t, first.Communities, second.Communities)
}

func TestPipelineTooFewLayers(t *testing.T) {
	svc := NewPipelineService(nil)
	_, err := svc.Run(context.Background(), []LayerInput{
		{Name: "only", Table: layerTable(t, 1.0)},
	}, testConfig(1))
	require.ErrorIs(t, err, core.ErrTooFewLayers)
}

func TestPipelineRecord(t *testing.T) {
	layers := []LayerInput{
		{Name: "a", Table: layerTable(t, 1.0)},
		{Name: "b", Table: layerTable(t, 2.0)},
	}
	svc := NewPipelineService(nil)
	cfg := testConfig(3)

	result, err := svc.Run(context.Background(), layers, cfg)
	require.NoError(t, err)

	record := svc.Record(result, cfg)
	assert.Equal(t, result.RunID, record.ID)
	assert.Equal(t, []string{"a", "b"}, record.Layers)
	require.NotNil(t, record.Seed)
	assert.Equal(t, uint64(3), *record.Seed)
	assert.Equal(t, result.Consensus, record.Consensus)
	assert.Equal(t, result.Communities, record.Communities)
}
