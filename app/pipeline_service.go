// Package app orchestrates the full multi-omics analysis: per-layer
// bootstrap correlation, graph construction, cross-layer intersection, and
// community detection.
package app

import (
	"context"
	"fmt"
	"time"

	"intersectomics/domain/core"
	"intersectomics/domain/omics"
	"intersectomics/domain/table"
	"intersectomics/internal"
	"intersectomics/internal/bootstrap"
	"intersectomics/internal/config"
	"intersectomics/ports"

	"github.com/google/uuid"
)

// LayerInput is one omics layer: a name and its validated measurement
// table. Identifiers are assumed to be harmonized across layers before the
// pipeline runs.
type LayerInput struct {
	Name  string
	Table *table.MeasurementTable
}

// LayerResult holds one layer's matrices and significance-filtered graph.
type LayerResult struct {
	Name      string
	Bootstrap *bootstrap.Result
	Graph     *omics.Graph
}

// PipelineResult is the full outcome of one run.
type PipelineResult struct {
	RunID       string
	Layers      []LayerResult
	Consensus   *omics.Graph
	Communities omics.Assignment
	StartedAt   time.Time
	FinishedAt  time.Time
}

// PipelineService drives the analysis end to end. The store is optional;
// with a nil store results stay in memory only.
type PipelineService struct {
	log        *internal.Logger
	dispatcher *bootstrap.Dispatcher
	store      ports.ResultsStore
}

// NewPipelineService creates the service.
func NewPipelineService(store ports.ResultsStore) *PipelineService {
	return &PipelineService{
		log:        internal.NewDefaultLogger(),
		dispatcher: bootstrap.NewDispatcher(),
		store:      store,
	}
}

// Run executes the pipeline over two or more layers. With a configured seed
// every layer gets an independent deterministic stream derived from the base
// seed and the layer name, so the whole run is reproducible regardless of
// worker count or chunk size.
func (s *PipelineService) Run(ctx context.Context, layers []LayerInput, cfg *config.Config) (*PipelineResult, error) {
	if len(layers) < 2 {
		return nil, core.ErrTooFewLayers
	}

	result := &PipelineResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	s.log.Info("pipeline %s: %d layers", result.RunID, len(layers))

	buildOpts := omics.BuildOptions{
		Alpha:          cfg.Graph.Alpha,
		MinAbsWeight:   cfg.Graph.MinCorrelation,
		PositiveOnly:   cfg.Graph.PositiveOnly,
		AbsoluteWeight: cfg.Graph.AbsoluteWeight,
	}

	graphs := make([]*omics.Graph, 0, len(layers))
	for _, layer := range layers {
		spec := bootstrap.RunSpec{
			Method:     bootstrap.Method(cfg.Bootstrap.Method),
			Iterations: cfg.Bootstrap.Iterations,
			Workers:    cfg.Bootstrap.Workers,
			ChunkSize:  cfg.Bootstrap.ChunkSize,
		}
		if cfg.Bootstrap.Seed != nil {
			layerSeed := core.LayerSeed(*cfg.Bootstrap.Seed, layer.Name)
			spec.Seed = &layerSeed
		}

		s.log.Info("pipeline %s: layer %q bootstrap starting", result.RunID, layer.Name)
		br, err := s.dispatcher.Run(ctx, layer.Table, spec)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
		}

		g, err := omics.BuildLayerGraph(br.Correlations, br.PValues, buildOpts)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
		}
		s.log.Info("pipeline %s: layer %q graph has %d nodes, %d edges",
			result.RunID, layer.Name, g.NodeCount(), g.EdgeCount())

		graphs = append(graphs, g)
		result.Layers = append(result.Layers, LayerResult{Name: layer.Name, Bootstrap: br, Graph: g})
	}

	consensus, err := omics.Intersect(graphs, omics.IntersectOptions{KeepIsolates: cfg.Graph.KeepIsolates})
	if err != nil {
		return nil, err
	}
	s.log.Info("pipeline %s: consensus graph has %d nodes, %d edges",
		result.RunID, consensus.NodeCount(), consensus.EdgeCount())
	result.Consensus = consensus

	var detectionSeed uint64
	if cfg.Bootstrap.Seed != nil {
		detectionSeed = *cfg.Bootstrap.Seed
	} else {
		detectionSeed = uint64(time.Now().UnixNano())
	}
	communities, err := omics.DetectCommunities(consensus, cfg.Graph.Resolution, detectionSeed)
	if err != nil {
		return nil, err
	}
	s.log.Info("pipeline %s: %d communities over %d nodes",
		result.RunID, communities.CommunityCount(), consensus.NodeCount())
	result.Communities = communities
	result.FinishedAt = time.Now()

	if s.store != nil {
		record := s.record(result, cfg)
		if err := s.store.SaveRun(ctx, record); err != nil {
			return nil, fmt.Errorf("persist run %s: %w", result.RunID, err)
		}
		s.log.Info("pipeline %s: results persisted", result.RunID)
	}
	return result, nil
}

// Record converts a pipeline result into its persistable form.
func (s *PipelineService) Record(result *PipelineResult, cfg *config.Config) *ports.RunRecord {
	return s.record(result, cfg)
}

func (s *PipelineService) record(result *PipelineResult, cfg *config.Config) *ports.RunRecord {
	names := make([]string, 0, len(result.Layers))
	for _, l := range result.Layers {
		names = append(names, l.Name)
	}
	return &ports.RunRecord{
		ID:          result.RunID,
		Layers:      names,
		Seed:        cfg.Bootstrap.Seed,
		Iterations:  cfg.Bootstrap.Iterations,
		Alpha:       cfg.Graph.Alpha,
		Consensus:   result.Consensus,
		Communities: result.Communities,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
	}
}
