package ports

import (
	"context"
	"time"

	"intersectomics/domain/omics"
)

// RunRecord is the persistable outcome of one pipeline run.
type RunRecord struct {
	ID          string
	Layers      []string
	Seed        *uint64
	Iterations  int
	Alpha       float64
	Consensus   *omics.Graph
	Communities omics.Assignment
	StartedAt   time.Time
	FinishedAt  time.Time
}

// ResultsStore persists pipeline runs for later inspection.
type ResultsStore interface {
	// EnsureSchema creates required tables if they do not exist.
	EnsureSchema(ctx context.Context) error

	// SaveRun writes one run with its consensus edges and community labels.
	SaveRun(ctx context.Context, run *RunRecord) error
}

// ResultsExporter writes a run to an external file format for downstream
// visualization.
type ResultsExporter interface {
	Export(run *RunRecord, path string) error
}
