// Package postgres persists pipeline runs to PostgreSQL. Persistence is
// optional; the core pipeline never depends on it.
package postgres

import (
	"context"
	"fmt"

	"intersectomics/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ResultsRepository implements ports.ResultsStore for PostgreSQL.
type ResultsRepository struct {
	db *sqlx.DB
}

// NewResultsRepository connects to the database.
func NewResultsRepository(databaseURL string) (*ResultsRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to results store: %w", err)
	}
	return &ResultsRepository{db: db}, nil
}

// NewResultsRepositoryWithDB wraps an existing connection.
func NewResultsRepositoryWithDB(db *sqlx.DB) *ResultsRepository {
	return &ResultsRepository{db: db}
}

// Close releases the underlying connection pool.
func (r *ResultsRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the result tables if they do not exist.
func (r *ResultsRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id UUID PRIMARY KEY,
			layers TEXT[] NOT NULL,
			seed BIGINT,
			iterations INT NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS consensus_edges (
			run_id UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			biomolecule_a TEXT NOT NULL,
			biomolecule_b TEXT NOT NULL,
			weight DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, biomolecule_a, biomolecule_b)
		);

		CREATE TABLE IF NOT EXISTS community_labels (
			run_id UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
			biomolecule TEXT NOT NULL,
			community INT NOT NULL,
			PRIMARY KEY (run_id, biomolecule)
		)`)
	return err
}

// SaveRun writes one run with its consensus edges and community labels in a
// single transaction.
func (r *ResultsRepository) SaveRun(ctx context.Context, run *ports.RunRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seed *int64
	if run.Seed != nil {
		s := int64(*run.Seed)
		seed = &s
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, layers, seed, iterations, alpha, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, pq.Array(run.Layers), seed, run.Iterations, run.Alpha, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, e := range run.Consensus.Edges() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO consensus_edges (run_id, biomolecule_a, biomolecule_b, weight)
			VALUES ($1, $2, $3, $4)`,
			run.ID, e.A, e.B, e.Weight)
		if err != nil {
			return fmt.Errorf("insert edge %s-%s: %w", e.A, e.B, err)
		}
	}

	for _, id := range run.Consensus.Nodes() {
		label, ok := run.Communities[id]
		if !ok {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO community_labels (run_id, biomolecule, community)
			VALUES ($1, $2, $3)`,
			run.ID, id, label)
		if err != nil {
			return fmt.Errorf("insert community label for %s: %w", id, err)
		}
	}

	return tx.Commit()
}
