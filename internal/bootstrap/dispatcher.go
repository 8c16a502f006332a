package bootstrap

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"intersectomics/domain/core"
	"intersectomics/domain/matrix"
	"intersectomics/domain/table"
	"intersectomics/internal"

	"golang.org/x/sync/errgroup"
)

// RunSpec configures one layer's bootstrap computation.
type RunSpec struct {
	Method     Method
	Iterations int
	Workers    int // defaults to available parallelism minus one
	ChunkSize  int // pairs per worker chunk
	Seed       *uint64
}

func (s RunSpec) withDefaults() RunSpec {
	if s.Method == "" {
		s.Method = MethodSpearman
	}
	if s.Iterations == 0 {
		s.Iterations = 10
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU() - 1
		if s.Workers < 1 {
			s.Workers = 1
		}
	}
	if s.ChunkSize == 0 {
		s.ChunkSize = 64
	}
	return s
}

// Validate checks value ranges after defaults are applied.
func (s RunSpec) Validate() error {
	if err := s.Method.Validate(); err != nil {
		return err
	}
	if s.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", s.Iterations)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", s.Workers)
	}
	if s.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be >= 1, got %d", s.ChunkSize)
	}
	return nil
}

// Result holds one layer's full pairwise output: the two symmetric matrices
// plus the per-pair detail records (confidence intervals, iteration counts).
type Result struct {
	Correlations *matrix.Pairwise
	PValues      *matrix.Pairwise
	Pairs        []PairStat
	Seed         uint64
}

// Dispatcher partitions the unordered biomolecule pairs of a table into
// contiguous chunks and fans them out to a fixed-size worker pool. Workers
// share nothing but the read-only table and samplers; each writes into its
// own preallocated fragment, so the merge is independent of completion
// order. A failed chunk fails the whole layer rather than returning partial
// matrices as complete.
type Dispatcher struct {
	log *internal.Logger
}

// NewDispatcher creates a dispatcher with the default logger.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{log: internal.NewDefaultLogger()}
}

type pairIndex struct{ i, j int }

// Run computes the correlation and combined p-value matrices for every
// unordered biomolecule pair of the table. With a non-nil seed the output is
// bit-identical for any worker count or chunk size.
func (d *Dispatcher) Run(ctx context.Context, tbl *table.MeasurementTable, spec RunSpec) (*Result, error) {
	spec = spec.withDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ids := tbl.Biomolecules()
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: need at least two biomolecules", core.ErrMalformedTable)
	}

	var baseSeed uint64
	if spec.Seed != nil {
		baseSeed = *spec.Seed
	} else {
		baseSeed = uint64(time.Now().UnixNano())
	}

	agg, err := NewAggregator(tbl, spec.Iterations, baseSeed)
	if err != nil {
		return nil, err
	}

	pairs := make([]pairIndex, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			pairs = append(pairs, pairIndex{i, j})
		}
	}

	nChunks := (len(pairs) + spec.ChunkSize - 1) / spec.ChunkSize
	fragments := make([][]PairStat, nChunks)

	d.log.Info("bootstrap: %d biomolecules, %d pairs, %d iterations, %d chunks, %d workers",
		len(ids), len(pairs), spec.Iterations, nChunks, spec.Workers)
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.Workers)
	for c := 0; c < nChunks; c++ {
		c := c
		lo := c * spec.ChunkSize
		hi := lo + spec.ChunkSize
		if hi > len(pairs) {
			hi = len(pairs)
		}
		g.Go(func() error {
			out := make([]PairStat, 0, hi-lo)
			for k := lo; k < hi; k++ {
				if err := gctx.Err(); err != nil {
					return core.NewChunkError(c, lo, hi-1, err)
				}
				p := pairs[k]
				ps, err := agg.Pair(ids[p.i], ids[p.j])
				if err != nil {
					return core.NewChunkError(c, lo, hi-1, err)
				}
				out = append(out, ps)
			}
			fragments[c] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corr := matrix.NewPairwise(ids)
	pvals := matrix.NewPairwise(ids)
	all := make([]PairStat, 0, len(pairs))
	dropped := 0
	for _, fragment := range fragments {
		for _, ps := range fragment {
			all = append(all, ps)
			if !ps.Defined {
				// Every iteration was degenerate; the pair stays NaN
				// and falls out at the graph stage.
				dropped++
				continue
			}
			if err := corr.Set(ps.A, ps.B, ps.Correlation); err != nil {
				return nil, err
			}
			if err := pvals.Set(ps.A, ps.B, ps.PValue); err != nil {
				return nil, err
			}
		}
	}

	if dropped > 0 {
		d.log.Warn("bootstrap: %d of %d pairs undefined in every iteration", dropped, len(pairs))
	}
	d.log.Info("bootstrap: finished %d pairs in %s", len(pairs), time.Since(started).Round(time.Millisecond))

	return &Result{Correlations: corr, PValues: pvals, Pairs: all, Seed: baseSeed}, nil
}
