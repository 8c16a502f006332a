package bootstrap

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"intersectomics/domain/core"
	"intersectomics/domain/table"
)

func TestReplicateSamplerFixedPoint(t *testing.T) {
	// Zero variance collapses the fitted normal to a point mass.
	s, err := NewReplicateSampler([]table.ReplicateGroup{
		{Key: "t0", Values: []float64{5, 5, 5}},
	})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 50; i++ {
		v := s.Sample(rng)
		if len(v) != 1 || v[0] != 5.0 {
			t.Fatalf("draw %d = %v, want [5]", i, v)
		}
	}
}

func TestReplicateSamplerSingleObservation(t *testing.T) {
	s, err := NewReplicateSampler([]table.ReplicateGroup{
		{Key: "t0", Values: []float64{2.5}},
	})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 1))
	if v := s.Sample(rng); v[0] != 2.5 {
		t.Fatalf("single observation should pin the draw to 2.5, got %v", v[0])
	}
}

func TestReplicateSamplerEmptyGroup(t *testing.T) {
	_, err := NewReplicateSampler([]table.ReplicateGroup{
		{Key: "t1", Values: nil},
	})
	if !errors.Is(err, core.ErrEmptyReplicateGroup) {
		t.Fatalf("expected ErrEmptyReplicateGroup, got %v", err)
	}
}

func TestReplicateSamplerSeededDeterminism(t *testing.T) {
	groups := []table.ReplicateGroup{
		{Key: "t0", Values: []float64{1, 2, 3}},
		{Key: "t1", Values: []float64{10, 12, 11}},
	}
	s, err := NewReplicateSampler(groups)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	draw := func() []ResampledVector {
		rng := rand.New(rand.NewPCG(42, 42))
		out := make([]ResampledVector, 5)
		for i := range out {
			out[i] = s.Sample(rng)
		}
		return out
	}

	first, second := draw(), draw()
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("draw %d key %d differs with the same seed: %v vs %v",
					i, j, first[i][j], second[i][j])
			}
		}
	}
}

func TestReplicateSamplerDrawsVary(t *testing.T) {
	s, err := NewReplicateSampler([]table.ReplicateGroup{
		{Key: "t0", Values: []float64{1, 2, 3, 4}},
	})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	rng := rand.New(rand.NewPCG(7, 7))
	seen := make(map[float64]bool)
	for i := 0; i < 20; i++ {
		v := s.Sample(rng)[0]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("draw %d not finite: %v", i, v)
		}
		seen[v] = true
	}
	if len(seen) < 2 {
		t.Error("a non-degenerate group should produce varying draws")
	}
}

func TestReplicateSamplerKeys(t *testing.T) {
	s, err := NewReplicateSampler([]table.ReplicateGroup{
		{Key: "t0", Values: []float64{1, 2}},
		{Key: "t1", Values: []float64{3, 4}},
	})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "t0" || keys[1] != "t1" {
		t.Fatalf("keys = %v, want [t0 t1]", keys)
	}
}
