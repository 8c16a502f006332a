package matrix

import (
	"math"
	"testing"
)

func TestPairwise_SymmetricSet(t *testing.T) {
	m := NewPairwise([]string{"a", "b", "c"})

	if err := m.Set("a", "c", 0.75); err != nil {
		t.Fatalf("set: %v", err)
	}

	if got := m.At("a", "c"); got != 0.75 {
		t.Errorf("At(a,c) = %v, want 0.75", got)
	}
	if got := m.At("c", "a"); got != 0.75 {
		t.Errorf("At(c,a) = %v, want 0.75", got)
	}
}

func TestPairwise_DiagonalUndefined(t *testing.T) {
	m := NewPairwise([]string{"a", "b"})

	if err := m.Set("a", "a", 1.0); err == nil {
		t.Fatal("expected error for self-pair")
	}
	if !math.IsNaN(m.At("a", "a")) {
		t.Errorf("diagonal should read NaN, got %v", m.At("a", "a"))
	}
}

func TestPairwise_UnsetIsNaN(t *testing.T) {
	m := NewPairwise([]string{"a", "b"})
	if !math.IsNaN(m.At("a", "b")) {
		t.Errorf("unset cell should be NaN, got %v", m.At("a", "b"))
	}
	if !math.IsNaN(m.At("a", "missing")) {
		t.Error("unknown identifier should read NaN")
	}
}

func TestPairwise_UnknownIdentifier(t *testing.T) {
	m := NewPairwise([]string{"a", "b"})
	if err := m.Set("a", "zzz", 0.5); err == nil {
		t.Fatal("expected error for unknown identifier")
	}
	if !m.Has("a") || m.Has("zzz") {
		t.Error("Has misreports membership")
	}
}
