package bootstrap

import (
	"math"
	"testing"
)

func TestCombinePValuesIdentityForSingle(t *testing.T) {
	for _, p := range []float64{0, 0.001, 0.04, 0.5, 0.99, 1} {
		got := CombinePValues([]float64{p})
		if diff := got - p; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("combine([%v]) = %v, want identity", p, got)
		}
	}
}

func TestCombinePValuesAccumulatesEvidence(t *testing.T) {
	// Two moderate p-values combine to something well below either.
	// Closed form with 4 degrees of freedom: 1 - e^(-x/2)*(1+x/2)
	// where x = -4*log(0.96).
	x := -4 * math.Log(0.96)
	want := 1 - math.Exp(-x/2)*(1+x/2)

	got := CombinePValues([]float64{0.04, 0.04})
	if diff := got - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("combine([0.04 0.04]) = %v, want %v", got, want)
	}
	if got >= 0.04 {
		t.Fatalf("combined p %v should undercut the individual 0.04", got)
	}
}

func TestCombinePValuesEdgeInputs(t *testing.T) {
	if got := CombinePValues(nil); !math.IsNaN(got) {
		t.Fatalf("combine(nil) = %v, want NaN", got)
	}
	if got := CombinePValues([]float64{0, 0, 0}); got != 0 {
		t.Fatalf("all-zero combine = %v, want 0", got)
	}
	if got := CombinePValues([]float64{1, 1}); got != 1 {
		t.Fatalf("all-one combine = %v, want 1", got)
	}
	// Out-of-range inputs are clamped rather than poisoning the sum.
	if got := CombinePValues([]float64{-0.5}); got != 0 {
		t.Fatalf("combine([-0.5]) = %v, want 0 after clamping", got)
	}
}

func TestCombinePValuesMonotone(t *testing.T) {
	weak := CombinePValues([]float64{0.3, 0.3})
	strong := CombinePValues([]float64{0.01, 0.01})
	if strong >= weak {
		t.Fatalf("stronger evidence should yield smaller p: %v vs %v", strong, weak)
	}
}
