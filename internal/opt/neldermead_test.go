package opt

import (
	"math"
	"testing"
)

func TestNelderMeadOnQuadratic(t *testing.T) {
	nm := NewNelderMead(DefaultNMConfig())

	shifted := func(x []float64) float64 {
		d0 := x[0] - 1.5
		d1 := x[1] + 0.5
		return 3*d0*d0 + d1*d1
	}
	lower := []float64{-5, -5}
	upper := []float64{5, 5}
	r := nm.Optimize(shifted, lower, upper, nil)

	if !r.Success {
		t.Fatalf("expected success, got %s", r.Message)
	}
	if math.Abs(r.BestParams[0]-1.5) > 1e-3 || math.Abs(r.BestParams[1]+0.5) > 1e-3 {
		t.Errorf("optimum not recovered: %v", r.BestParams)
	}
}

func TestNelderMeadWarmStart(t *testing.T) {
	// Warm-started at the optimum the simplex should converge almost
	// immediately; this is the property resampling consumers rely on.
	nm := NewNelderMead(DefaultNMConfig())

	// Asymmetric box so the default start (the box center) is off-optimum.
	lower := []float64{-5, -5}
	upper := []float64{9, 9}

	cold := nm.Optimize(sphere, lower, upper, nil)
	warm := nm.Optimize(sphere, lower, upper, []float64{0, 0})

	if !warm.Success || !cold.Success {
		t.Fatal("expected both runs to succeed")
	}
	if warm.BestCost > 1e-10 {
		t.Errorf("warm start should hold the optimum, got cost %g", warm.BestCost)
	}
	if warm.Evaluations > cold.Evaluations {
		t.Errorf("warm start used more evaluations (%d) than cold (%d)", warm.Evaluations, cold.Evaluations)
	}
}

func TestNelderMeadDeterministic(t *testing.T) {
	nm := NewNelderMead(DefaultNMConfig())
	lower := []float64{-5}
	upper := []float64{5}

	r1 := nm.Optimize(sphere, lower, upper, nil)
	r2 := nm.Optimize(sphere, lower, upper, nil)

	if r1.BestCost != r2.BestCost || r1.Evaluations != r2.Evaluations {
		t.Error("Nelder-Mead should be fully deterministic")
	}
}

func TestGridGradientOnQuadratic(t *testing.T) {
	gg := NewGridGradient(DefaultGridGradientConfig())

	shifted := func(x []float64) float64 {
		d := x[0] - 0.7
		return d * d
	}
	lower := []float64{-5}
	upper := []float64{5}
	r := gg.Optimize(shifted, lower, upper, nil)

	if !r.Success {
		t.Fatalf("expected success, got %s", r.Message)
	}
	if math.Abs(r.BestParams[0]-0.7) > 0.05 {
		t.Errorf("expected 0.7, got %g", r.BestParams[0])
	}
}

func TestNumericalGradientAtBoundary(t *testing.T) {
	lower := []float64{0, 0}
	upper := []float64{1, 1}
	linear := func(x []float64) float64 { return 3*x[0] + 5*x[1] }

	// On the lower boundary the minus probe collapses onto x itself; the
	// one-sided difference must still recover the true slope.
	grad := make([]float64, 2)
	numericalGradient(linear, []float64{0, 1}, lower, upper, grad)
	if math.Abs(grad[0]-3) > 1e-6 {
		t.Errorf("boundary gradient = %g, want 3", grad[0])
	}
	if math.Abs(grad[1]-5) > 1e-6 {
		t.Errorf("boundary gradient = %g, want 5", grad[1])
	}

	// Interior points use the full central difference.
	numericalGradient(linear, []float64{0.5, 0.5}, lower, upper, grad)
	if math.Abs(grad[0]-3) > 1e-6 || math.Abs(grad[1]-5) > 1e-6 {
		t.Errorf("interior gradient = %v, want [3 5]", grad)
	}

	// Fixed dimensions contribute no gradient.
	numericalGradient(linear, []float64{0.5, 1}, []float64{0, 1}, []float64{1, 1}, grad)
	if grad[1] != 0 {
		t.Errorf("fixed dimension gradient = %g, want 0", grad[1])
	}
}

func TestAutoGridPoints(t *testing.T) {
	cases := []struct {
		dims int
		min  int
		max  int
	}{
		{1, 25, 25},
		{2, 25, 25},
		{3, 21, 21},
		{6, 4, 4},
		{20, 3, 3},
	}
	for _, c := range cases {
		got := autoGridPoints(c.dims)
		if got < c.min || got > c.max {
			t.Errorf("autoGridPoints(%d) = %d, want in [%d, %d]", c.dims, got, c.min, c.max)
		}
	}
}
