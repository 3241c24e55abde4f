package opt

import (
	"math"
	"testing"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin.
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// bimodal has a shallow basin at x=3 (value 0.3) and a deep basin at x=-4
// (value 0) separated by a high ridge.
func bimodal(x []float64) float64 {
	deep := (x[0] + 4) * (x[0] + 4)
	shallow := 0.3 + 0.05*(x[0]-3)*(x[0]-3)
	return math.Min(deep, shallow)
}

func testRoster(t *testing.T) map[string]Optimizer {
	t.Helper()
	de := DefaultDEConfig()
	de.MaxIterations = 200
	cma := DefaultCMAESConfig()
	cma.MaxIterations = 200
	pso := DefaultPSOConfig()
	pso.MaxIterations = 200
	gwo := DefaultGWOConfig()
	gwo.MaxIterations = 200
	return map[string]Optimizer{
		"de":         NewDifferentialEvolution(de),
		"cmaes":      NewCMAES(cma),
		"pso":        NewParticleSwarm(pso),
		"greywolf":   NewGreyWolf(gwo),
		"neldermead": NewNelderMead(DefaultNMConfig()),
		"gridgrad":   NewGridGradient(DefaultGridGradientConfig()),
	}
}

func TestAllOptimizersRespectBounds(t *testing.T) {
	// Asymmetric box that excludes the unconstrained optimum, plus a fixed
	// parameter (lower == upper).
	lower := []float64{1, -10, 2.5}
	upper := []float64{5, -2, 2.5}

	for name, o := range testRoster(t) {
		r := o.Optimize(sphere, lower, upper, nil)
		if !r.Success {
			t.Errorf("%s: expected success, got failure: %s", name, r.Message)
			continue
		}
		for i, v := range r.BestParams {
			if v < lower[i] || v > upper[i] {
				t.Errorf("%s: parameter %d = %f outside [%f, %f]", name, i, v, lower[i], upper[i])
			}
		}
		if r.BestParams[2] != 2.5 {
			t.Errorf("%s: fixed parameter moved to %f", name, r.BestParams[2])
		}
		// Constrained optimum of the sphere is at (1, -2, 2.5).
		want := 1.0 + 4.0 + 6.25
		if r.BestCost > want+1.0 {
			t.Errorf("%s: cost %f far from constrained optimum %f", name, r.BestCost, want)
		}
	}
}

func TestAllOptimizersHistoryNonIncreasing(t *testing.T) {
	lower := []float64{-10, -10}
	upper := []float64{10, 10}

	for name, o := range testRoster(t) {
		r := o.Optimize(sphere, lower, upper, nil)
		for i := 1; i < len(r.History); i++ {
			if r.History[i] > r.History[i-1] {
				t.Errorf("%s: best-so-far increased at iteration %d: %g -> %g",
					name, i, r.History[i-1], r.History[i])
				break
			}
		}
	}
}

func TestAllOptimizersInvalidBoundsFail(t *testing.T) {
	lower := []float64{5, 0}
	upper := []float64{-5, 1} // first pair inverted

	for name, o := range testRoster(t) {
		r := o.Optimize(sphere, lower, upper, nil)
		if r.Success {
			t.Errorf("%s: expected failure on inverted bounds", name)
		}
		if r.Message == "" {
			t.Errorf("%s: expected a failure message", name)
		}
	}
}

func TestAllOptimizersSurvivePanicsAndNaN(t *testing.T) {
	// An objective that panics in one region and returns NaN in another
	// must never surface either to the caller.
	nasty := func(x []float64) float64 {
		if x[0] > 3 {
			panic("bad region")
		}
		if x[0] < -3 {
			return math.NaN()
		}
		return sphere(x)
	}
	lower := []float64{-10}
	upper := []float64{10}

	for name, o := range testRoster(t) {
		r := o.Optimize(nasty, lower, upper, nil)
		if !r.Success {
			t.Errorf("%s: expected success, got %s", name, r.Message)
			continue
		}
		if math.IsNaN(r.BestCost) || math.IsInf(r.BestCost, 0) {
			t.Errorf("%s: non-finite best cost %f", name, r.BestCost)
		}
		if r.BestCost > 0.5 {
			t.Errorf("%s: expected near-zero cost in the safe region, got %f", name, r.BestCost)
		}
	}
}

func TestAllOptimizersClampInitialGuess(t *testing.T) {
	lower := []float64{0, 0}
	upper := []float64{1, 1}
	initial := []float64{5, -5} // far outside the box

	for name, o := range testRoster(t) {
		r := o.Optimize(sphere, lower, upper, initial)
		if !r.Success {
			t.Errorf("%s: expected success, got %s", name, r.Message)
			continue
		}
		for i, v := range r.BestParams {
			if v < lower[i] || v > upper[i] {
				t.Errorf("%s: parameter %d = %f escaped the box", name, i, v)
			}
		}
	}
}

func TestFeasible(t *testing.T) {
	lower := []float64{0}
	upper := []float64{1}

	if Feasible(nil, lower, upper) {
		t.Error("nil result should not be feasible")
	}
	if Feasible(&Result{Success: false, BestParams: []float64{0.5}}, lower, upper) {
		t.Error("failed result should not be feasible")
	}
	if Feasible(&Result{Success: true, BestParams: []float64{2}, BestCost: 1}, lower, upper) {
		t.Error("out-of-bounds result should not be feasible")
	}
	if !Feasible(&Result{Success: true, BestParams: []float64{0.5}, BestCost: 1}, lower, upper) {
		t.Error("in-bounds successful result should be feasible")
	}
}
