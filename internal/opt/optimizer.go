package opt

import (
	"fmt"
	"math"
	"time"
)

// Objective is a scalar cost function over a parameter vector. Optimizers
// minimize it inside a box constraint.
type Objective func(params []float64) float64

// Optimizer defines an optimization algorithm interface.
// Implementations minimize the objective inside [lower, upper] and report the
// outcome in a Result. The initial guess is optional (nil) and is clamped into
// bounds when supplied. Reported parameters always satisfy the bounds; failures
// are carried in the Result, never as a panic.
type Optimizer interface {
	Optimize(obj Objective, lower, upper, initial []float64) *Result
}

// Result holds the output of a single optimization run.
type Result struct {
	Algorithm   string
	BestParams  []float64
	BestCost    float64
	Success     bool
	Iterations  int
	Evaluations int
	Elapsed     time.Duration
	History     []float64 // best-so-far cost per iteration, non-increasing
	Message     string
}

// penaltyCost is the large finite value substituted for panics and non-finite
// objective values so they never reach an optimizer's comparison logic.
const penaltyCost = 1e300

// failedResult builds a failed Result with the given message.
func failedResult(algorithm, format string, args ...any) *Result {
	return &Result{
		Algorithm: algorithm,
		BestCost:  math.Inf(1),
		Success:   false,
		Message:   fmt.Sprintf(format, args...),
	}
}

// validateBounds checks the box constraint invariants shared by all
// algorithms: equal lengths, at least one dimension, lower[i] <= upper[i].
// lower[i] == upper[i] is legal and denotes a fixed parameter.
func validateBounds(lower, upper []float64) error {
	if len(lower) == 0 || len(lower) != len(upper) {
		return fmt.Errorf("bounds length mismatch: %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if math.IsNaN(lower[i]) || math.IsNaN(upper[i]) {
			return fmt.Errorf("bound %d is NaN", i)
		}
		if lower[i] > upper[i] {
			return fmt.Errorf("bound %d inverted: lower %g > upper %g", i, lower[i], upper[i])
		}
	}
	return nil
}

// safeObjective wraps an objective so that panics and non-finite values are
// replaced by a large finite penalty, and counts evaluations.
func safeObjective(obj Objective, evals *int) Objective {
	return func(params []float64) (cost float64) {
		defer func() {
			if r := recover(); r != nil {
				cost = penaltyCost
			}
		}()
		*evals++
		cost = obj(params)
		if math.IsNaN(cost) || math.IsInf(cost, 0) {
			cost = penaltyCost
		}
		return cost
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// clampVector clamps params into the box in place and returns it.
func clampVector(params, lower, upper []float64) []float64 {
	for i := range params {
		params[i] = clamp(params[i], lower[i], upper[i])
	}
	return params
}

// inBounds reports whether every component of params lies inside the box,
// boundary included.
func inBounds(params, lower, upper []float64) bool {
	if len(params) != len(lower) {
		return false
	}
	for i, v := range params {
		if v < lower[i] || v > upper[i] {
			return false
		}
	}
	return true
}

// Feasible reports whether a result is usable: successful, with parameters
// inside the given box and a finite cost.
func Feasible(r *Result, lower, upper []float64) bool {
	return r != nil && r.Success && r.BestCost < penaltyCost &&
		!math.IsNaN(r.BestCost) && inBounds(r.BestParams, lower, upper)
}
