package opt

import (
	"math"
	"time"
)

// GridGradientConfig holds the settings for the grid-scan plus gradient
// refinement optimizer.
type GridGradientConfig struct {
	// GridPoints is the number of grid points per free dimension. When 0 the
	// resolution is derived from the dimensionality so the total scan stays
	// near gridBudget cells.
	GridPoints    int
	MaxIterations int     // gradient descent steps after the scan
	StepFraction  float64 // fixed descent step as a fraction of each bound span
	Tolerance     float64
	Patience      int
}

// DefaultGridGradientConfig returns the standard grid+gradient settings.
func DefaultGridGradientConfig() GridGradientConfig {
	return GridGradientConfig{
		MaxIterations: 500,
		StepFraction:  0.01,
		Tolerance:     1e-10,
		Patience:      50,
	}
}

const gridBudget = 10000

// GridGradient locates a promising basin with a coarse grid scan over the box
// and refines it with fixed-step gradient descent on a central-difference
// numerical derivative. Deterministic by construction.
type GridGradient struct {
	cfg GridGradientConfig
}

// NewGridGradient creates a grid+gradient optimizer with the given config.
func NewGridGradient(cfg GridGradientConfig) *GridGradient {
	return &GridGradient{cfg: cfg}
}

// Optimize runs the scan and refinement inside [lower, upper]. The initial
// guess, when supplied, competes with the grid cells for the starting basin.
func (gg *GridGradient) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "grid-gradient"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	dim := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)

	free := 0
	for j := range lower {
		if upper[j] > lower[j] {
			free++
		}
	}
	points := gg.cfg.GridPoints
	if points <= 0 {
		points = autoGridPoints(free)
	}

	best := make([]float64, dim)
	for j := range best {
		best[j] = lower[j] + 0.5*(upper[j]-lower[j])
	}
	bestCost := eval(best)
	if initial != nil {
		seed := clampVector(append([]float64{}, initial...), lower, upper)
		if c := eval(seed); c < bestCost {
			bestCost = c
			copy(best, seed)
		}
	}

	// Exhaustive scan over the grid lattice. Fixed dimensions contribute a
	// single lattice point.
	cell := make([]float64, dim)
	counter := make([]int, dim)
	sizes := make([]int, dim)
	for j := range sizes {
		if upper[j] > lower[j] {
			sizes[j] = points
		} else {
			sizes[j] = 1
		}
	}
	for {
		for j := 0; j < dim; j++ {
			if sizes[j] == 1 {
				cell[j] = lower[j]
			} else {
				cell[j] = lower[j] + (upper[j]-lower[j])*float64(counter[j])/float64(sizes[j]-1)
			}
		}
		if c := eval(cell); c < bestCost {
			bestCost = c
			copy(best, cell)
		}
		j := 0
		for ; j < dim; j++ {
			counter[j]++
			if counter[j] < sizes[j] {
				break
			}
			counter[j] = 0
		}
		if j == dim {
			break
		}
	}

	// Local refinement: fixed-step descent along the central-difference
	// gradient, scaled per dimension by the bound span.
	tracker := NewStagnationTracker(gg.cfg.Patience, gg.cfg.Tolerance)
	x := append([]float64{}, best...)
	grad := make([]float64, dim)
	iter := 0
	for ; iter < gg.cfg.MaxIterations; iter++ {
		numericalGradient(eval, x, lower, upper, grad)

		norm := 0.0
		for _, g := range grad {
			norm += g * g
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			break
		}

		for j := 0; j < dim; j++ {
			span := upper[j] - lower[j]
			x[j] = clamp(x[j]-gg.cfg.StepFraction*span*grad[j]/norm, lower[j], upper[j])
		}
		c := eval(x)
		if c < bestCost {
			bestCost = c
			copy(best, x)
		} else {
			copy(x, best)
		}

		if tracker.Update(bestCost) {
			iter++
			break
		}
	}

	return &Result{
		Algorithm:   name,
		BestParams:  best,
		BestCost:    bestCost,
		Success:     bestCost < penaltyCost,
		Iterations:  iter,
		Evaluations: evals,
		Elapsed:     time.Since(start),
		History:     tracker.History(),
	}
}

// numericalGradient fills grad with central-difference derivatives of eval at
// x, probing ±h scaled by each bound span. Probes are clamped into the box;
// the difference is divided by the actual probe separation, so gradients at
// the boundary stay one-sided rather than halved. x is restored after each
// dimension.
func numericalGradient(eval Objective, x, lower, upper, grad []float64) {
	for j := range x {
		span := upper[j] - lower[j]
		if span == 0 {
			grad[j] = 0
			continue
		}
		h := 1e-6 * span
		xj := x[j]
		hiProbe := clamp(xj+h, lower[j], upper[j])
		loProbe := clamp(xj-h, lower[j], upper[j])
		if hiProbe == loProbe {
			grad[j] = 0
			continue
		}
		x[j] = hiProbe
		fPlus := eval(x)
		x[j] = loProbe
		fMinus := eval(x)
		x[j] = xj
		grad[j] = (fPlus - fMinus) / (hiProbe - loProbe)
	}
}

// autoGridPoints derives a per-dimension resolution that keeps the full
// lattice near gridBudget cells.
func autoGridPoints(freeDims int) int {
	if freeDims == 0 {
		return 1
	}
	p := int(math.Pow(gridBudget, 1/float64(freeDims)))
	if p < 3 {
		p = 3
	}
	if p > 25 {
		p = 25
	}
	return p
}
