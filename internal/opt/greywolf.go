package opt

import (
	"math"
	"math/rand"
	"time"
)

// GWOConfig holds the hyperparameters for grey-wolf optimization.
type GWOConfig struct {
	PackSize      int
	MaxIterations int
	Tolerance     float64
	Patience      int
	Seed          int64
}

// DefaultGWOConfig returns the standard grey-wolf settings.
func DefaultGWOConfig() GWOConfig {
	return GWOConfig{
		PackSize:      30,
		MaxIterations: 500,
		Tolerance:     1e-10,
		Patience:      50,
		Seed:          42,
	}
}

// GreyWolf implements the grey-wolf optimizer: the pack encircles the three
// best wolves (alpha, beta, delta) under a control coefficient that decays
// linearly from 2 to 0 over the run, shifting the search from exploration to
// exploitation.
type GreyWolf struct {
	cfg GWOConfig
}

// NewGreyWolf creates a grey-wolf optimizer with the given config.
func NewGreyWolf(cfg GWOConfig) *GreyWolf {
	return &GreyWolf{cfg: cfg}
}

// Optimize runs GWO inside [lower, upper]. Wolf 0 is seeded from the initial
// guess when one is supplied.
func (g *GreyWolf) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "grey-wolf"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(g.cfg.Seed))
	dim := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)

	pack := make([][]float64, g.cfg.PackSize)
	cost := make([]float64, g.cfg.PackSize)
	for i := range pack {
		pack[i] = make([]float64, dim)
		for j := range pack[i] {
			pack[i][j] = lower[j] + rng.Float64()*(upper[j]-lower[j])
		}
	}
	if initial != nil {
		copy(pack[0], initial)
		clampVector(pack[0], lower, upper)
	}

	alpha := make([]float64, dim)
	beta := make([]float64, dim)
	delta := make([]float64, dim)
	alphaCost, betaCost, deltaCost := penaltyCost, penaltyCost, penaltyCost

	rank := func(i int) {
		switch {
		case cost[i] < alphaCost:
			deltaCost, delta = betaCost, append(delta[:0], beta...)
			betaCost, beta = alphaCost, append(beta[:0], alpha...)
			alphaCost = cost[i]
			alpha = append(alpha[:0], pack[i]...)
		case cost[i] < betaCost:
			deltaCost, delta = betaCost, append(delta[:0], beta...)
			betaCost = cost[i]
			beta = append(beta[:0], pack[i]...)
		case cost[i] < deltaCost:
			deltaCost = cost[i]
			delta = append(delta[:0], pack[i]...)
		}
	}
	for i := range pack {
		cost[i] = eval(pack[i])
		rank(i)
	}

	tracker := NewStagnationTracker(g.cfg.Patience, g.cfg.Tolerance)
	iter := 0
	for ; iter < g.cfg.MaxIterations; iter++ {
		a := 2 * (1 - float64(iter)/float64(g.cfg.MaxIterations))

		for i := range pack {
			for j := 0; j < dim; j++ {
				x1 := hunt(rng, a, alpha[j], pack[i][j])
				x2 := hunt(rng, a, beta[j], pack[i][j])
				x3 := hunt(rng, a, delta[j], pack[i][j])
				pack[i][j] = clamp((x1+x2+x3)/3, lower[j], upper[j])
			}
			cost[i] = eval(pack[i])
			rank(i)
		}

		if tracker.Update(alphaCost) {
			iter++
			break
		}
	}

	return &Result{
		Algorithm:   name,
		BestParams:  append([]float64{}, alpha...),
		BestCost:    alphaCost,
		Success:     alphaCost < penaltyCost,
		Iterations:  iter,
		Evaluations: evals,
		Elapsed:     time.Since(start),
		History:     tracker.History(),
	}
}

// hunt computes one leader's pull on a wolf coordinate under the encircling
// update rule.
func hunt(rng *rand.Rand, a, leader, wolf float64) float64 {
	aCoef := a * (2*rng.Float64() - 1)
	cCoef := 2 * rng.Float64()
	dist := math.Abs(cCoef*leader - wolf)
	return leader - aCoef*dist
}
