package opt

import (
	"math/rand"
	"time"
)

// DEConfig holds the hyperparameters for differential evolution.
type DEConfig struct {
	PopulationSize int
	MaxIterations  int
	Weight         float64 // differential weight F, jittered each generation
	CrossoverRate  float64 // binomial crossover rate CR
	Tolerance      float64
	Patience       int // generations without improvement before stopping
	Seed           int64
}

// DefaultDEConfig returns the standard DE/rand/1/bin settings.
func DefaultDEConfig() DEConfig {
	return DEConfig{
		PopulationSize: 50,
		MaxIterations:  500,
		Weight:         0.8,
		CrossoverRate:  0.9,
		Tolerance:      1e-10,
		Patience:       50,
		Seed:           42,
	}
}

// DifferentialEvolution is a DE/rand/1/bin optimizer with an out-of-bound
// repair that bounces trial genes back toward the target's own value instead
// of clamping to the boundary, preserving population diversity.
type DifferentialEvolution struct {
	cfg DEConfig
}

// NewDifferentialEvolution creates a DE optimizer with the given config.
func NewDifferentialEvolution(cfg DEConfig) *DifferentialEvolution {
	return &DifferentialEvolution{cfg: cfg}
}

// Optimize runs DE inside [lower, upper]. Population member 0 is seeded from
// the initial guess when one is supplied.
func (de *DifferentialEvolution) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "differential-evolution"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(de.cfg.Seed))
	dim := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)

	popSize := de.cfg.PopulationSize
	if popSize < 4 {
		popSize = 4 // rand/1 mutation needs three donors plus the target
	}
	pop := make([][]float64, popSize)
	cost := make([]float64, popSize)
	for i := range pop {
		pop[i] = make([]float64, dim)
		for j := range pop[i] {
			pop[i][j] = lower[j] + rng.Float64()*(upper[j]-lower[j])
		}
	}
	if initial != nil {
		copy(pop[0], initial)
		clampVector(pop[0], lower, upper)
	}
	bestIdx := 0
	for i := range pop {
		cost[i] = eval(pop[i])
		if cost[i] < cost[bestIdx] {
			bestIdx = i
		}
	}
	best := append([]float64{}, pop[bestIdx]...)
	bestCost := cost[bestIdx]

	tracker := NewStagnationTracker(de.cfg.Patience, de.cfg.Tolerance)
	trial := make([]float64, dim)
	iter := 0
	for ; iter < de.cfg.MaxIterations; iter++ {
		// Jitter F each generation to decorrelate step lengths.
		f := de.cfg.Weight + 0.2*(rng.Float64()-0.5)

		for i := range pop {
			r1, r2, r3 := pickThree(rng, len(pop), i)
			jRand := rng.Intn(dim)
			for j := 0; j < dim; j++ {
				if rng.Float64() < de.cfg.CrossoverRate || j == jRand {
					trial[j] = pop[r1][j] + f*(pop[r2][j]-pop[r3][j])
				} else {
					trial[j] = pop[i][j]
				}
				// Bounce out-of-bound genes back toward the target's
				// current value rather than onto the boundary.
				if trial[j] < lower[j] {
					trial[j] = pop[i][j] + rng.Float64()*(lower[j]-pop[i][j])
				} else if trial[j] > upper[j] {
					trial[j] = pop[i][j] + rng.Float64()*(upper[j]-pop[i][j])
				}
				trial[j] = clamp(trial[j], lower[j], upper[j])
			}

			trialCost := eval(trial)
			if trialCost <= cost[i] {
				copy(pop[i], trial)
				cost[i] = trialCost
				if trialCost < bestCost {
					bestCost = trialCost
					copy(best, pop[i])
				}
			}
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

// pickThree draws three distinct population indices, all different from skip.
func pickThree(rng *rand.Rand, n, skip int) (int, int, int) {
	idx := [3]int{-1, -1, -1}
	for k := 0; k < 3; k++ {
		for {
			c := rng.Intn(n)
			if c == skip || c == idx[0] || c == idx[1] {
				continue
			}
			idx[k] = c
			break
		}
	}
	return idx[0], idx[1], idx[2]
}
