package opt

import (
	"log/slog"
	"sync"
	"time"
)

// AutoSelect runs every configured optimizer once on the same objective,
// bounds, and initial guess, and keeps the best feasible result. Runs execute
// concurrently; they share only read-only inputs and each algorithm owns its
// random state.
type AutoSelect struct {
	optimizers []Optimizer
}

// NewAutoSelect creates an auto-selecting composite over the given
// optimizers. With no optimizers supplied, the full default roster of all six
// algorithms is used.
func NewAutoSelect(optimizers ...Optimizer) *AutoSelect {
	if len(optimizers) == 0 {
		optimizers = DefaultRoster(42)
	}
	return &AutoSelect{optimizers: optimizers}
}

// DefaultRoster returns one instance of each of the six algorithms with
// default settings, seeded from the given base seed.
func DefaultRoster(seed int64) []Optimizer {
	de := DefaultDEConfig()
	de.Seed = seed
	cma := DefaultCMAESConfig()
	cma.Seed = seed + 1
	pso := DefaultPSOConfig()
	pso.Seed = seed + 2
	gwo := DefaultGWOConfig()
	gwo.Seed = seed + 3
	return []Optimizer{
		NewDifferentialEvolution(de),
		NewCMAES(cma),
		NewParticleSwarm(pso),
		NewGreyWolf(gwo),
		NewNelderMead(DefaultNMConfig()),
		NewGridGradient(DefaultGridGradientConfig()),
	}
}

// Optimize runs all configured optimizers and returns the best feasible
// result, labeled with the winning algorithm. When every run fails, the
// failure of the first optimizer is returned.
func (as *AutoSelect) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	start := time.Now()
	results := make([]*Result, len(as.optimizers))

	var wg sync.WaitGroup
	for i, o := range as.optimizers {
		wg.Add(1)
		go func(i int, o Optimizer) {
			defer wg.Done()
			results[i] = o.Optimize(obj, lower, upper, initial)
		}(i, o)
	}
	wg.Wait()

	var best *Result
	for _, r := range results {
		if !Feasible(r, lower, upper) {
			continue
		}
		if best == nil || r.BestCost < best.BestCost {
			best = r
		}
	}
	if best == nil {
		failed := failedResult("auto-select", "all optimizers failed")
		if len(results) > 0 && results[0] != nil {
			failed.Message = results[0].Message
		}
		failed.Elapsed = time.Since(start)
		return failed
	}

	slog.Debug("auto-select finished",
		"winner", best.Algorithm,
		"best_cost", best.BestCost,
		"candidates", len(results),
	)

	// Report wall time of the whole fan-out, not just the winner's run.
	winner := *best
	winner.Elapsed = time.Since(start)
	return &winner
}
