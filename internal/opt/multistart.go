package opt

import (
	"log/slog"
	"math/rand"
	"time"
)

// MultiStartConfig holds the settings for the multi-start strategy.
type MultiStartConfig struct {
	// Starts is the number of starting points to generate. The supplied
	// initial guess and the box center always count toward it.
	Starts int
	Seed   int64
}

// DefaultMultiStartConfig returns the standard multi-start settings.
func DefaultMultiStartConfig() MultiStartConfig {
	return MultiStartConfig{Starts: 5, Seed: 42}
}

// MultiStart seeds one optimizer from several diverse starting points and
// keeps the best feasible result. Several growth-curve objectives are
// multimodal or carry flat ridges near the boundary, so a single local search
// from one seed is not reliable.
type MultiStart struct {
	cfg  MultiStartConfig
	make func(seed int64) Optimizer
}

// NewMultiStart creates a multi-start composite. makeOptimizer constructs a
// fresh optimizer per start so every run owns a private random stream.
func NewMultiStart(cfg MultiStartConfig, makeOptimizer func(seed int64) Optimizer) *MultiStart {
	return &MultiStart{cfg: cfg, make: makeOptimizer}
}

// Optimize generates the starting points, runs one optimizer from each, and
// returns the best feasible result.
func (ms *MultiStart) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "multi-start"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	starts := ms.startingPoints(lower, upper, initial)

	var best *Result
	for i, p := range starts {
		o := ms.make(ms.cfg.Seed + int64(i))
		r := o.Optimize(obj, lower, upper, p)
		if !Feasible(r, lower, upper) {
			continue
		}
		if best == nil || r.BestCost < best.BestCost {
			best = r
		}
	}
	if best == nil {
		failed := failedResult(name, "no start produced a feasible result")
		failed.Elapsed = time.Since(start)
		return failed
	}

	slog.Debug("multi-start finished",
		"starts", len(starts),
		"winner", best.Algorithm,
		"best_cost", best.BestCost,
	)

	winner := *best
	winner.Elapsed = time.Since(start)
	return &winner
}

// startingPoints builds the diverse seed set: the initial guess (if any), the
// box center, stratified Latin-hypercube-like samples, and boundary-biased
// points near the 10% and 90% marks of every dimension.
func (ms *MultiStart) startingPoints(lower, upper, initial []float64) [][]float64 {
	rng := rand.New(rand.NewSource(ms.cfg.Seed))
	dim := len(lower)
	want := ms.cfg.Starts
	if want < 1 {
		want = 1
	}

	var points [][]float64
	if initial != nil {
		points = append(points, clampVector(append([]float64{}, initial...), lower, upper))
	}

	center := make([]float64, dim)
	for j := range center {
		center[j] = lower[j] + 0.5*(upper[j]-lower[j])
	}
	points = append(points, center)

	for _, frac := range []float64{0.1, 0.9} {
		p := make([]float64, dim)
		for j := range p {
			p[j] = lower[j] + frac*(upper[j]-lower[j])
		}
		points = append(points, p)
	}

	// Stratified fill: divide each dimension into equal slabs and jitter one
	// sample per slab, shuffling slab order per dimension.
	remaining := want - len(points)
	if remaining > 0 {
		strata := make([][]int, dim)
		for j := range strata {
			strata[j] = rng.Perm(remaining)
		}
		for s := 0; s < remaining; s++ {
			p := make([]float64, dim)
			for j := range p {
				slab := float64(strata[j][s])
				p[j] = lower[j] + (upper[j]-lower[j])*(slab+rng.Float64())/float64(remaining)
			}
			points = append(points, p)
		}
	}

	// The guess, center, and boundary-biased points all count toward the
	// requested total; trim the excess when Starts is small.
	if len(points) > want {
		points = points[:want]
	}
	return points
}
