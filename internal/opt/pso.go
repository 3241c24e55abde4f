package opt

import (
	"math/rand"
	"time"
)

// PSOConfig holds the hyperparameters for particle swarm optimization.
type PSOConfig struct {
	SwarmSize     int
	MaxIterations int
	Inertia       float64
	Cognitive     float64 // pull toward a particle's personal best
	Social        float64 // pull toward the swarm's global best
	Tolerance     float64
	Patience      int
	Seed          int64
}

// DefaultPSOConfig returns the constriction-style standard settings.
func DefaultPSOConfig() PSOConfig {
	return PSOConfig{
		SwarmSize:     40,
		MaxIterations: 500,
		Inertia:       0.729,
		Cognitive:     1.49445,
		Social:        1.49445,
		Tolerance:     1e-10,
		Patience:      50,
		Seed:          42,
	}
}

// ParticleSwarm is a global-best PSO with positions clamped to the box and
// velocities zeroed on boundary contact.
type ParticleSwarm struct {
	cfg PSOConfig
}

// NewParticleSwarm creates a PSO optimizer with the given config.
func NewParticleSwarm(cfg PSOConfig) *ParticleSwarm {
	return &ParticleSwarm{cfg: cfg}
}

// Optimize runs PSO inside [lower, upper]. Particle 0 is seeded from the
// initial guess when one is supplied.
func (p *ParticleSwarm) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "particle-swarm"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(p.cfg.Seed))
	dim := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)

	span := make([]float64, dim)
	for j := range span {
		span[j] = upper[j] - lower[j]
	}

	pos := make([][]float64, p.cfg.SwarmSize)
	vel := make([][]float64, p.cfg.SwarmSize)
	bestPos := make([][]float64, p.cfg.SwarmSize)
	bestCost := make([]float64, p.cfg.SwarmSize)
	for i := range pos {
		pos[i] = make([]float64, dim)
		vel[i] = make([]float64, dim)
		for j := range pos[i] {
			pos[i][j] = lower[j] + rng.Float64()*span[j]
			vel[i][j] = (rng.Float64() - 0.5) * span[j] * 0.1
		}
	}
	if initial != nil {
		copy(pos[0], initial)
		clampVector(pos[0], lower, upper)
	}

	globalBest := make([]float64, dim)
	globalCost := penaltyCost
	for i := range pos {
		c := eval(pos[i])
		bestPos[i] = append([]float64{}, pos[i]...)
		bestCost[i] = c
		if c < globalCost {
			globalCost = c
			copy(globalBest, pos[i])
		}
	}

	tracker := NewStagnationTracker(p.cfg.Patience, p.cfg.Tolerance)
	iter := 0
	for ; iter < p.cfg.MaxIterations; iter++ {
		for i := range pos {
			for j := 0; j < dim; j++ {
				r1, r2 := rng.Float64(), rng.Float64()
				vel[i][j] = p.cfg.Inertia*vel[i][j] +
					p.cfg.Cognitive*r1*(bestPos[i][j]-pos[i][j]) +
					p.cfg.Social*r2*(globalBest[j]-pos[i][j])
				// Velocity clamp keeps particles from overshooting the box
				// by more than its own width.
				vel[i][j] = clamp(vel[i][j], -span[j], span[j])
				pos[i][j] += vel[i][j]
				if pos[i][j] < lower[j] {
					pos[i][j] = lower[j]
					vel[i][j] = 0
				} else if pos[i][j] > upper[j] {
					pos[i][j] = upper[j]
					vel[i][j] = 0
				}
			}

			c := eval(pos[i])
			if c < bestCost[i] {
				bestCost[i] = c
				copy(bestPos[i], pos[i])
				if c < globalCost {
					globalCost = c
					copy(globalBest, pos[i])
				}
			}
		}

		if tracker.Update(globalCost) {
			iter++
			break
		}
	}

	return &Result{
		Algorithm:   name,
		BestParams:  globalBest,
		BestCost:    globalCost,
		Success:     globalCost < penaltyCost,
		Iterations:  iter,
		Evaluations: evals,
		Elapsed:     time.Since(start),
		History:     tracker.History(),
	}
}
