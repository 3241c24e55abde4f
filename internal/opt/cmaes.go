package opt

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// CMAESConfig holds the hyperparameters for CMA-ES. Population size and parent
// count are derived from the problem dimensionality.
type CMAESConfig struct {
	MaxIterations int
	InitialStep   float64 // initial global step size in the transformed space
	Tolerance     float64
	Patience      int
	Seed          int64
}

// DefaultCMAESConfig returns the standard CMA-ES settings.
func DefaultCMAESConfig() CMAESConfig {
	return CMAESConfig{
		MaxIterations: 500,
		InitialStep:   0.5,
		Tolerance:     1e-10,
		Patience:      50,
		Seed:          42,
	}
}

// CMAES is a covariance-matrix-adaptation evolution strategy. Box constraints
// are handled by reparameterization: each bounded coordinate is mapped through
// a sigmoid so the whole real line folds into (lower, upper), and the strategy
// itself runs unconstrained.
type CMAES struct {
	cfg CMAESConfig
}

// NewCMAES creates a CMA-ES optimizer with the given config.
func NewCMAES(cfg CMAESConfig) *CMAES {
	return &CMAES{cfg: cfg}
}

// boundTransform maps between the unconstrained strategy space and the
// feasible box via a per-coordinate sigmoid. Fixed coordinates (lower ==
// upper) map to the constant bound in both directions.
type boundTransform struct {
	lower, upper []float64
}

// Decode maps an unconstrained vector into the feasible box.
func (bt boundTransform) Decode(z []float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		span := bt.upper[i] - bt.lower[i]
		if span == 0 {
			x[i] = bt.lower[i]
			continue
		}
		x[i] = bt.lower[i] + span/(1+math.Exp(-v))
	}
	return x
}

// Encode maps a feasible point into the unconstrained space via the logit,
// clipping the unit-interval fraction away from 0 and 1 so the logarithms
// stay finite near the boundary.
func (bt boundTransform) Encode(x []float64) []float64 {
	const clip = 1e-15
	z := make([]float64, len(x))
	for i, v := range x {
		span := bt.upper[i] - bt.lower[i]
		if span == 0 {
			z[i] = 0
			continue
		}
		p := (v - bt.lower[i]) / span
		if p < clip {
			p = clip
		} else if p > 1-clip {
			p = 1 - clip
		}
		z[i] = math.Log(p / (1 - p))
	}
	return z
}

// Optimize runs CMA-ES inside [lower, upper].
func (c *CMAES) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "cma-es"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	rng := rand.New(rand.NewSource(c.cfg.Seed))
	n := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)
	bt := boundTransform{lower: lower, upper: upper}

	// Population and recombination constants derived from dimensionality.
	lambda := 4 + int(3*math.Log(float64(n)))
	if lambda < 6 {
		lambda = 6
	}
	mu := lambda / 2
	weights := make([]float64, mu)
	var wSum float64
	for i := range weights {
		weights[i] = math.Log(float64(mu)+0.5) - math.Log(float64(i+1))
		wSum += weights[i]
	}
	var w2Sum float64
	for i := range weights {
		weights[i] /= wSum
		w2Sum += weights[i] * weights[i]
	}
	muEff := 1 / w2Sum

	fn := float64(n)
	cc := (4 + muEff/fn) / (fn + 4 + 2*muEff/fn)
	cs := (muEff + 2) / (fn + muEff + 5)
	c1 := 2 / ((fn+1.3)*(fn+1.3) + muEff)
	cmu := math.Min(1-c1, 2*(muEff-2+1/muEff)/((fn+2)*(fn+2)+muEff))
	damps := 1 + 2*math.Max(0, math.Sqrt((muEff-1)/(fn+1))-1) + cs
	chiN := math.Sqrt(fn) * (1 - 1/(4*fn) + 1/(21*fn*fn))
	eigenInterval := int(1 / (c1 + cmu) / fn / 10)
	if eigenInterval < 1 {
		eigenInterval = 1
	}

	// Strategy state, all in the transformed space.
	mean := make([]float64, n)
	if initial != nil {
		mean = bt.Encode(clampVector(append([]float64{}, initial...), lower, upper))
	}
	sigma := c.cfg.InitialStep
	cov := identitySym(n)
	b := eyeDense(n)
	d := ones(n)
	ps := make([]float64, n)
	pc := make([]float64, n)

	best := bt.Decode(mean)
	bestCost := eval(best)

	tracker := NewStagnationTracker(c.cfg.Patience, c.cfg.Tolerance)
	type offspring struct {
		z    []float64
		x    []float64
		cost float64
	}
	iter := 0
	for ; iter < c.cfg.MaxIterations; iter++ {
		if iter%eigenInterval == 0 {
			if !factorCovariance(cov, b, d) {
				// Degenerate covariance: reset to identity and keep going.
				cov = identitySym(n)
				b = eyeDense(n)
				d = ones(n)
			}
		}

		kids := make([]offspring, lambda)
		for k := range kids {
			z := make([]float64, n)
			for i := 0; i < n; i++ {
				z[i] = d[i] * rng.NormFloat64()
			}
			step := make([]float64, n)
			for i := 0; i < n; i++ {
				var s float64
				for j := 0; j < n; j++ {
					s += b.At(i, j) * z[j]
				}
				step[i] = mean[i] + sigma*s
			}
			x := bt.Decode(step)
			kids[k] = offspring{z: step, x: x, cost: eval(x)}
		}
		sort.Slice(kids, func(a, b int) bool { return kids[a].cost < kids[b].cost })
		if kids[0].cost < bestCost {
			bestCost = kids[0].cost
			best = append([]float64{}, kids[0].x...)
		}

		oldMean := append([]float64{}, mean...)
		for i := 0; i < n; i++ {
			mean[i] = 0
			for k := 0; k < mu; k++ {
				mean[i] += weights[k] * kids[k].z[i]
			}
		}

		// Step-size path: whitened mean displacement.
		delta := make([]float64, n)
		for i := 0; i < n; i++ {
			delta[i] = (mean[i] - oldMean[i]) / sigma
		}
		white := whiten(b, d, delta)
		csFac := math.Sqrt(cs * (2 - cs) * muEff)
		var psNorm float64
		for i := 0; i < n; i++ {
			ps[i] = (1-cs)*ps[i] + csFac*white[i]
			psNorm += ps[i] * ps[i]
		}
		psNorm = math.Sqrt(psNorm)

		expected := math.Sqrt(1 - math.Pow(1-cs, 2*float64(iter+1)))
		hsig := 0.0
		if psNorm/expected/chiN < 1.4+2/(fn+1) {
			hsig = 1
		}

		ccFac := math.Sqrt(cc * (2 - cc) * muEff)
		for i := 0; i < n; i++ {
			pc[i] = (1-cc)*pc[i] + hsig*ccFac*delta[i]
		}

		// Rank-one plus rank-mu covariance update.
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := (1 - c1 - cmu) * cov.At(i, j)
				v += c1 * (pc[i]*pc[j] + (1-hsig)*cc*(2-cc)*cov.At(i, j))
				for k := 0; k < mu; k++ {
					yi := (kids[k].z[i] - oldMean[i]) / sigma
					yj := (kids[k].z[j] - oldMean[j]) / sigma
					v += cmu * weights[k] * yi * yj
				}
				cov.SetSym(i, j, v)
			}
		}

		sigma *= math.Exp((cs / damps) * (psNorm/chiN - 1))
		sigma = clamp(sigma, 1e-12, 1e4)

		if tracker.Update(bestCost) {
			iter++
			break
		}
		if sigma <= 1e-12 {
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

// factorCovariance eigendecomposes cov into eigenvectors b and per-axis scales
// d (square roots of the eigenvalues). Returns false when the decomposition
// fails or an eigenvalue is not strictly positive.
func factorCovariance(cov *mat.SymDense, b *mat.Dense, d []float64) bool {
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return false
	}
	vals := eig.Values(nil)
	for i, v := range vals {
		if v <= 0 || math.IsNaN(v) {
			return false
		}
		d[i] = math.Sqrt(v)
	}
	eig.VectorsTo(b)
	return true
}

// whiten applies C^(-1/2) = B diag(1/d) B^T to v.
func whiten(b *mat.Dense, d, v []float64) []float64 {
	n := len(v)
	tmp := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += b.At(j, i) * v[j] // B^T v
		}
		tmp[i] = s / d[i]
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += b.At(i, j) * tmp[j]
		}
		out[i] = s
	}
	return out
}

func identitySym(n int) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}
	return s
}

func eyeDense(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
