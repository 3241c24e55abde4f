package opt

import (
	"math"
	"sort"
	"time"
)

// NMConfig holds the Nelder-Mead simplex coefficients and budgets.
type NMConfig struct {
	MaxIterations int
	Reflect       float64 // alpha
	Expand        float64 // gamma
	Contract      float64 // rho
	Shrink        float64 // sigma
	Tolerance     float64
	Patience      int
}

// DefaultNMConfig returns the textbook Nelder-Mead coefficients.
func DefaultNMConfig() NMConfig {
	return NMConfig{
		MaxIterations: 500,
		Reflect:       1.0,
		Expand:        2.0,
		Contract:      0.5,
		Shrink:        0.5,
		Tolerance:     1e-10,
		Patience:      50,
	}
}

// NelderMead is a downhill-simplex local optimizer with vertices projected
// into the box. It is deterministic and cheap to warm-start from a previous
// optimum, which makes it the engine of choice for repeated re-fits over
// resampled datasets.
type NelderMead struct {
	cfg NMConfig
}

// NewNelderMead creates a Nelder-Mead optimizer with the given config.
func NewNelderMead(cfg NMConfig) *NelderMead {
	return &NelderMead{cfg: cfg}
}

// Optimize runs the simplex inside [lower, upper], starting around the
// initial guess when supplied, otherwise around the box center.
func (nm *NelderMead) Optimize(obj Objective, lower, upper, initial []float64) *Result {
	const name = "nelder-mead"
	if err := validateBounds(lower, upper); err != nil {
		return failedResult(name, "invalid bounds: %v", err)
	}

	start := time.Now()
	dim := len(lower)
	evals := 0
	eval := safeObjective(obj, &evals)

	origin := make([]float64, dim)
	if initial != nil {
		copy(origin, initial)
		clampVector(origin, lower, upper)
	} else {
		for j := range origin {
			origin[j] = lower[j] + 0.5*(upper[j]-lower[j])
		}
	}

	// Initial simplex: the origin plus one vertex displaced 5% of the box
	// width along each free axis. Fixed axes (lower == upper) get no vertex
	// displacement and stay pinned.
	verts := [][]float64{append([]float64{}, origin...)}
	for j := 0; j < dim; j++ {
		v := append([]float64{}, origin...)
		step := 0.05 * (upper[j] - lower[j])
		if step == 0 {
			step = 0 // fixed parameter, vertex coincides with the origin
		} else if v[j]+step > upper[j] {
			v[j] -= step
		} else {
			v[j] += step
		}
		verts = append(verts, v)
	}
	costs := make([]float64, len(verts))
	for i, v := range verts {
		costs[i] = eval(v)
	}

	project := func(v []float64) []float64 { return clampVector(v, lower, upper) }

	tracker := NewStagnationTracker(nm.cfg.Patience, nm.cfg.Tolerance)
	iter := 0
	for ; iter < nm.cfg.MaxIterations; iter++ {
		order := make([]int, len(verts))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool { return costs[order[a]] < costs[order[b]] })
		bestI, worstI := order[0], order[len(order)-1]
		secondWorstI := order[len(order)-2]

		// Centroid of all vertices except the worst.
		centroid := make([]float64, dim)
		for _, i := range order[:len(order)-1] {
			for j := 0; j < dim; j++ {
				centroid[j] += verts[i][j]
			}
		}
		for j := 0; j < dim; j++ {
			centroid[j] /= float64(len(verts) - 1)
		}

		reflected := make([]float64, dim)
		for j := 0; j < dim; j++ {
			reflected[j] = centroid[j] + nm.cfg.Reflect*(centroid[j]-verts[worstI][j])
		}
		project(reflected)
		refCost := eval(reflected)

		switch {
		case refCost < costs[bestI]:
			expanded := make([]float64, dim)
			for j := 0; j < dim; j++ {
				expanded[j] = centroid[j] + nm.cfg.Expand*(reflected[j]-centroid[j])
			}
			project(expanded)
			expCost := eval(expanded)
			if expCost < refCost {
				verts[worstI], costs[worstI] = expanded, expCost
			} else {
				verts[worstI], costs[worstI] = reflected, refCost
			}
		case refCost < costs[secondWorstI]:
			verts[worstI], costs[worstI] = reflected, refCost
		default:
			contracted := make([]float64, dim)
			for j := 0; j < dim; j++ {
				contracted[j] = centroid[j] + nm.cfg.Contract*(verts[worstI][j]-centroid[j])
			}
			project(contracted)
			conCost := eval(contracted)
			if conCost < costs[worstI] {
				verts[worstI], costs[worstI] = contracted, conCost
			} else {
				// Shrink every vertex toward the best.
				for i := range verts {
					if i == bestI {
						continue
					}
					for j := 0; j < dim; j++ {
						verts[i][j] = verts[bestI][j] + nm.cfg.Shrink*(verts[i][j]-verts[bestI][j])
					}
					project(verts[i])
					costs[i] = eval(verts[i])
				}
			}
		}

		low, high := costs[0], costs[0]
		for _, c := range costs[1:] {
			low = math.Min(low, c)
			high = math.Max(high, c)
		}
		if tracker.Update(low) {
			iter++
			break
		}
		if high-low < nm.cfg.Tolerance {
			iter++
			break
		}
	}

	bestI := 0
	for i, c := range costs {
		if c < costs[bestI] {
			bestI = i
		}
	}

	return &Result{
		Algorithm:   name,
		BestParams:  append([]float64{}, verts[bestI]...),
		BestCost:    costs[bestI],
		Success:     costs[bestI] < penaltyCost,
		Iterations:  iter,
		Evaluations: evals,
		Elapsed:     time.Since(start),
		History:     tracker.History(),
	}
}
