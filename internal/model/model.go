// Package model defines the growth-curve contract and the family of concrete
// software-reliability growth models implementing it. Models are stateless:
// parameter identity is positional and every consumer agrees with the model on
// ordering.
package model

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// Model is the capability contract every growth curve implements. Eval maps
// (time, parameters) to the expected cumulative defect count; InitialGuess and
// Bounds propose a starting point and a box constraint from the observed
// data; Limit reports the curve's asymptote (or +Inf for unbounded curves).
type Model interface {
	Name() string
	ParamNames() []string
	Eval(t float64, p []float64) float64
	InitialGuess(d *series.Series) []float64
	Bounds(d *series.Series) (lower, upper []float64)
	Limit(p []float64) float64
}

// MultiSeries is implemented by models that additionally predict auxiliary
// observed series (repaired-defect counts, cumulative test effort). Auxiliary
// predictions are matched positionally against the dataset's Aux slices.
type MultiSeries interface {
	Model
	AuxCount() int
	EvalAux(i int, t float64, p []float64) float64
}

// dataScale captures the magnitudes every bound heuristic works from.
type dataScale struct {
	yMax float64 // total defects observed so far
	tMax float64 // last observation time
}

func scaleOf(d *series.Series) dataScale {
	s := dataScale{yMax: d.MaxCount(), tMax: d.T[len(d.T)-1]}
	if s.yMax <= 0 {
		s.yMax = 1
	}
	if s.tMax <= 0 {
		s.tMax = 1
	}
	return s
}

// asymptoteBounds is the shared box for a total-defect parameter: wide enough
// above the observed total to let flat curves grow, bounded below so the
// curve can still reach the data.
func (s dataScale) asymptoteBounds() (lo, hi, init float64) {
	return 0.5 * s.yMax, 20 * s.yMax, 1.2 * s.yMax
}

// rateBounds is the shared box for an exponential decay rate over the
// observation window.
func (s dataScale) rateBounds() (lo, hi, init float64) {
	return 1e-6, 50 / s.tMax, 2 / s.tMax
}

// phi is the standard normal CDF.
func phi(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
