package model

import (
	"fmt"
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// Effort describes a cumulative test-effort function W(t) consumed by
// effort-based growth models. Effort parameters are appended after the base
// model parameters, keeping parameter identity positional.
type Effort interface {
	Name() string
	ParamNames() []string
	Eval(t float64, p []float64) float64
	InitialGuess(d *series.Series) []float64
	Bounds(d *series.Series) (lower, upper []float64)
}

// ExponentialEffort is W(t) = α(1 - e^(-βt)): effort ramps up fast and
// saturates at a total budget α.
type ExponentialEffort struct{}

func (ExponentialEffort) Name() string         { return "exponential" }
func (ExponentialEffort) ParamNames() []string { return []string{"alpha", "beta"} }

func (ExponentialEffort) Eval(t float64, p []float64) float64 {
	return p[0] * (1 - math.Exp(-p[1]*t))
}

func (ExponentialEffort) InitialGuess(d *series.Series) []float64 {
	return []float64{totalEffort(d), 2 / scaleOf(d).tMax}
}

func (ExponentialEffort) Bounds(d *series.Series) ([]float64, []float64) {
	w := totalEffort(d)
	s := scaleOf(d)
	return []float64{1e-3 * w, 1e-6}, []float64{100 * w, 50 / s.tMax}
}

// RayleighEffort is W(t) = α(1 - e^(-βt²/2)): effort peaks mid-project.
type RayleighEffort struct{}

func (RayleighEffort) Name() string         { return "rayleigh" }
func (RayleighEffort) ParamNames() []string { return []string{"alpha", "beta"} }

func (RayleighEffort) Eval(t float64, p []float64) float64 {
	return p[0] * (1 - math.Exp(-p[1]*t*t/2))
}

func (RayleighEffort) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	return []float64{totalEffort(d), 4 / (s.tMax * s.tMax)}
}

func (RayleighEffort) Bounds(d *series.Series) ([]float64, []float64) {
	w := totalEffort(d)
	return []float64{1e-3 * w, 1e-10}, []float64{100 * w, 100}
}

// totalEffort estimates the effort scale from the first continuous auxiliary
// series when the dataset carries one, falling back to the time span.
func totalEffort(d *series.Series) float64 {
	for _, a := range d.Aux {
		if a.Kind != series.AuxContinuous {
			continue
		}
		w := 0.0
		for _, v := range a.Y {
			w = math.Max(w, v)
		}
		if w > 0 {
			return w
		}
	}
	return scaleOf(d).tMax
}

// TestEffort is the Yamada test-effort-dependent model
// m(t) = a(1 - e^(-r·W(t))): defect discovery is driven by consumed effort
// rather than calendar time. It also predicts W(t) itself as a continuous
// auxiliary series, so an observed effort curve constrains the fit.
type TestEffort struct {
	Effort Effort
}

func (m TestEffort) Name() string {
	return fmt.Sprintf("yamada-%s-effort", m.Effort.Name())
}

func (m TestEffort) ParamNames() []string {
	return append([]string{"a", "r"}, m.Effort.ParamNames()...)
}

func (m TestEffort) Eval(t float64, p []float64) float64 {
	w := m.Effort.Eval(t, p[2:])
	return p[0] * (1 - math.Exp(-p[1]*w))
}

func (m TestEffort) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	guess := []float64{a, 1 / totalEffort(d)}
	return append(guess, m.Effort.InitialGuess(d)...)
}

func (m TestEffort) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	w := totalEffort(d)
	lo := []float64{aLo, 1e-6 / w}
	hi := []float64{aHi, 1e3 / w}
	eLo, eHi := m.Effort.Bounds(d)
	return append(lo, eLo...), append(hi, eHi...)
}

func (m TestEffort) Limit(p []float64) float64 { return p[0] }

// AuxCount reports the single predicted auxiliary series, the effort curve.
func (m TestEffort) AuxCount() int { return 1 }

// EvalAux predicts the cumulative effort W(t).
func (m TestEffort) EvalAux(i int, t float64, p []float64) float64 {
	return m.Effort.Eval(t, p[2:])
}
