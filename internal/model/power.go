package model

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// MusaOkumoto is the logarithmic Poisson model m(t) = a·ln(1 + bt); defect
// discovery never saturates, so the asymptotic limit is unbounded.
type MusaOkumoto struct{}

func (MusaOkumoto) Name() string         { return "musa-okumoto" }
func (MusaOkumoto) ParamNames() []string { return []string{"a", "b"} }

func (MusaOkumoto) Eval(t float64, p []float64) float64 {
	return p[0] * math.Log1p(p[1]*t)
}

func (MusaOkumoto) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	return []float64{s.yMax / math.Ln2, 1 / s.tMax}
}

func (MusaOkumoto) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	return []float64{0.01 * s.yMax, 1e-6}, []float64{100 * s.yMax, 100 / s.tMax}
}

func (MusaOkumoto) Limit(p []float64) float64 { return math.Inf(1) }

// Duane is the power-law growth model m(t) = a·t^b from hardware reliability
// growth; unbounded.
type Duane struct{}

func (Duane) Name() string         { return "duane" }
func (Duane) ParamNames() []string { return []string{"a", "b"} }

func (Duane) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	return p[0] * math.Pow(t, p[1])
}

func (Duane) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	return []float64{s.yMax / math.Sqrt(s.tMax), 0.5}
}

func (Duane) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	return []float64{1e-6, 0.05}, []float64{10 * s.yMax, 3}
}

func (Duane) Limit(p []float64) float64 { return math.Inf(1) }

// ModifiedDuane is the bounded Duane variant m(t) = a(1 - (b/(b+t))^c).
type ModifiedDuane struct{}

func (ModifiedDuane) Name() string         { return "modified-duane" }
func (ModifiedDuane) ParamNames() []string { return []string{"a", "b", "c"} }

func (ModifiedDuane) Eval(t float64, p []float64) float64 {
	return p[0] * (1 - math.Pow(p[1]/(p[1]+t), p[2]))
}

func (ModifiedDuane) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, s.tMax, 1}
}

func (ModifiedDuane) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 1e-3, 0.1}, []float64{aHi, 100 * s.tMax, 10}
}

func (ModifiedDuane) Limit(p []float64) float64 { return p[0] }

// LogPower is the log-power model m(t) = a·(ln(1 + t))^b; unbounded.
type LogPower struct{}

func (LogPower) Name() string         { return "log-power" }
func (LogPower) ParamNames() []string { return []string{"a", "b"} }

func (LogPower) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	return p[0] * math.Pow(math.Log1p(t), p[1])
}

func (LogPower) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	return []float64{s.yMax / math.Log1p(s.tMax), 1}
}

func (LogPower) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	return []float64{1e-6, 0.1}, []float64{10 * s.yMax, 5}
}

func (LogPower) Limit(p []float64) float64 { return math.Inf(1) }
