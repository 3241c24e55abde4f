package model

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// Weibull is the Weibull-shaped growth curve m(t) = a(1 - e^(-b·t^c)).
type Weibull struct{}

func (Weibull) Name() string         { return "weibull" }
func (Weibull) ParamNames() []string { return []string{"a", "b", "c"} }

func (Weibull) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	return p[0] * (1 - math.Exp(-p[1]*math.Pow(t, p[2])))
}

func (Weibull) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, 1 / s.tMax, 1}
}

func (Weibull) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 1e-8, 0.1}, []float64{aHi, 100, 5}
}

func (Weibull) Limit(p []float64) float64 { return p[0] }

// Rayleigh is the Rayleigh growth curve m(t) = a(1 - e^(-b·t²)), the Weibull
// shape fixed at 2; it peaks defect discovery mid-project.
type Rayleigh struct{}

func (Rayleigh) Name() string         { return "rayleigh" }
func (Rayleigh) ParamNames() []string { return []string{"a", "b"} }

func (Rayleigh) Eval(t float64, p []float64) float64 {
	return p[0] * (1 - math.Exp(-p[1]*t*t))
}

func (Rayleigh) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, 2 / (s.tMax * s.tMax)}
}

func (Rayleigh) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 1e-10}, []float64{aHi, 100}
}

func (Rayleigh) Limit(p []float64) float64 { return p[0] }

// LogLogistic is the log-logistic growth curve
// m(t) = a·(λt)^κ / (1 + (λt)^κ).
type LogLogistic struct{}

func (LogLogistic) Name() string         { return "log-logistic" }
func (LogLogistic) ParamNames() []string { return []string{"a", "lambda", "kappa"} }

func (LogLogistic) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	v := math.Pow(p[1]*t, p[2])
	return p[0] * v / (1 + v)
}

func (LogLogistic) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, 2 / s.tMax, 2}
}

func (LogLogistic) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 1e-6, 0.5}, []float64{aHi, 100 / s.tMax, 10}
}

func (LogLogistic) Limit(p []float64) float64 { return p[0] }

// LogNormal is the log-normal ogive m(t) = a·Φ((ln t − μ)/σ).
type LogNormal struct{}

func (LogNormal) Name() string         { return "log-normal" }
func (LogNormal) ParamNames() []string { return []string{"a", "mu", "sigma"} }

func (LogNormal) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	return p[0] * phi((math.Log(t)-p[1])/p[2])
}

func (LogNormal) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, math.Log(s.tMax / 2), 1}
}

func (LogNormal) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	mu := math.Log(s.tMax)
	return []float64{aLo, mu - 6, 0.05}, []float64{aHi, mu + 3, 5}
}

func (LogNormal) Limit(p []float64) float64 { return p[0] }

// NormalOgive is the normal-CDF S-curve m(t) = a·Φ((t − μ)/σ).
type NormalOgive struct{}

func (NormalOgive) Name() string         { return "normal-ogive" }
func (NormalOgive) ParamNames() []string { return []string{"a", "mu", "sigma"} }

func (NormalOgive) Eval(t float64, p []float64) float64 {
	return p[0] * phi((t-p[1])/p[2])
}

func (NormalOgive) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, s.tMax / 2, s.tMax / 4}
}

func (NormalOgive) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 0, s.tMax / 100}, []float64{aHi, 2 * s.tMax, 2 * s.tMax}
}

func (NormalOgive) Limit(p []float64) float64 { return p[0] }
