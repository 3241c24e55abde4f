package model

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// Gompertz is the Gompertz growth curve m(t) = a·e^(-b·e^(-ct)), an
// asymmetric S-curve with a long early tail.
type Gompertz struct{}

func (Gompertz) Name() string         { return "gompertz" }
func (Gompertz) ParamNames() []string { return []string{"a", "b", "c"} }

func (Gompertz) Eval(t float64, p []float64) float64 {
	return p[0] * math.Exp(-p[1]*math.Exp(-p[2]*t))
}

func (Gompertz) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, c := s.rateBounds()
	return []float64{a, 3, c}
}

func (Gompertz) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	cLo, cHi, _ := s.rateBounds()
	return []float64{aLo, 0.01, cLo}, []float64{aHi, 100, cHi}
}

func (Gompertz) Limit(p []float64) float64 { return p[0] }

// Logistic is the symmetric logistic S-curve m(t) = a / (1 + b·e^(-ct)).
type Logistic struct{}

func (Logistic) Name() string         { return "logistic" }
func (Logistic) ParamNames() []string { return []string{"a", "b", "c"} }

func (Logistic) Eval(t float64, p []float64) float64 {
	return p[0] / (1 + p[1]*math.Exp(-p[2]*t))
}

func (Logistic) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, c := s.rateBounds()
	return []float64{a, 10, c}
}

func (Logistic) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	cLo, cHi, _ := s.rateBounds()
	return []float64{aLo, 0.01, cLo}, []float64{aHi, 1000, cHi}
}

func (Logistic) Limit(p []float64) float64 { return p[0] }

// Richards is the generalized exponential curve m(t) = a(1 - e^(-bt))^c,
// interpolating between concave and S-shaped growth via the shape exponent.
type Richards struct{}

func (Richards) Name() string         { return "richards" }
func (Richards) ParamNames() []string { return []string{"a", "b", "c"} }

func (Richards) Eval(t float64, p []float64) float64 {
	base := 1 - math.Exp(-p[1]*t)
	if base <= 0 {
		return 0
	}
	return p[0] * math.Pow(base, p[2])
}

func (Richards) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, b := s.rateBounds()
	return []float64{a, b, 1}
}

func (Richards) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	bLo, bHi, _ := s.rateBounds()
	return []float64{aLo, bLo, 0.1}, []float64{aHi, bHi, 10}
}

func (Richards) Limit(p []float64) float64 { return p[0] }

// MorganMercerFlodin is the MMF sigmoid m(t) = a·t^c / (b + t^c).
type MorganMercerFlodin struct{}

func (MorganMercerFlodin) Name() string         { return "morgan-mercer-flodin" }
func (MorganMercerFlodin) ParamNames() []string { return []string{"a", "b", "c"} }

func (MorganMercerFlodin) Eval(t float64, p []float64) float64 {
	if t <= 0 {
		return 0
	}
	tc := math.Pow(t, p[2])
	return p[0] * tc / (p[1] + tc)
}

func (MorganMercerFlodin) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	return []float64{a, s.tMax, 2}
}

func (MorganMercerFlodin) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	return []float64{aLo, 1e-6, 0.1}, []float64{aHi, 1e6, 10}
}

func (MorganMercerFlodin) Limit(p []float64) float64 { return p[0] }
