package model

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// GoelOkumoto is the exponential NHPP model m(t) = a(1 - e^(-bt)), the
// baseline concave SRGM.
type GoelOkumoto struct{}

func (GoelOkumoto) Name() string         { return "exponential" }
func (GoelOkumoto) ParamNames() []string { return []string{"a", "b"} }

func (GoelOkumoto) Eval(t float64, p []float64) float64 {
	return p[0] * (1 - math.Exp(-p[1]*t))
}

func (GoelOkumoto) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, b := s.rateBounds()
	return []float64{a, b}
}

func (GoelOkumoto) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	bLo, bHi, _ := s.rateBounds()
	return []float64{aLo, bLo}, []float64{aHi, bHi}
}

func (GoelOkumoto) Limit(p []float64) float64 { return p[0] }

// DelayedSShaped is the Yamada delayed S-shaped model
// m(t) = a(1 - (1 + bt)e^(-bt)), modeling a detection lag behind failure
// exposure.
type DelayedSShaped struct{}

func (DelayedSShaped) Name() string         { return "delayed-s-shaped" }
func (DelayedSShaped) ParamNames() []string { return []string{"a", "b"} }

func (DelayedSShaped) Eval(t float64, p []float64) float64 {
	bt := p[1] * t
	return p[0] * (1 - (1+bt)*math.Exp(-bt))
}

func (DelayedSShaped) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, b := s.rateBounds()
	return []float64{a, b}
}

func (DelayedSShaped) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	bLo, bHi, _ := s.rateBounds()
	return []float64{aLo, bLo}, []float64{aHi, bHi}
}

func (DelayedSShaped) Limit(p []float64) float64 { return p[0] }

// InflectionSShaped is the Ohba inflection S-shaped model
// m(t) = a(1 - e^(-bt)) / (1 + c·e^(-bt)); c controls how strongly early
// detections uncover further defects.
type InflectionSShaped struct{}

func (InflectionSShaped) Name() string         { return "inflection-s-shaped" }
func (InflectionSShaped) ParamNames() []string { return []string{"a", "b", "c"} }

func (InflectionSShaped) Eval(t float64, p []float64) float64 {
	e := math.Exp(-p[1] * t)
	return p[0] * (1 - e) / (1 + p[2]*e)
}

func (InflectionSShaped) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, b := s.rateBounds()
	return []float64{a, b, 2}
}

func (InflectionSShaped) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	bLo, bHi, _ := s.rateBounds()
	return []float64{aLo, bLo, 0}, []float64{aHi, bHi, 100}
}

func (InflectionSShaped) Limit(p []float64) float64 { return p[0] }

// ThreeStageErlang models defect discovery as a three-stage Erlang process:
// m(t) = a(1 - (1 + bt + (bt)²/2)e^(-bt)).
type ThreeStageErlang struct{}

func (ThreeStageErlang) Name() string         { return "three-stage-erlang" }
func (ThreeStageErlang) ParamNames() []string { return []string{"a", "b"} }

func (ThreeStageErlang) Eval(t float64, p []float64) float64 {
	bt := p[1] * t
	return p[0] * (1 - (1+bt+bt*bt/2)*math.Exp(-bt))
}

func (ThreeStageErlang) InitialGuess(d *series.Series) []float64 {
	s := scaleOf(d)
	_, _, a := s.asymptoteBounds()
	_, _, b := s.rateBounds()
	return []float64{a, b}
}

func (ThreeStageErlang) Bounds(d *series.Series) ([]float64, []float64) {
	s := scaleOf(d)
	aLo, aHi, _ := s.asymptoteBounds()
	bLo, bHi, _ := s.rateBounds()
	return []float64{aLo, bLo}, []float64{aHi, bHi}
}

func (ThreeStageErlang) Limit(p []float64) float64 { return p[0] }
