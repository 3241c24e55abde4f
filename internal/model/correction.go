package model

import (
	"fmt"
	"math"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// DetectionCorrection couples a detection curve with a lagged correction
// curve: defects are repaired along the same growth shape shifted by a repair
// lag τ. The primary series is the base model's detection curve; the
// predicted auxiliary series is the corrected-defect count base(t − τ). τ is
// appended after the base parameters.
type DetectionCorrection struct {
	Base Model
}

func (m DetectionCorrection) Name() string {
	return fmt.Sprintf("%s-correction", m.Base.Name())
}

func (m DetectionCorrection) ParamNames() []string {
	return append(append([]string{}, m.Base.ParamNames()...), "tau")
}

func (m DetectionCorrection) Eval(t float64, p []float64) float64 {
	return m.Base.Eval(t, p[:len(p)-1])
}

func (m DetectionCorrection) InitialGuess(d *series.Series) []float64 {
	dur := d.Duration()
	if dur <= 0 {
		dur = 1
	}
	return append(m.Base.InitialGuess(d), dur/10)
}

func (m DetectionCorrection) Bounds(d *series.Series) ([]float64, []float64) {
	dur := d.Duration()
	if dur <= 0 {
		dur = 1
	}
	lo, hi := m.Base.Bounds(d)
	return append(lo, 0), append(hi, dur/2)
}

func (m DetectionCorrection) Limit(p []float64) float64 {
	return m.Base.Limit(p[:len(p)-1])
}

// AuxCount reports the single predicted auxiliary series, the corrected
// counts.
func (m DetectionCorrection) AuxCount() int { return 1 }

// EvalAux predicts the corrected-defect curve, zero before the lag elapses.
func (m DetectionCorrection) EvalAux(i int, t float64, p []float64) float64 {
	tau := p[len(p)-1]
	return m.Base.Eval(math.Max(t-tau, 0), p[:len(p)-1])
}
