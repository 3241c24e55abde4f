package loss

import (
	"gonum.org/v1/gonum/stat"

	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// SSE is the least-squares criterion: the sum of squared residuals between
// observed and modeled cumulative counts. When the model predicts auxiliary
// series, each one contributes its own residual sum, variance-normalized
// against the primary series so no auxiliary series dominates purely because
// of a different numeric scale.
type SSE struct{}

func (SSE) Name() string { return "sse" }

// Supports always holds: least squares applies to any series.
func (SSE) Supports(d *series.Series) bool { return true }

// Eval returns the combined residual sum of squares.
func (SSE) Eval(m model.Model, d *series.Series, p []float64) float64 {
	total := primarySSE(m, d, p)

	ms, ok := m.(model.MultiSeries)
	if !ok || len(d.Aux) == 0 {
		return total
	}
	varY := stat.Variance(d.Y, nil)
	for i := 0; i < ms.AuxCount() && i < len(d.Aux); i++ {
		aux := d.Aux[i]
		var sum float64
		for j, t := range d.T {
			r := aux.Y[j] - ms.EvalAux(i, t, p)
			sum += r * r
		}
		varAux := stat.Variance(aux.Y, nil)
		if varAux > 0 && varY > 0 {
			sum *= varY / varAux
		}
		total += sum
	}
	return total
}

// LogLikelihood derives the Gaussian-equivalent log-likelihood of the
// combined residual sum for AIC/AICc purposes.
func (s SSE) LogLikelihood(m model.Model, d *series.Series, p []float64) float64 {
	return gaussianLogLik(s.Eval(m, d, p), d.Len())
}

func primarySSE(m model.Model, d *series.Series, p []float64) float64 {
	var sum float64
	for i, t := range d.T {
		r := d.Y[i] - m.Eval(t, p)
		sum += r * r
	}
	return sum
}
