package loss

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// MLE is the Poisson maximum-likelihood criterion: the negative
// log-likelihood of an inhomogeneous Poisson process over the first
// differences of the cumulative series. Auxiliary count series sum in as
// independent Poisson terms; continuous auxiliary series contribute Gaussian
// terms.
type MLE struct{}

func (MLE) Name() string { return "mle" }

// intensityFloor keeps per-interval Poisson intensities strictly positive.
const intensityFloor = 1e-10

// Supports reports whether the primary increments are non-negative counts,
// the Poisson assumption.
func (MLE) Supports(d *series.Series) bool {
	for _, inc := range d.Increments() {
		if inc < 0 || math.Abs(inc-math.Round(inc)) > 1e-9 {
			return false
		}
	}
	return true
}

// Eval returns the negative log-likelihood.
func (l MLE) Eval(m model.Model, d *series.Series, p []float64) float64 {
	return -l.LogLikelihood(m, d, p)
}

// LogLikelihood sums the per-interval Poisson terms y·lnλ − λ − ln(y!), with
// λ the modeled increment floored at a small ε, across the primary series and
// every predicted auxiliary series.
func (MLE) LogLikelihood(m model.Model, d *series.Series, p []float64) float64 {
	ll := poissonSeriesLogLik(d.T, d.Y, func(t float64) float64 { return m.Eval(t, p) })

	ms, ok := m.(model.MultiSeries)
	if !ok {
		return ll
	}
	for i := 0; i < ms.AuxCount() && i < len(d.Aux); i++ {
		aux := d.Aux[i]
		pred := func(t float64) float64 { return ms.EvalAux(i, t, p) }
		if aux.Kind == series.AuxCounts {
			ll += poissonSeriesLogLik(d.T, aux.Y, pred)
		} else {
			var sse float64
			for j, t := range d.T {
				r := aux.Y[j] - pred(t)
				sse += r * r
			}
			ll += gaussianLogLik(sse, len(d.T))
		}
	}
	return ll
}

// poissonSeriesLogLik evaluates the NHPP log-likelihood of one cumulative
// series against a cumulative mean-value function, differencing both from
// zero at the origin.
func poissonSeriesLogLik(t, y []float64, mean func(float64) float64) float64 {
	var ll float64
	prevObs, prevPred := 0.0, mean(0)
	for i := range t {
		pred := mean(t[i])
		lambda := math.Max(pred-prevPred, intensityFloor)
		obs := y[i] - prevObs
		ll += obs*math.Log(lambda) - lambda - lnFactorial(obs)
		prevObs, prevPred = y[i], pred
	}
	return ll
}

// stirlingCutoff is the count above which ln(y!) switches from direct
// summation to Stirling's approximation.
const stirlingCutoff = 20

// lnFactorial computes ln(y!) by direct summation for small counts and
// Stirling's series above the cutoff, which keeps large counts fast and in
// floating-point range.
func lnFactorial(y float64) float64 {
	n := math.Round(y)
	if n < 0 {
		return 0
	}
	if n <= stirlingCutoff {
		var sum float64
		for i := 2.0; i <= n; i++ {
			sum += math.Log(i)
		}
		return sum
	}
	return n*math.Log(n) - n + 0.5*math.Log(2*math.Pi*n) + 1/(12*n)
}
