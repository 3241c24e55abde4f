// Package loss converts (model, data, parameters) into the scalar objective
// consumed by the optimizers, under one of two estimation criteria: least
// squares or Poisson maximum likelihood. Each loss derives a log-likelihood
// and the information criteria consistent with its own distributional
// assumption.
package loss

import (
	"fmt"
	"math"

	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// Loss is the estimation criterion contract. Eval is the scalar the
// optimizers minimize; LogLikelihood feeds the information criteria.
// Supports reports whether the criterion's distributional assumption holds
// for the dataset.
type Loss interface {
	Name() string
	Eval(m model.Model, d *series.Series, p []float64) float64
	LogLikelihood(m model.Model, d *series.Series, p []float64) float64
	Supports(d *series.Series) bool
}

// ByName resolves a loss by name: "sse" or "mle".
func ByName(name string) (Loss, error) {
	switch name {
	case "sse", "":
		return SSE{}, nil
	case "mle":
		return MLE{}, nil
	}
	return nil, fmt.Errorf("unknown loss: %q", name)
}

// AIC is the Akaike information criterion 2k − 2·lnL for a model with k
// estimated parameters.
func AIC(logLik float64, k int) float64 {
	return 2*float64(k) - 2*logLik
}

// AICc is the small-sample corrected AIC. When n ≤ k+1 the correction is
// undefined; NaN is returned as the invalid sentinel rather than an error so
// batch fitting can carry on.
func AICc(logLik float64, k, n int) float64 {
	if n <= k+1 {
		return math.NaN()
	}
	kf := float64(k)
	return AIC(logLik, k) + 2*kf*(kf+1)/float64(n-k-1)
}

// gaussianLogLik is the profiled Gaussian log-likelihood of a residual sum of
// squares over n observations.
func gaussianLogLik(sse float64, n int) float64 {
	if n == 0 {
		return 0
	}
	nf := float64(n)
	if sse <= 0 {
		// A perfect fit has unbounded Gaussian likelihood; floor the
		// variance at a tiny value to keep the criterion finite.
		sse = 1e-12
	}
	return -nf / 2 * (math.Log(2*math.Pi) + math.Log(sse/nf) + 1)
}
