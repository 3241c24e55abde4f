package model

import (
	"gonum.org/v1/gonum/stat"

	"github.com/zredjet/bugcurvefit/internal/series"
)

// Derived helpers over the Model contract. Diagnostics, report generation,
// and resampling services consume models exclusively through Eval plus these
// wrappers.

// Predict evaluates the model over the given times.
func Predict(m Model, times, p []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = m.Eval(t, p)
	}
	return out
}

// SSE returns the sum of squared residuals of the model against the primary
// series.
func SSE(m Model, d *series.Series, p []float64) float64 {
	var sum float64
	for i, t := range d.T {
		r := d.Y[i] - m.Eval(t, p)
		sum += r * r
	}
	return sum
}

// MSE returns the mean squared error of the model against the primary series.
func MSE(m Model, d *series.Series, p []float64) float64 {
	return SSE(m, d, p) / float64(d.Len())
}

// RSquared returns the coefficient of determination of the model against the
// primary series.
func RSquared(m Model, d *series.Series, p []float64) float64 {
	mean := stat.Mean(d.Y, nil)
	var sst float64
	for _, y := range d.Y {
		dev := y - mean
		sst += dev * dev
	}
	if sst == 0 {
		return 0
	}
	return 1 - SSE(m, d, p)/sst
}
