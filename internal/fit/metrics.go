package fit

import (
	"math"

	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// holdoutMetrics scores the fitted curve against held-out observations.
func holdoutMetrics(m model.Model, test *series.Series, p []float64) *HoldoutMetrics {
	var sse, sae, sape float64
	var apeCount int
	for i, t := range test.T {
		pred := m.Eval(t, p)
		r := test.Y[i] - pred
		sse += r * r
		sae += math.Abs(r)
		if test.Y[i] != 0 {
			sape += math.Abs(r / test.Y[i])
			apeCount++
		}
	}
	n := float64(test.Len())
	h := &HoldoutMetrics{
		MSE: sse / n,
		MAE: sae / n,
	}
	if apeCount > 0 {
		h.MAPE = 100 * sape / float64(apeCount)
	}
	return h
}
