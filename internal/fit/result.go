// Package fit orchestrates fitting one growth model to one dataset: it
// resolves the estimation criterion, obtains bounds and a starting point from
// the model, delegates the search to an optimizer, and scores the outcome for
// model selection. The unit of failure is one (model, dataset) pair; batch
// fitting never aborts because one model fails.
package fit

import (
	"fmt"

	"github.com/zredjet/bugcurvefit/internal/opt"
)

// Criterion identifies the model-selection score attached to a fit.
type Criterion string

const (
	// CriterionAIC ranks by plain AIC, used when the sample is large
	// relative to the parameter count.
	CriterionAIC Criterion = "aic"
	// CriterionAICc ranks by small-sample corrected AIC, used when
	// n/k < 40 (the Burnham & Anderson heuristic).
	CriterionAICc Criterion = "aicc"
	// CriterionInvalid marks a fit whose selection score is undefined
	// (n ≤ k+1). Such results are excluded from best-model ranking.
	CriterionInvalid Criterion = "invalid"
)

// HoldoutMetrics scores predictions on held-out observations.
type HoldoutMetrics struct {
	MSE  float64 `json:"mse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"` // percent
}

// Result aggregates the outcome of fitting one model to one dataset. It is
// the surface every downstream consumer (reports, charts, diagnostics,
// resampling services) reads verbatim.
type Result struct {
	Model      string    `json:"model"`
	Loss       string    `json:"loss"`
	ParamNames []string  `json:"paramNames,omitempty"`
	Params     []float64 `json:"params,omitempty"`

	RSquared  float64   `json:"rSquared"`
	MSE       float64   `json:"mse"`
	AIC       float64   `json:"aic"`
	AICc      float64   `json:"aicc"`
	Score     float64   `json:"score"` // value of the chosen criterion
	Criterion Criterion `json:"criterion"`

	// Limit is the model's asymptotic defect count; +Inf for unbounded
	// curves.
	Limit float64 `json:"limit"`

	// PredTimes/PredValues are the fitted curve sampled at the observation
	// times.
	PredTimes  []float64 `json:"predTimes,omitempty"`
	PredValues []float64 `json:"predValues,omitempty"`

	Holdout *HoldoutMetrics `json:"holdout,omitempty"`

	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// Optimization carries the raw optimizer outcome for diagnostics.
	Optimization *opt.Result `json:"-"`
}

// AddWarning appends a warning to the result. The list is append-only: core
// warnings (loss fallback, holdout quality) come first, callers add their own
// diagnostic warnings after.
func (r *Result) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Ranked reports whether the result participates in best-model ranking.
func (r *Result) Ranked() bool {
	return r.Success && r.Criterion != CriterionInvalid
}

func failedFit(modelName, lossName, format string, args ...any) *Result {
	return &Result{
		Model:     modelName,
		Loss:      lossName,
		Criterion: CriterionInvalid,
		Success:   false,
		Message:   fmt.Sprintf(format, args...),
	}
}
