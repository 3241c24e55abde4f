package fit

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/zredjet/bugcurvefit/internal/loss"
	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/opt"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// selectionRatioCutoff is the n/k threshold below which AICc is preferred
// over AIC (Burnham & Anderson).
const selectionRatioCutoff = 40

// holdoutWarnMAPE is the held-out MAPE (percent) above which a quality
// warning is attached to the result.
const holdoutWarnMAPE = 20.0

// Options configures a fitting run. The zero value fits with least squares
// and a default differential-evolution search.
type Options struct {
	// Loss selects the estimation criterion: "sse" (default) or "mle".
	Loss string

	// Optimizer performs the bounded search. Nil selects differential
	// evolution with default settings seeded from Seed.
	Optimizer opt.Optimizer

	// Holdout reserves the last h observations for validation only; the
	// model is trained on the prefix and scored on the suffix.
	Holdout int

	// Seed seeds the default optimizer and derives per-model seeds in
	// batch runs.
	Seed int64
}

func (o Options) optimizer(seedOffset int64) opt.Optimizer {
	if o.Optimizer != nil {
		return o.Optimizer
	}
	cfg := opt.DefaultDEConfig()
	cfg.Seed = o.Seed + seedOffset
	return opt.NewDifferentialEvolution(cfg)
}

// Fit fits one model to one dataset. Failures of any kind are reported in
// the result, never as a panic: a batch of candidate models must continue
// past one model's failure.
func Fit(m model.Model, d *series.Series, opts Options) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failedFit(m.Name(), opts.Loss, "fit panicked: %v", r)
		}
	}()
	return fitOne(m, d, opts, 0)
}

func fitOne(m model.Model, d *series.Series, opts Options, seedOffset int64) *Result {
	if err := d.Validate(); err != nil {
		return failedFit(m.Name(), opts.Loss, "invalid series: %v", err)
	}

	lf, err := loss.ByName(opts.Loss)
	if err != nil {
		return failedFit(m.Name(), opts.Loss, "%v", err)
	}
	res := &Result{Model: m.Name(), Loss: lf.Name(), ParamNames: m.ParamNames()}
	if !lf.Supports(d) {
		// Both criteria are supported by every model, but not by every
		// dataset: Poisson likelihood needs count-valued increments.
		res.AddWarning("loss %q does not support this series, falling back to sse", lf.Name())
		lf = loss.SSE{}
		res.Loss = lf.Name()
	}

	train, test := d.Split(opts.Holdout)
	lower, upper := m.Bounds(train)
	initial := m.InitialGuess(train)
	if len(lower) != len(initial) {
		return failedFit(m.Name(), res.Loss, "model %s proposed %d bounds for %d parameters", m.Name(), len(lower), len(initial))
	}

	objective := func(p []float64) float64 {
		return lf.Eval(m, train, p)
	}

	optimizer := opts.optimizer(seedOffset)
	run := optimizer.Optimize(objective, lower, upper, initial)
	res.Optimization = run
	if !run.Success {
		res.Message = run.Message
		if res.Message == "" {
			res.Message = "optimization failed"
		}
		res.Criterion = CriterionInvalid
		return res
	}

	// Fit-quality metrics are recomputed over the full series, not just the
	// training slice, so reported scores describe all observed data.
	p := run.BestParams
	res.Params = p
	res.RSquared = model.RSquared(m, d, p)
	res.MSE = model.MSE(m, d, p)
	res.Limit = m.Limit(p)
	res.PredTimes = append([]float64{}, d.T...)
	res.PredValues = model.Predict(m, d.T, p)

	k := len(p)
	n := d.Len()
	ll := lf.LogLikelihood(m, d, p)
	res.AIC = loss.AIC(ll, k)
	res.AICc = loss.AICc(ll, k, n)

	switch {
	case n <= k+1:
		res.Criterion = CriterionInvalid
		res.AddWarning("sample too small for selection: n=%d with k=%d parameters", n, k)
	case float64(n)/float64(k) < selectionRatioCutoff:
		res.Criterion = CriterionAICc
		res.Score = res.AICc
	default:
		res.Criterion = CriterionAIC
		res.Score = res.AIC
	}

	if test != nil {
		res.Holdout = holdoutMetrics(m, test, p)
		if res.Holdout.MAPE > holdoutWarnMAPE {
			res.AddWarning("holdout MAPE %.1f%% exceeds %.0f%%", res.Holdout.MAPE, holdoutWarnMAPE)
		}
	}

	res.Success = true
	slog.Debug("model fitted",
		"model", m.Name(),
		"loss", res.Loss,
		"algorithm", run.Algorithm,
		"cost", run.BestCost,
		"r_squared", res.RSquared,
		"criterion", res.Criterion,
	)
	return res
}

// FitAll fits every candidate model to the dataset and returns one result
// per model in input order. Models are fitted concurrently; each run derives
// its own seed so random streams stay independent. A model's failure never
// aborts the batch.
func FitAll(models []model.Model, d *series.Series, opts Options) []*Result {
	results := make([]*Result, len(models))
	workers := runtime.NumCPU()
	if workers > len(models) {
		workers = len(models)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				m := models[i]
				func() {
					defer func() {
						if r := recover(); r != nil {
							results[i] = failedFit(m.Name(), opts.Loss, "fit panicked: %v", r)
						}
					}()
					results[i] = fitOne(m, d, opts, int64(i))
				}()
			}
		}()
	}
	for i := range models {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// Best returns the ranked result with the lowest selection score, or an
// error when no result is rankable.
func Best(results []*Result) (*Result, error) {
	var best *Result
	for _, r := range results {
		if r == nil || !r.Ranked() {
			continue
		}
		if best == nil || r.Score < best.Score {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no successful fit to rank")
	}
	return best, nil
}
