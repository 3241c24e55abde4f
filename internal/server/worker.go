package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zredjet/bugcurvefit/internal/fit"
	"github.com/zredjet/bugcurvefit/internal/model"
	"github.com/zredjet/bugcurvefit/internal/opt"
	"github.com/zredjet/bugcurvefit/internal/series"
)

// runJob executes a batch fitting job in the background: it loads the
// dataset, fits every requested model in sequence, and broadcasts one
// progress event per fitted model. Cancellation is checked between models —
// one fit is the coarse-grained unit of work.
func runJob(ctx context.Context, jm *JobManager, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "data", job.Config.DataPath)

	data, err := series.LoadCSV(job.Config.DataPath)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to load dataset: %w", err))
		return err
	}

	models, err := resolveModels(job.Config.Models)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	optimizer, err := opt.ByName(job.Config.Optimizer, job.Config.Seed)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	jm.UpdateJob(jobID, func(j *Job) { j.Total = len(models) })

	slog.Info("Loaded dataset", "job_id", jobID, "observations", data.Len(), "models", len(models))

	opts := fit.Options{
		Loss:      job.Config.Loss,
		Optimizer: optimizer,
		Holdout:   job.Config.Holdout,
		Seed:      job.Config.Seed,
	}

	start := time.Now()
	results := make([]*fit.Result, 0, len(models))
	for i, m := range models {
		select {
		case <-ctx.Done():
			markJobCancelled(jm, jobID)
			return ctx.Err()
		default:
		}

		res := fit.Fit(m, data, opts)
		results = append(results, res)

		best, bestErr := fit.Best(results)
		jm.UpdateJob(jobID, func(j *Job) {
			j.Completed = i + 1
			j.Results = results
			if bestErr == nil {
				j.BestModel = best.Model
				j.BestScore = best.Score
			}
		})

		event := ProgressEvent{
			JobID:     jobID,
			State:     StateRunning,
			Completed: i + 1,
			Total:     len(models),
			Model:     m.Name(),
			Timestamp: time.Now(),
		}
		if bestErr == nil {
			event.BestModel = best.Model
			event.BestScore = best.Score
		}
		jm.broadcaster.Broadcast(event)
	}

	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.EndTime = &endTime
	})

	job, _ = jm.GetJob(jobID)
	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", time.Since(start),
		"models", len(models),
		"best_model", job.BestModel,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCompleted,
		Completed: len(models),
		Total:     len(models),
		BestModel: job.BestModel,
		BestScore: job.BestScore,
		Timestamp: time.Now(),
	})

	return nil
}

// resolveModels maps requested model names onto registry instances; an empty
// request selects the whole registry.
func resolveModels(names []string) ([]model.Model, error) {
	if len(names) == 0 {
		return model.All(), nil
	}
	models := make([]model.Model, 0, len(names))
	for _, name := range names {
		m, err := model.ByName(name)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// markJobFailed marks a job as failed with an error message.
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled.
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
