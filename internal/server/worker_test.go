package server

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeDataset writes a small defect-count CSV and returns its path.
func writeDataset(t *testing.T) string {
	t.Helper()
	var sb []byte
	sb = append(sb, "day,bugs\n"...)
	for i := 1; i <= 10; i++ {
		y := math.Round(40 * (1 - math.Exp(-0.25*float64(i))))
		sb = append(sb, fmt.Sprintf("%d,%g\n", i, y)...)
	}
	path := filepath.Join(t.TempDir(), "bugs.csv")
	if err := os.WriteFile(path, sb, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunJobCompletes(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{
		DataPath:  writeDataset(t),
		Models:    []string{"exponential", "gompertz"},
		Optimizer: "neldermead",
		Seed:      42,
	})

	if err := runJob(context.Background(), jm, job.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := jm.GetJob(job.ID)
	if got.State != StateCompleted {
		t.Fatalf("state = %s, want %s (error: %s)", got.State, StateCompleted, got.Error)
	}
	if got.Completed != 2 || got.Total != 2 {
		t.Errorf("progress %d/%d, want 2/2", got.Completed, got.Total)
	}
	if len(got.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got.Results))
	}
	if got.BestModel == "" {
		t.Error("best model not recorded")
	}
	if got.EndTime == nil {
		t.Error("end time not recorded")
	}
}

func TestRunJobWholeRegistryByDefault(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{
		DataPath:  writeDataset(t),
		Optimizer: "neldermead",
		Seed:      42,
	})

	if err := runJob(context.Background(), jm, job.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := jm.GetJob(job.ID)
	if got.Total != 20 {
		t.Errorf("empty model list should fit the whole registry, total = %d", got.Total)
	}
}

func TestRunJobMissingDataset(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{DataPath: "/nonexistent/bugs.csv"})

	if err := runJob(context.Background(), jm, job.ID); err == nil {
		t.Fatal("expected error for missing dataset")
	}

	got, _ := jm.GetJob(job.ID)
	if got.State != StateFailed {
		t.Errorf("state = %s, want %s", got.State, StateFailed)
	}
	if got.Error == "" {
		t.Error("error message not recorded")
	}
}

func TestRunJobUnknownModel(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{
		DataPath: writeDataset(t),
		Models:   []string{"nope"},
	})

	if err := runJob(context.Background(), jm, job.ID); err == nil {
		t.Fatal("expected error for unknown model")
	}
	got, _ := jm.GetJob(job.ID)
	if got.State != StateFailed {
		t.Errorf("state = %s, want %s", got.State, StateFailed)
	}
}

func TestRunJobCancellation(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{
		DataPath:  writeDataset(t),
		Models:    []string{"exponential"},
		Optimizer: "neldermead",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runJob(ctx, jm, job.ID); err == nil {
		t.Fatal("expected context error")
	}
	got, _ := jm.GetJob(job.ID)
	if got.State != StateCancelled {
		t.Errorf("state = %s, want %s", got.State, StateCancelled)
	}
}

func TestRunJobUnknownJob(t *testing.T) {
	if err := runJob(context.Background(), NewJobManager(), "nonexistent"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestResolveModels(t *testing.T) {
	models, err := resolveModels([]string{"exponential", "weibull"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 || models[1].Name() != "weibull" {
		t.Error("requested models not resolved in order")
	}

	if _, err := resolveModels([]string{"nope"}); err == nil {
		t.Error("expected error for unknown model")
	}
}
