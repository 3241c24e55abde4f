package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zredjet/bugcurvefit/internal/fit"
)

// JobState represents the current state of a job.
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig holds the configuration for a batch fitting job.
type JobConfig struct {
	DataPath  string   `json:"dataPath"`
	Models    []string `json:"models,omitempty"` // empty fits the whole registry
	Loss      string   `json:"loss,omitempty"`
	Optimizer string   `json:"optimizer,omitempty"`
	Holdout   int      `json:"holdout,omitempty"`
	Seed      int64    `json:"seed,omitempty"`
}

// Job represents a batch fitting job over one dataset.
type Job struct {
	ID        string        `json:"id"`
	State     JobState      `json:"state"`
	Config    JobConfig     `json:"config"`
	Completed int           `json:"completed"` // models fitted so far
	Total     int           `json:"total"`
	BestModel string        `json:"bestModel,omitempty"`
	BestScore float64       `json:"bestScore,omitempty"`
	Results   []*fit.Result `json:"results,omitempty"`
	StartTime time.Time     `json:"startTime"`
	EndTime   *time.Time    `json:"endTime,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// JobManager manages the lifecycle of jobs.
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// snapshot copies the job so callers can read and marshal it without holding
// the manager lock. Results entries are immutable once appended, so a shallow
// copy of the slice is enough.
func (j *Job) snapshot() *Job {
	c := *j
	if j.Results != nil {
		c.Results = append([]*fit.Result{}, j.Results...)
	}
	return &c
}

// CreateJob creates a new job with the given configuration and returns a
// snapshot of it.
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job.snapshot()
}

// GetJob retrieves a snapshot of a job by ID. The worker goroutine keeps
// mutating the stored job through UpdateJob, so handlers never see the live
// pointer.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	return job.snapshot(), true
}

// ListJobs returns snapshots of all jobs.
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job.snapshot())
	}
	return jobs
}

// UpdateJob atomically updates a job using the provided function.
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns snapshots of all jobs currently in the running
// state.
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	running := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			running = append(running, job.snapshot())
		}
	}
	return running
}
