package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zredjet/bugcurvefit/internal/fit"
)

func TestHandleModels(t *testing.T) {
	s := NewServer(":0")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	rec := httptest.NewRecorder()
	s.handleModels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var catalog []ModelInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &catalog); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(catalog) != 20 {
		t.Errorf("expected 20 models in the catalog, got %d", len(catalog))
	}
	for _, info := range catalog {
		if info.Name == "" || len(info.Params) == 0 {
			t.Errorf("incomplete catalog entry: %+v", info)
		}
	}
}

func TestHandleModelsRejectsPost(t *testing.T) {
	s := NewServer(":0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/models", nil)
	rec := httptest.NewRecorder()
	s.handleModels(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestCreateJobRequiresDataPath(t *testing.T) {
	s := NewServer(":0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateJobRejectsInvalidJSON(t *testing.T) {
	s := NewServer(":0")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateJobAndPollToCompletion(t *testing.T) {
	s := NewServer(":0")
	body := `{"dataPath": "` + writeDataset(t) + `", "models": ["exponential"], "optimizer": "neldermead"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var job Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if job.Config.Seed != 42 {
		t.Errorf("seed should default to 42, got %d", job.Config.Seed)
	}

	deadline := time.Now().Add(30 * time.Second)
	for {
		got, exists := s.jobManager.GetJob(job.ID)
		if !exists {
			t.Fatal("job vanished")
		}
		if got.State == StateCompleted {
			break
		}
		if got.State == StateFailed {
			t.Fatalf("job failed: %s", got.Error)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, state %s", got.State)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Status endpoint.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/status", nil)
	rec = httptest.NewRecorder()
	s.handleJobsWithID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint: %d", rec.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid status JSON: %v", err)
	}
	if status["bestModel"] != "exponential" {
		t.Errorf("bestModel = %v, want exponential", status["bestModel"])
	}

	// Results endpoint.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/results", nil)
	rec = httptest.NewRecorder()
	s.handleJobsWithID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("results endpoint: %d", rec.Code)
	}
	var results []*fit.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid results JSON: %v", err)
	}
	if len(results) != 1 || !results[0].Success {
		t.Errorf("unexpected results: %+v", results)
	}

	// Report endpoint renders the summary table.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/report", nil)
	rec = httptest.NewRecorder()
	s.handleJobsWithID(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("report endpoint: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "exponential") {
		t.Errorf("report missing model row:\n%s", rec.Body.String())
	}
}

func TestJobEndpointsNotFound(t *testing.T) {
	s := NewServer(":0")

	for _, path := range []string{
		"/api/v1/jobs/nonexistent/status",
		"/api/v1/jobs/nonexistent/results",
		"/api/v1/jobs/nonexistent/report",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.handleJobsWithID(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestJobEndpointRequiresID(t *testing.T) {
	s := NewServer(":0")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/", nil)
	rec := httptest.NewRecorder()
	s.handleJobsWithID(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListJobsEndpoint(t *testing.T) {
	s := NewServer(":0")
	s.jobManager.CreateJob(JobConfig{DataPath: "a.csv"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var jobs []Job
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs))
	}
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(":0")
	handler := s.corsMiddleware(http.NewServeMux())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}
