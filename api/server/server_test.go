package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"imageImporter/api/dto"
	"imageImporter/api/handlers"
	"imageImporter/api/middleware"
	"imageImporter/jobs"
)

type stubImports struct{}

func (stubImports) Enqueue(ctx context.Context, traceID string, req *dto.ImportRequest) (*dto.ImportResponse, error) {
	return &dto.ImportResponse{Message: "Import started in background", FolderID: req.FolderID, JobID: "job-1"}, nil
}

type stubJobs struct{}

func (stubJobs) List(ctx context.Context) (*dto.JobListResponse, error) {
	return &dto.JobListResponse{Jobs: []dto.JobResponse{}}, nil
}

func (stubJobs) Get(ctx context.Context, id string) (*dto.JobDetailResponse, error) {
	if id != "job-1" {
		return nil, jobs.ErrJobNotFound
	}
	return &dto.JobDetailResponse{JobResponse: dto.JobResponse{ID: id, Status: jobs.StatusQueued}}, nil
}

func (stubJobs) Result(ctx context.Context, id string) (*dto.JobResultResponse, error) {
	return &dto.JobResultResponse{ID: id}, nil
}

type stubImages struct{}

func (stubImages) List(ctx context.Context, limit, offset int) (*dto.ImageListResponse, error) {
	return &dto.ImageListResponse{Items: []dto.ImageResponse{}, Limit: limit, Offset: offset}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	logger := zaptest.NewLogger(t)
	return NewRouter([]string{"http://localhost:3000"}, Handlers{
		Import: handlers.NewImportHandler(stubImports{}, logger),
		Jobs:   handlers.NewJobsHandler(stubJobs{}, logger),
		Images: handlers.NewImagesHandler(stubImages{}, logger),
		Health: handlers.NewHealthHandler(nil, nil, logger),
	}, logger)
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/ready", http.StatusServiceUnavailable},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/jobs", http.StatusOK},
		{"GET", "/jobs/job-1", http.StatusOK},
		{"GET", "/jobs/other", http.StatusNotFound},
		{"GET", "/jobs/job-1/result", http.StatusOK},
		{"GET", "/images", http.StatusOK},
		{"POST", "/import/google-drive", http.StatusOK},
		{"GET", "/import/google-drive", http.StatusMethodNotAllowed},
		{"GET", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

		if rec.Code != tt.want {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
		if rec.Header().Get(middleware.TraceIDHeader) == "" {
			t.Errorf("%s %s: missing trace id header", tt.method, tt.path)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/import/google-drive", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("Expected no credentials header, got %q", got)
	}
}
