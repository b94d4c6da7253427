package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"imageImporter/api/dto"
	"imageImporter/api/middleware"
	"imageImporter/api/service"
	"imageImporter/jobs"
)

type JobService interface {
	List(ctx context.Context) (*dto.JobListResponse, error)
	Get(ctx context.Context, id string) (*dto.JobDetailResponse, error)
	Result(ctx context.Context, id string) (*dto.JobResultResponse, error)
}

type JobsHandler struct {
	responder
	service JobService
}

func NewJobsHandler(service JobService, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{
		responder: responder{logger: logger},
		service:   service,
	}
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	resp, err := h.service.List(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list jobs", err, traceID, http.StatusInternalServerError, "internal_error")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	jobID := chi.URLParam(r, "id")

	resp, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		h.jobError(w, jobID, err, traceID)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *JobsHandler) Result(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	jobID := chi.URLParam(r, "id")

	resp, err := h.service.Result(r.Context(), jobID)
	if err != nil {
		h.jobError(w, jobID, err, traceID)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *JobsHandler) jobError(w http.ResponseWriter, jobID string, err error, traceID string) {
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		h.handleError(w, "Job "+jobID+" not found", err, traceID, http.StatusNotFound, "job_not_found")
	case errors.Is(err, service.ErrJobNotFinished):
		h.handleError(w, "Job not finished yet", err, traceID, http.StatusBadRequest, "job_not_finished")
	default:
		h.handleError(w, "Failed to get job", err, traceID, http.StatusInternalServerError, "internal_error")
	}
}
