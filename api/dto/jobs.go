package dto

import (
	"time"

	"imageImporter/jobs"
)

type JobResponse struct {
	ID        string       `json:"id"`
	Status    jobs.Status  `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	StartedAt *time.Time   `json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at"`
	Result    *jobs.Result `json:"result"`
	Meta      jobs.Meta    `json:"meta"`
}

type JobDetailResponse struct {
	JobResponse
	Progress int `json:"progress"`
}

type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type JobResultResponse struct {
	ID     string       `json:"id"`
	Result *jobs.Result `json:"result"`
	Meta   jobs.Meta    `json:"meta"`
}

func NewJobResponse(job *jobs.Job) JobResponse {
	return JobResponse{
		ID:        job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		StartedAt: job.StartedAt,
		EndedAt:   job.EndedAt,
		Result:    job.Result,
		Meta:      job.Meta,
	}
}
