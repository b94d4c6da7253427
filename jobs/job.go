package jobs

import (
	"context"
	"errors"
	"time"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobTerminal = errors.New("job already ended")
)

type Status string

const (
	StatusQueued   Status = "queued"
	StatusStarted  Status = "started"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusFailed
}

type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFailed  ResultStatus = "failed"
)

// Result is the return value of an import job. It is either a success
// carrying counts or a failure carrying an error message; use Success and
// Failure to build one.
type Result struct {
	Status   ResultStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Error    string       `json:"error,omitempty"`
	Imported int          `json:"imported"`
	Updated  int          `json:"updated"`
	Total    int          `json:"total"`
}

func Success(imported, updated, total int) Result {
	return Result{
		Status:   ResultSuccess,
		Message:  "Images imported successfully",
		Imported: imported,
		Updated:  updated,
		Total:    total,
	}
}

func Failure(message string) Result {
	return Result{
		Status: ResultFailed,
		Error:  message,
	}
}

func (r Result) Succeeded() bool {
	return r.Status == ResultSuccess
}

type Meta struct {
	Status   ResultStatus `json:"status,omitempty"`
	Progress int          `json:"progress,omitempty"`
	Result   *Result      `json:"result,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type Job struct {
	ID        string     `json:"id"`
	FolderID  string     `json:"folder_id"`
	TraceID   string     `json:"trace_id,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Result    *Result    `json:"result,omitempty"`
	Meta      Meta       `json:"meta"`
}

// Message is what the API publishes to the broker and the worker consumes.
type Message struct {
	JobID    string `json:"job_id"`
	TraceID  string `json:"trace_id"`
	FolderID string `json:"folder_id"`
}

// Handler processes one message taken off the queue.
type Handler func(ctx context.Context, msg *Message) error
