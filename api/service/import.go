package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"imageImporter/api/dto"
	"imageImporter/api/validation"
	"imageImporter/jobs"
)

type JobCreator interface {
	Create(ctx context.Context, folderID, traceID string) (*jobs.Job, error)
	Fail(ctx context.Context, id string, message string) error
}

type Publisher interface {
	Publish(ctx context.Context, msg *jobs.Message) error
}

// ImportService records an import job and hands it to the workers.
type ImportService struct {
	store     JobCreator
	publisher Publisher
	logger    *zap.Logger
}

func NewImportService(store JobCreator, publisher Publisher, logger *zap.Logger) *ImportService {
	return &ImportService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ImportService) Enqueue(ctx context.Context, traceID string, req *dto.ImportRequest) (*dto.ImportResponse, error) {
	folderID, err := validation.ResolveFolderID(req.FolderID, req.FolderURL)
	if err != nil {
		return nil, err
	}

	job, err := s.store.Create(ctx, folderID, traceID)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	msg := &jobs.Message{
		JobID:    job.ID,
		TraceID:  traceID,
		FolderID: folderID,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		if failErr := s.store.Fail(ctx, job.ID, "enqueue failed: "+err.Error()); failErr != nil {
			s.logger.Error("Failed to mark unpublished job",
				zap.String("job_id", job.ID),
				zap.Error(failErr),
			)
		}
		return nil, fmt.Errorf("publish job %s: %w", job.ID, err)
	}

	s.logger.Info("Import enqueued",
		zap.String("trace_id", traceID),
		zap.String("job_id", job.ID),
		zap.String("folder_id", folderID),
	)

	return &dto.ImportResponse{
		Message:  "Import started in background",
		FolderID: folderID,
		JobID:    job.ID,
	}, nil
}
