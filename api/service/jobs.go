package service

import (
	"context"
	"errors"

	"imageImporter/api/cache"
	"imageImporter/api/dto"
	"imageImporter/jobs"
)

const recentJobsLimit = 20

var ErrJobNotFinished = errors.New("job not finished yet")

type JobReader interface {
	Get(ctx context.Context, id string) (*jobs.Job, error)
	ListRecent(ctx context.Context, limit int) ([]*jobs.Job, error)
}

type JobService struct {
	store JobReader
	cache *cache.JobCache
}

func NewJobService(store JobReader, cache *cache.JobCache) *JobService {
	return &JobService{store: store, cache: cache}
}

func (s *JobService) List(ctx context.Context) (*dto.JobListResponse, error) {
	recent, err := s.store.ListRecent(ctx, recentJobsLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.JobListResponse{Jobs: make([]dto.JobResponse, 0, len(recent))}
	for _, job := range recent {
		s.cache.Set(job)
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(job))
	}
	return resp, nil
}

func (s *JobService) Get(ctx context.Context, id string) (*dto.JobDetailResponse, error) {
	job, err := s.job(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.JobDetailResponse{
		JobResponse: dto.NewJobResponse(job),
		Progress:    job.Meta.Progress,
	}, nil
}

// Result returns the job's result once it has finished.
func (s *JobService) Result(ctx context.Context, id string) (*dto.JobResultResponse, error) {
	job, err := s.job(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != jobs.StatusFinished {
		return nil, ErrJobNotFinished
	}

	return &dto.JobResultResponse{
		ID:     job.ID,
		Result: job.Result,
		Meta:   job.Meta,
	}, nil
}

func (s *JobService) job(ctx context.Context, id string) (*jobs.Job, error) {
	if job, ok := s.cache.Get(id); ok {
		return job, nil
	}

	job, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(job)
	return job, nil
}
