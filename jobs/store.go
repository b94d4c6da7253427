package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix = "importer:job:"
	indexKey     = "importer:jobs"
	listBatch    = 50
)

// Store keeps import job records in Redis. Each record is a JSON value with
// a retention TTL; a sorted set indexes job ids by creation time.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// Create registers a new queued job for folderID and returns it.
func (s *Store) Create(ctx context.Context, folderID, traceID string) (*Job, error) {
	job := &Job{
		ID:        uuid.New().String(),
		FolderID:  folderID,
		TraceID:   traceID,
		Status:    StatusQueued,
		CreatedAt: s.now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, jobKey(job.ID), data, s.ttl)
		pipe.ZAdd(ctx, indexKey, redis.Z{
			Score:  float64(job.CreatedAt.UnixNano()),
			Member: job.ID,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	return job, nil
}

// Get returns the job with the given id or ErrJobNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// ListRecent returns up to limit jobs, newest first. Ids whose record has
// expired are skipped and pruned from the index.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	var (
		result []*Job
		stale  []interface{}
		start  int64
	)

	for len(result) < limit {
		ids, err := s.client.ZRevRange(ctx, indexKey, start, start+listBatch-1).Result()
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		start += int64(len(ids))

		for _, id := range ids {
			job, err := s.Get(ctx, id)
			if err != nil {
				if errors.Is(err, ErrJobNotFound) {
					stale = append(stale, id)
				}
				continue
			}
			result = append(result, job)
			if len(result) == limit {
				break
			}
		}
	}

	if len(stale) > 0 {
		s.client.ZRem(ctx, indexKey, stale...)
	}

	return result, nil
}

// MarkStarted moves a job into the started state. A job that already ended
// returns ErrJobTerminal and is left untouched.
func (s *Store) MarkStarted(ctx context.Context, id string) error {
	return s.update(ctx, id, func(job *Job) error {
		if job.Status.Terminal() {
			return fmt.Errorf("start job %s (%s): %w", id, job.Status, ErrJobTerminal)
		}
		now := s.now().UTC()
		job.Status = StatusStarted
		job.StartedAt = &now
		return nil
	})
}

// SetProgress records the percentage of files processed so far.
func (s *Store) SetProgress(ctx context.Context, id string, progress int) error {
	return s.update(ctx, id, func(job *Job) error {
		job.Meta.Progress = progress
		return nil
	})
}

// Finish stores the job's result and metadata and marks it finished. A
// failed import still finishes; its failure is part of the result.
func (s *Store) Finish(ctx context.Context, id string, result Result) error {
	return s.update(ctx, id, func(job *Job) error {
		now := s.now().UTC()
		job.Status = StatusFinished
		job.EndedAt = &now
		job.Result = &result
		job.Meta.Status = result.Status
		if result.Succeeded() {
			job.Meta.Result = &result
		} else {
			job.Meta.Error = result.Error
		}
		return nil
	})
}

// Fail marks a job that could not run to completion at all.
func (s *Store) Fail(ctx context.Context, id string, message string) error {
	return s.update(ctx, id, func(job *Job) error {
		now := s.now().UTC()
		job.Status = StatusFailed
		job.EndedAt = &now
		job.Meta.Status = ResultFailed
		job.Meta.Error = message
		return nil
	})
}

// update is a read-modify-write of one record. Each job has a single writer
// (the worker running it), so no optimistic locking is done.
func (s *Store) update(ctx context.Context, id string, fn func(*Job) error) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(job); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, jobKey(id), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("save job %s: %w", id, err)
	}
	return nil
}
