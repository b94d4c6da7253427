package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"imageImporter/jobs"
)

// JobCache keeps recently read terminal jobs in memory. Jobs that can still
// change are never stored.
type JobCache struct {
	lru *expirable.LRU[string, *jobs.Job]
}

func NewJobCache(size int, ttl time.Duration) *JobCache {
	return &JobCache{lru: expirable.NewLRU[string, *jobs.Job](size, nil, ttl)}
}

func (c *JobCache) Get(id string) (*jobs.Job, bool) {
	return c.lru.Get(id)
}

func (c *JobCache) Set(job *jobs.Job) {
	if !job.Status.Terminal() {
		return
	}
	c.lru.Add(job.ID, job)
}
