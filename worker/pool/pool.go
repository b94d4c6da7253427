package pool

import (
	"context"
	"fmt"
	"sync"
)

// Result is the outcome of one task: either a value or an error.
type Result[T, R any] struct {
	Input T
	Value R
	Err   error
}

func (r Result[T, R]) OK() bool {
	return r.Err == nil
}

type WorkerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		sem: make(chan struct{}, maxWorkers),
	}
}

// Submit runs task once a worker slot is free. It returns without waiting
// for the slot; if ctx is done first the task is skipped.
func (p *WorkerPool) Submit(ctx context.Context, task func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			task(ctx)
		case <-ctx.Done():
		}
	}()
}

func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Run applies fn to every input on a pool of maxWorkers goroutines and
// returns one Result per input in completion order. A failing or panicking
// task does not affect the others. Once ctx is done the remaining tasks
// still report, typically with ctx's error. onDone, if set, is called after
// each task with the number of tasks finished so far.
func Run[T, R any](ctx context.Context, maxWorkers int, inputs []T, fn func(context.Context, T) (R, error), onDone func(done int)) []Result[T, R] {
	p := NewWorkerPool(maxWorkers)
	results := make(chan Result[T, R], len(inputs))

	for _, in := range inputs {
		in := in
		p.Submit(context.Background(), func(context.Context) {
			results <- call(ctx, in, fn)
		})
	}

	go func() {
		p.Wait()
		close(results)
	}()

	collected := make([]Result[T, R], 0, len(inputs))
	for res := range results {
		collected = append(collected, res)
		if onDone != nil {
			onDone(len(collected))
		}
	}

	return collected
}

func call[T, R any](ctx context.Context, in T, fn func(context.Context, T) (R, error)) (res Result[T, R]) {
	res.Input = in
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	res.Value, res.Err = fn(ctx, in)
	return res
}
