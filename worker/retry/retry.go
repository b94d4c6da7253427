package retry

import (
	"context"
	"errors"
	"math"
	"time"

	goretry "github.com/sethvargo/go-retry"
)

// Policy describes how many times an operation is attempted and how long to
// wait between attempts. The wait before attempt n+1 is
// Multiplier * 2^(n-1) seconds, clamped to [Min, Max].
type Policy struct {
	MaxAttempts int
	Multiplier  float64
	Min         time.Duration
	Max         time.Duration
}

var (
	// TransferPolicy retries one file's download and upload.
	TransferPolicy = Policy{MaxAttempts: 5, Multiplier: 1, Min: 4 * time.Second, Max: 10 * time.Second}

	// ImportPolicy retries listing a folder and fanning out its transfers.
	ImportPolicy = Policy{MaxAttempts: 3, Multiplier: 0.5, Min: 1 * time.Second, Max: 5 * time.Second}
)

// Wait returns the delay after the given failed attempt (1-based).
func (p Policy) Wait(attempt int) time.Duration {
	wait := time.Duration(p.Multiplier * math.Pow(2, float64(attempt-1)) * float64(time.Second))
	if wait < p.Min {
		wait = p.Min
	}
	if p.Max > 0 && wait > p.Max {
		wait = p.Max
	}
	return wait
}

func (p Policy) backoff() goretry.Backoff {
	attempt := 0
	return goretry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if attempt >= p.MaxAttempts {
			return 0, true
		}
		return p.Wait(attempt), false
	})
}

// Do runs fn until it succeeds, the policy is exhausted or ctx is done. It
// returns the last error fn produced. onRetry, if set, is called before
// each wait.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	var (
		lastErr error
		attempt int
	)

	err := goretry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		if err := fn(ctx); err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if onRetry != nil && attempt < p.MaxAttempts {
				onRetry(attempt, err)
			}
			return goretry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if lastErr != nil && ctx.Err() == nil {
		return lastErr
	}
	return err
}
