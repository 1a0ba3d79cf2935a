package clean

import (
	"context"
	"time"
)

// Retrying wraps a Cleaner with a bounded retry and per-attempt
// timeout. Attempts are capped so a slow collaborator can only delay
// a run, never stall it; after the last attempt the caller degrades
// to the local fallback.
type Retrying struct {
	Inner    Cleaner
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration
}

var _ Cleaner = (*Retrying)(nil)

// WithRetry decorates c with the given budget. attempts < 1 means a
// single try.
func WithRetry(c Cleaner, attempts int, backoff, timeout time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{Inner: c, Attempts: attempts, Backoff: backoff, Timeout: timeout}
}

func (r *Retrying) Clean(ctx context.Context, names []string) (map[string]string, error) {
	backoff := r.Backoff
	var err error
	for attempt := 0; attempt < r.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		var result map[string]string
		result, err = r.once(ctx, names)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, err
}

func (r *Retrying) once(ctx context.Context, names []string) (map[string]string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Inner.Clean(ctx, names)
}
