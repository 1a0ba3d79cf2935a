package store

import (
	"context"
	"errors"
	"time"
)

// Retrying wraps a Store with a bounded retry. State I/O may hit a
// flaky backend; retries are capped so run latency stays bounded, and
// callers fall back to their error paths after the last attempt.
type Retrying struct {
	Inner    Store
	Attempts int
	Backoff  time.Duration
}

var _ Store = (*Retrying)(nil)

// WithRetry decorates st. attempts < 1 is treated as a single try.
func WithRetry(st Store, attempts int, backoff time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{Inner: st, Attempts: attempts, Backoff: backoff}
}

func (r *Retrying) Get(ctx context.Context, productID string) (StateEntry, error) {
	var entry StateEntry
	err := r.do(ctx, func() error {
		var err error
		entry, err = r.Inner.Get(ctx, productID)
		return err
	})
	return entry, err
}

func (r *Retrying) Put(ctx context.Context, entry StateEntry) error {
	return r.do(ctx, func() error { return r.Inner.Put(ctx, entry) })
}

func (r *Retrying) Delete(ctx context.Context, productID string) error {
	return r.do(ctx, func() error { return r.Inner.Delete(ctx, productID) })
}

func (r *Retrying) Close() error { return r.Inner.Close() }

func (r *Retrying) do(ctx context.Context, fn func() error) error {
	backoff := r.Backoff
	var err error
	for attempt := 0; attempt < r.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		err = fn()
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return err
}
