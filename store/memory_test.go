package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "A1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id must return ErrNotFound, got %v", err)
	}

	entry := StateEntry{ProductID: "A1", LastPrice: 1999, LastSeenName: "WDGT-42 Blue", UpdatedAt: time.Now()}
	if err := m.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := m.Get(ctx, "A1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LastPrice != 1999 || got.LastSeenName != "WDGT-42 Blue" {
		t.Fatalf("entry corrupted: %+v", got)
	}

	// Put is an upsert.
	entry.LastPrice = 2499
	if err := m.Put(ctx, entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = m.Get(ctx, "A1")
	if got.LastPrice != 2499 {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}

	if err := m.Delete(ctx, "A1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, "A1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted id must be gone, got %v", err)
	}
	// Deleting a missing id is a no-op.
	if err := m.Delete(ctx, "A1"); err != nil {
		t.Fatalf("Delete of missing id: %v", err)
	}
}

// flaky fails its first n calls of each kind, then delegates.
type flaky struct {
	*Memory
	failures int
	calls    int
}

func (f *flaky) Put(ctx context.Context, entry StateEntry) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("backend unavailable")
	}
	return f.Memory.Put(ctx, entry)
}

func TestRetryingRecoversWithinBudget(t *testing.T) {
	ctx := context.Background()
	f := &flaky{Memory: NewMemory(), failures: 1}
	st := WithRetry(f, 2, time.Millisecond)
	if err := st.Put(ctx, StateEntry{ProductID: "A1", LastPrice: 100}); err != nil {
		t.Fatalf("retry should absorb one failure: %v", err)
	}
	if _, err := st.Get(ctx, "A1"); err != nil {
		t.Fatalf("Get after retried Put: %v", err)
	}
}

func TestRetryingGivesUpAfterAttempts(t *testing.T) {
	ctx := context.Background()
	f := &flaky{Memory: NewMemory(), failures: 10}
	st := WithRetry(f, 2, time.Millisecond)
	if err := st.Put(ctx, StateEntry{ProductID: "A1"}); err == nil {
		t.Fatal("retry must be bounded")
	}
	if f.calls != 2 {
		t.Fatalf("want exactly 2 attempts, got %d", f.calls)
	}
}

func TestRetryingDoesNotRetryNotFound(t *testing.T) {
	ctx := context.Background()
	st := WithRetry(NewMemory(), 3, time.Millisecond)
	start := time.Now()
	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("not-found must return immediately, not back off")
	}
}
