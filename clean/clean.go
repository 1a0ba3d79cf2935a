// Package clean turns raw ERP product names into customer-facing
// display names. The primary implementation asks Gemini in one batch
// call; a deterministic rule-driven fallback guarantees the pipeline
// never depends on the collaborator being up.
package clean

import "context"

// Cleaner maps raw names to display names in one batched call. The
// returned map is keyed by raw name; a missing key means the cleaner
// had no suggestion for it. Implementations may fail or time out;
// callers own the fallback.
type Cleaner interface {
	Clean(ctx context.Context, names []string) (map[string]string, error)
}

// Func adapts a function to the Cleaner interface.
type Func func(ctx context.Context, names []string) (map[string]string, error)

func (f Func) Clean(ctx context.Context, names []string) (map[string]string, error) {
	return f(ctx, names)
}
