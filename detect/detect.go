// Package detect computes which products of a batch need a freshly
// printed label. It only reads the state store; committing new state
// is the pipeline's job and happens strictly after rendering.
package detect

import (
	"context"
	"errors"
	"fmt"

	"signpress/catalog"
	"signpress/store"
)

// Reason classifies why a record is in ToPrint.
type Reason string

const (
	ReasonNew          Reason = "new"
	ReasonPriceChanged Reason = "price-changed"
	ReasonForced       Reason = "forced"
	ReasonRemoval      Reason = "removal"
)

// ChangeSet is the outcome of diffing one batch against the store.
// ToPrint preserves batch order so pagination stays reproducible.
type ChangeSet struct {
	ToPrint   []catalog.ProductRecord
	Unchanged []string
	Reasons   map[string]Reason
}

// Empty reports whether nothing needs printing.
func (c *ChangeSet) Empty() bool { return len(c.ToPrint) == 0 }

// Detect classifies every batch record. A record prints when it is
// new to the store, its price moved (exact minor-unit compare), the
// operator forced it, or it is flagged for removal; otherwise it is
// unchanged. Duplicate ids fail the whole batch before any store
// access. Detect never mutates the store.
func Detect(ctx context.Context, batch catalog.Batch, st store.Store) (*ChangeSet, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	cs := &ChangeSet{Reasons: make(map[string]Reason, len(batch))}
	for _, rec := range batch {
		switch {
		case rec.Remove:
			cs.mark(rec, ReasonRemoval)
			continue
		case rec.ForcePrint:
			cs.mark(rec, ReasonForced)
			continue
		}
		entry, err := st.Get(ctx, rec.ID)
		if errors.Is(err, store.ErrNotFound) {
			cs.mark(rec, ReasonNew)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("detect: read state for %s: %w", rec.ID, err)
		}
		if entry.LastPrice != rec.Price {
			cs.mark(rec, ReasonPriceChanged)
			continue
		}
		cs.Unchanged = append(cs.Unchanged, rec.ID)
	}
	return cs, nil
}

func (c *ChangeSet) mark(rec catalog.ProductRecord, reason Reason) {
	c.ToPrint = append(c.ToPrint, rec)
	c.Reasons[rec.ID] = reason
}
