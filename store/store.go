// Package store persists the last-committed price snapshot per
// product. Change detection reads it; the pipeline writes it only
// after a label rendered successfully, so a crashed run reprints
// rather than silently drops.
package store

import (
	"context"
	"errors"
	"time"

	"signpress/catalog"
)

// ErrNotFound marks a product id with no committed state.
var ErrNotFound = errors.New("state entry not found")

// StateEntry is the committed snapshot for one product id.
type StateEntry struct {
	ProductID    string        `db:"product_id" firestore:"-" json:"product_id"`
	LastPrice    catalog.Money `db:"last_price" firestore:"price" json:"last_price"`
	LastSeenName string        `db:"last_seen_name" firestore:"name" json:"last_seen_name"`
	UpdatedAt    time.Time     `db:"updated_at" firestore:"updatedAt" json:"updated_at"`
}

// Store is the keyed state collaborator. Implementations must treat
// Put as an upsert and Delete of a missing id as a no-op.
type Store interface {
	Get(ctx context.Context, productID string) (StateEntry, error)
	Put(ctx context.Context, entry StateEntry) error
	Delete(ctx context.Context, productID string) error
	Close() error
}
