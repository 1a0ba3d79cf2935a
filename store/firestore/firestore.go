// Package firestore backs the state store with a Firestore
// collection keyed by product id, matching the deployed system's
// persistence layout.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"signpress/catalog"
	"signpress/store"
)

// DefaultCollection is the collection name the deployed system uses.
const DefaultCollection = "products"

// Store implements store.Store on a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
}

var _ store.Store = (*Store)(nil)

// document is the Firestore shape of a state entry. The document id
// carries the product id.
type document struct {
	Price     int64     `firestore:"price"`
	Name      string    `firestore:"name"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Open connects to the project's Firestore database. An empty
// collection falls back to DefaultCollection.
func Open(ctx context.Context, projectID, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore: connect to %s: %w", projectID, err)
	}
	return &Store{client: client, collection: collection}, nil
}

func (s *Store) Get(ctx context.Context, productID string) (store.StateEntry, error) {
	snap, err := s.client.Collection(s.collection).Doc(productID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return store.StateEntry{}, store.ErrNotFound
	}
	if err != nil {
		return store.StateEntry{}, fmt.Errorf("firestore: get %s: %w", productID, err)
	}
	var doc document
	if err := snap.DataTo(&doc); err != nil {
		return store.StateEntry{}, fmt.Errorf("firestore: decode %s: %w", productID, err)
	}
	return store.StateEntry{
		ProductID:    productID,
		LastPrice:    catalog.Money(doc.Price),
		LastSeenName: doc.Name,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (s *Store) Put(ctx context.Context, entry store.StateEntry) error {
	_, err := s.client.Collection(s.collection).Doc(entry.ProductID).Set(ctx, document{
		Price:     int64(entry.LastPrice),
		Name:      entry.LastSeenName,
		UpdatedAt: entry.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("firestore: put %s: %w", entry.ProductID, err)
	}
	return nil
}

// Delete removes the entry. Firestore deletes are idempotent, so a
// missing document is not an error.
func (s *Store) Delete(ctx context.Context, productID string) error {
	if _, err := s.client.Collection(s.collection).Doc(productID).Delete(ctx); err != nil {
		return fmt.Errorf("firestore: delete %s: %w", productID, err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
