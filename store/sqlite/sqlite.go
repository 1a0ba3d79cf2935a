// Package sqlite backs the state store with a local SQLite file,
// useful for single-machine deployments and integration tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"signpress/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS state_entries (
	product_id     TEXT PRIMARY KEY,
	last_price     INTEGER NOT NULL,
	last_seen_name TEXT NOT NULL DEFAULT '',
	updated_at     TIMESTAMP NOT NULL
);`

// Store implements store.Store on a SQLite database.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (and if needed creates) the database at path. ":memory:"
// gives a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, productID string) (store.StateEntry, error) {
	var entry store.StateEntry
	err := s.db.GetContext(ctx, &entry,
		`SELECT product_id, last_price, last_seen_name, updated_at FROM state_entries WHERE product_id = ?`,
		productID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StateEntry{}, store.ErrNotFound
	}
	if err != nil {
		return store.StateEntry{}, fmt.Errorf("sqlite: get %s: %w", productID, err)
	}
	return entry, nil
}

func (s *Store) Put(ctx context.Context, entry store.StateEntry) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO state_entries (product_id, last_price, last_seen_name, updated_at)
		VALUES (:product_id, :last_price, :last_seen_name, :updated_at)
		ON CONFLICT(product_id) DO UPDATE SET
			last_price = excluded.last_price,
			last_seen_name = excluded.last_seen_name,
			updated_at = excluded.updated_at`,
		entry)
	if err != nil {
		return fmt.Errorf("sqlite: put %s: %w", entry.ProductID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, productID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state_entries WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", productID, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
