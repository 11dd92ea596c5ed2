// Package pgstore keeps collections as JSONB documents in PostgreSQL.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/platform/db"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

var (
	_ store.Adapter    = (*Store)(nil)
	_ store.BatchSaver = (*Store)(nil)
)

const (
	createSchema = `
CREATE TABLE IF NOT EXISTS collection_documents (
    collection TEXT NOT NULL,
    position   INTEGER NOT NULL,
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, position)
)`
	selectDocs = `SELECT doc FROM collection_documents WHERE collection = $1 ORDER BY position`
	deleteDocs = `DELETE FROM collection_documents WHERE collection = $1`
	insertDoc  = `INSERT INTO collection_documents (collection, position, doc) VALUES ($1, $2, $3::jsonb)`
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// Store is a PostgreSQL store.Adapter.
type Store struct {
	db       dbtx
	beginner db.TxBeginner
}

// New wraps a pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, beginner: pool}
}

// EnsureSchema creates the documents table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createSchema); err != nil {
		return fmt.Errorf("pgstore: ensure schema: %w", err)
	}
	return nil
}

// Load returns the documents of a collection in saved order.
func (s *Store) Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error) {
	rows, err := s.db.Query(ctx, selectDocs, string(col))
	if err != nil {
		return nil, fmt.Errorf("pgstore: query %s: %w", col, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("pgstore: scan %s: %w", col, err)
		}
		docs = append(docs, append(json.RawMessage(nil), doc...))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: rows %s: %w", col, err)
	}
	return docs, nil
}

// Save replaces one collection in a transaction.
func (s *Store) Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error {
	return s.SaveBatch(ctx, []store.Batch{{Collection: col, Docs: docs}})
}

// SaveBatch replaces every listed collection in a single transaction.
func (s *Store) SaveBatch(ctx context.Context, batches []store.Batch) error {
	return db.WithTx(ctx, s.beginner, func(tx pgx.Tx) error {
		for _, b := range batches {
			if err := replace(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func replace(ctx context.Context, tx pgx.Tx, b store.Batch) error {
	if _, err := tx.Exec(ctx, deleteDocs, string(b.Collection)); err != nil {
		return fmt.Errorf("pgstore: clear %s: %w", b.Collection, err)
	}
	if len(b.Docs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, doc := range b.Docs {
		batch.Queue(insertDoc, string(b.Collection), i, string(doc))
	}
	results := tx.SendBatch(ctx, batch)
	for range b.Docs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("pgstore: insert %s: %w", b.Collection, err)
		}
	}
	return results.Close()
}
