// Package store loads and commits the application state through a
// persistence adapter that stores each collection as a list of JSON documents.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/catalog"
)

// Adapter persists whole collections. A collection that was never saved
// loads as an empty list.
type Adapter interface {
	Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error)
	Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error
}

// Batch is the full document list of one collection.
type Batch struct {
	Collection bakery.Collection
	Docs       []json.RawMessage
}

// BatchSaver is implemented by adapters that can replace several collections
// atomically.
type BatchSaver interface {
	SaveBatch(ctx context.Context, batches []Batch) error
}

// LoadOptions control LoadState.
type LoadOptions struct {
	// SeedDefaults fills empty catalog collections with the starter catalog.
	SeedDefaults bool
}

// LoadState reads every collection concurrently and assembles the state.
func LoadState(ctx context.Context, a Adapter, opts LoadOptions) (*bakery.State, error) {
	docs := make([][]json.RawMessage, len(bakery.Collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, col := range bakery.Collections {
		g.Go(func() error {
			rows, err := a.Load(gctx, col)
			if err != nil {
				return &bakery.PersistenceError{Collection: col, Err: err}
			}
			docs[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := bakery.NewState()
	for i, col := range bakery.Collections {
		if err := decode(st, col, docs[i]); err != nil {
			return nil, &bakery.PersistenceError{Collection: col, Err: err}
		}
	}
	if opts.SeedDefaults {
		catalog.DefaultCatalog().Apply(st)
	}
	st.ResetDirty()
	return st, nil
}

// Commit writes the collections next has touched. When the adapter cannot
// save them in one batch they are saved in order and, on failure, the
// collections already written are restored from prev.
func Commit(ctx context.Context, a Adapter, prev, next *bakery.State) error {
	cols := next.Dirty()
	if len(cols) == 0 {
		return nil
	}
	batches, err := Encode(next, cols...)
	if err != nil {
		return err
	}
	if b, ok := a.(BatchSaver); ok {
		if err := b.SaveBatch(ctx, batches); err != nil {
			return &bakery.PersistenceError{Collection: joinNames(cols), Err: err}
		}
		return nil
	}

	for i, batch := range batches {
		if err := a.Save(ctx, batch.Collection, batch.Docs); err != nil {
			perr := &bakery.PersistenceError{Collection: batch.Collection, Err: err}
			if rerr := restore(ctx, a, prev, cols[:i]); rerr != nil {
				perr.Err = errors.Join(err, rerr)
			}
			return perr
		}
	}
	return nil
}

func restore(ctx context.Context, a Adapter, prev *bakery.State, cols []bakery.Collection) error {
	if len(cols) == 0 {
		return nil
	}
	batches, err := Encode(prev, cols...)
	if err != nil {
		return fmt.Errorf("store: encode rollback: %w", err)
	}
	var errs []error
	for _, batch := range batches {
		if err := a.Save(ctx, batch.Collection, batch.Docs); err != nil {
			errs = append(errs, fmt.Errorf("store: rollback %s: %w", batch.Collection, err))
		}
	}
	return errors.Join(errs...)
}

// SaveAll writes every collection of st.
func SaveAll(ctx context.Context, a Adapter, st *bakery.State) error {
	batches, err := Encode(st, bakery.Collections...)
	if err != nil {
		return err
	}
	if b, ok := a.(BatchSaver); ok {
		if err := b.SaveBatch(ctx, batches); err != nil {
			return &bakery.PersistenceError{Collection: "all", Err: err}
		}
		return nil
	}
	for _, batch := range batches {
		if err := a.Save(ctx, batch.Collection, batch.Docs); err != nil {
			return &bakery.PersistenceError{Collection: batch.Collection, Err: err}
		}
	}
	return nil
}

func joinNames(cols []bakery.Collection) bakery.Collection {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return bakery.Collection(strings.Join(names, ","))
}
