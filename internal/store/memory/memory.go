// Package memory keeps collections in process memory. It backs tests and
// sessions started without a configured backend.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

var (
	_ store.Adapter    = (*Adapter)(nil)
	_ store.BatchSaver = (*Adapter)(nil)
)

// Adapter is an in-memory store.Adapter.
type Adapter struct {
	mu   sync.RWMutex
	cols map[bakery.Collection][]json.RawMessage
}

// New returns an empty adapter.
func New() *Adapter {
	return &Adapter{cols: make(map[bakery.Collection][]json.RawMessage)}
}

// Load returns a copy of the stored documents.
func (a *Adapter) Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyDocs(a.cols[col]), nil
}

// Save replaces a collection.
func (a *Adapter) Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cols[col] = copyDocs(docs)
	return nil
}

// SaveBatch replaces several collections under one lock.
func (a *Adapter) SaveBatch(ctx context.Context, batches []store.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range batches {
		a.cols[b.Collection] = copyDocs(b.Docs)
	}
	return nil
}

func copyDocs(docs []json.RawMessage) []json.RawMessage {
	if docs == nil {
		return nil
	}
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = append(json.RawMessage(nil), d...)
	}
	return out
}
