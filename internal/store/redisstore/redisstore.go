// Package redisstore keeps each collection as a JSON array under one Redis key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

var (
	_ store.Adapter    = (*Store)(nil)
	_ store.BatchSaver = (*Store)(nil)
)

// DefaultPrefix namespaces collection keys.
const DefaultPrefix = "bakery:"

// Store is a Redis store.Adapter.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New wraps a client. An empty prefix uses DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Key returns the Redis key of a collection.
func (s *Store) Key(col bakery.Collection) string {
	return s.prefix + "collection:" + string(col)
}

// Load reads a collection. A missing key is an empty collection.
func (s *Store) Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error) {
	raw, err := s.client.Get(ctx, s.Key(col)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", col, err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("redisstore: decode %s: %w", col, err)
	}
	return docs, nil
}

// Save replaces one collection.
func (s *Store) Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error {
	return s.SaveBatch(ctx, []store.Batch{{Collection: col, Docs: docs}})
}

// SaveBatch replaces several collections in one MULTI/EXEC.
func (s *Store) SaveBatch(ctx context.Context, batches []store.Batch) error {
	payloads := make(map[string][]byte, len(batches))
	for _, b := range batches {
		docs := b.Docs
		if docs == nil {
			docs = []json.RawMessage{}
		}
		raw, err := json.Marshal(docs)
		if err != nil {
			return fmt.Errorf("redisstore: encode %s: %w", b.Collection, err)
		}
		payloads[s.Key(b.Collection)] = raw
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, raw := range payloads {
			pipe.Set(ctx, key, raw, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: exec: %w", err)
	}
	return nil
}
