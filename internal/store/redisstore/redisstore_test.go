package redisstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test:"), mr
}

func TestMissingKeyIsEmpty(t *testing.T) {
	s, _ := newStore(t)
	docs, err := s.Load(context.Background(), bakery.CollectionOrders)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestSaveBatchWritesEveryKey(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	err := s.SaveBatch(ctx, []store.Batch{
		{Collection: bakery.CollectionOrders, Docs: []json.RawMessage{json.RawMessage(`{"order_id":"ORD-1"}`)}},
		{Collection: bakery.CollectionInvoices, Docs: nil},
	})
	require.NoError(t, err)

	raw, err := mr.Get("test:collection:invoices")
	require.NoError(t, err)
	require.Equal(t, "[]", raw)

	docs, err := s.Load(ctx, bakery.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.JSONEq(t, `{"order_id":"ORD-1"}`, string(docs[0]))
}

func TestLoadCorruptValue(t *testing.T) {
	s, mr := newStore(t)
	require.NoError(t, mr.Set(s.Key(bakery.CollectionRecipes), "oops"))
	_, err := s.Load(context.Background(), bakery.CollectionRecipes)
	require.Error(t, err)
}

func TestDefaultPrefix(t *testing.T) {
	s := New(nil, "")
	require.Equal(t, "bakery:collection:income", s.Key(bakery.CollectionIncome))
}
