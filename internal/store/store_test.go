package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/catalog"
	"github.com/CuongMinh72/bakery-sys/internal/store"
	"github.com/CuongMinh72/bakery-sys/internal/store/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleState() *bakery.State {
	st := bakery.NewState()
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	st.Products["P001"] = bakery.Product{ID: "P001", Name: "Cake", Price: d("50000"), Category: "Cake"}
	st.Materials["M001"] = bakery.Material{ID: "M001", Name: "Flour", Unit: "kg", Quantity: d("49"), PricePerUnit: d("46000"), UsedQuantity: d("1")}
	st.Recipes = []bakery.RecipeEdge{{ProductID: "P001", MaterialID: "M001", QuantityPerUnit: d("0.5")}}
	st.Orders["ORD-1"] = bakery.Order{ID: "ORD-1", Date: day, CustomerName: "A", ProductSubtotal: d("100000"), Status: bakery.OrderStatusCompleted}
	st.OrderItems["ORD-1"] = []bakery.OrderItem{{
		OrderID: "ORD-1", ProductID: "P001", Quantity: d("2"), UnitPrice: d("50000"), Subtotal: d("100000"),
		Cost: &bakery.CostSnapshot{UnitMaterialCost: d("23000"), Consumed: []bakery.MaterialUsage{{MaterialID: "M001", Quantity: d("1")}}},
	}}
	st.Invoices["INV-1"] = bakery.Invoice{ID: "INV-1", OrderID: "ORD-1", Date: day, CustomerName: "A", GrandTotal: d("100000"), PaymentMethod: "cash"}
	st.InvoiceStatus["INV-1"] = bakery.InvoiceStatus{InvoiceID: "INV-1", PaymentStatus: bakery.PaymentUnpaid}
	st.Income = []bakery.IncomeEntry{{Date: day, TotalSales: d("100000"), CostOfGoods: d("46000"), Profit: d("54000")}}
	st.MaterialCosts = []bakery.MaterialCostEntry{{Date: day, MaterialID: "M001", Quantity: d("10"), TotalCost: d("460000")}}
	st.LaborCosts = []bakery.ExpenseEntry{{ID: "L1", Date: day, Description: "baker", Amount: d("300000")}}
	st.MarketingCosts = []bakery.ExpenseEntry{{ID: "K1", Date: day, Description: "flyers", Amount: d("50000")}}
	return st
}

func TestSaveAllThenLoadState(t *testing.T) {
	ctx := context.Background()
	a := memory.New()
	want := sampleState()
	require.NoError(t, store.SaveAll(ctx, a, want))

	got, err := store.LoadState(ctx, a, store.LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, got.Dirty())

	require.Len(t, got.Products, 1)
	require.True(t, got.Materials["M001"].Quantity.Equal(d("49")))
	require.Len(t, got.OrderItems["ORD-1"], 1)
	item := got.OrderItems["ORD-1"][0]
	require.NotNil(t, item.Cost)
	require.True(t, item.Cost.UnitMaterialCost.Equal(d("23000")))
	require.Equal(t, "INV-1", got.InvoiceStatus["INV-1"].InvoiceID)
	require.True(t, got.Income[0].Profit.Equal(d("54000")))
	require.Equal(t, "K1", got.MarketingCosts[0].ID)
	require.True(t, got.Orders["ORD-1"].Date.Equal(want.Orders["ORD-1"].Date))
}

func TestLoadStateSeedsEmptyCatalog(t *testing.T) {
	st, err := store.LoadState(context.Background(), memory.New(), store.LoadOptions{SeedDefaults: true})
	require.NoError(t, err)
	require.Len(t, st.Products, 4)
	require.Len(t, st.Materials, 6)
	require.Empty(t, st.Orders)
	require.Empty(t, st.Dirty())

	st, err = store.LoadState(context.Background(), memory.New(), store.LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, st.Products)
}

func TestLoadStateDoesNotSeedPartialCatalog(t *testing.T) {
	ctx := context.Background()
	a := memory.New()
	own := bakery.NewState()
	own.Products["X1"] = bakery.Product{ID: "X1", Name: "Own", Category: "Misc", Price: d("1000")}
	own.Materials["M001"] = bakery.Material{ID: "M001", Name: "Flour", Unit: "kg", Quantity: d("5")}
	require.NoError(t, store.SaveAll(ctx, a, own))

	st, err := store.LoadState(ctx, a, store.LoadOptions{SeedDefaults: true})
	require.NoError(t, err)
	require.Len(t, st.Products, 1)
	require.Len(t, st.Materials, 1)
	require.Empty(t, st.Recipes)
	require.NoError(t, catalog.DeleteMaterial(st, "M001"))
}

func TestLoadStateOldOrdersDefaultToCompleted(t *testing.T) {
	ctx := context.Background()
	a := memory.New()
	require.NoError(t, a.Save(ctx, bakery.CollectionOrders, []json.RawMessage{
		json.RawMessage(`{"order_id":"ORD-9","date":"2024-01-02T00:00:00Z","customer_name":"B","total_amount":"1000"}`),
	}))
	st, err := store.LoadState(ctx, a, store.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, bakery.OrderStatusCompleted, st.Orders["ORD-9"].Status)
}

func TestLoadStateBadDocument(t *testing.T) {
	ctx := context.Background()
	a := memory.New()
	require.NoError(t, a.Save(ctx, bakery.CollectionMaterials, []json.RawMessage{json.RawMessage(`{"quantity":"abc"}`)}))
	_, err := store.LoadState(ctx, a, store.LoadOptions{})
	require.ErrorIs(t, err, bakery.ErrPersistence)
	var perr *bakery.PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, bakery.CollectionMaterials, perr.Collection)
}

func TestCommitWritesOnlyDirtyCollections(t *testing.T) {
	ctx := context.Background()
	a := &recordingAdapter{inner: memory.New()}
	prev := sampleState()
	next := prev.Clone()
	m := next.Materials["M001"]
	m.Quantity = d("40")
	next.Materials["M001"] = m
	next.Touch(bakery.CollectionMaterials)

	require.NoError(t, store.Commit(ctx, a, prev, next))
	require.Equal(t, []bakery.Collection{bakery.CollectionMaterials}, a.saved)
}

func TestCommitRestoresEarlierCollectionsOnFailure(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	prev := sampleState()
	require.NoError(t, store.SaveAll(ctx, inner, prev))

	a := &recordingAdapter{inner: inner, failOn: bakery.CollectionOrders}
	next := prev.Clone()
	m := next.Materials["M001"]
	m.Quantity = d("1")
	next.Materials["M001"] = m
	delete(next.Orders, "ORD-1")
	next.Touch(bakery.CollectionMaterials, bakery.CollectionOrders)

	err := store.Commit(ctx, a, prev, next)
	require.ErrorIs(t, err, bakery.ErrPersistence)
	var perr *bakery.PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, bakery.CollectionOrders, perr.Collection)

	reloaded, err := store.LoadState(ctx, inner, store.LoadOptions{})
	require.NoError(t, err)
	require.True(t, reloaded.Materials["M001"].Quantity.Equal(d("49")))
	require.Contains(t, reloaded.Orders, "ORD-1")
}

func TestCommitUsesBatchSaver(t *testing.T) {
	ctx := context.Background()
	a := memory.New()
	prev := bakery.NewState()
	next := sampleState()
	for _, c := range bakery.Collections {
		next.Touch(c)
	}
	require.NoError(t, store.Commit(ctx, a, prev, next))
	st, err := store.LoadState(ctx, a, store.LoadOptions{})
	require.NoError(t, err)
	require.Len(t, st.Invoices, 1)
}

func TestEncodeIsSortedByKey(t *testing.T) {
	st := bakery.NewState()
	st.Products["P2"] = bakery.Product{ID: "P2"}
	st.Products["P1"] = bakery.Product{ID: "P1"}
	batches, err := store.Encode(st, bakery.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, batches[0].Docs, 2)
	require.Contains(t, string(batches[0].Docs[0]), `"P1"`)
}

// recordingAdapter hides the batch path of the wrapped adapter so Commit
// falls back to per-collection saves.
type recordingAdapter struct {
	inner  *memory.Adapter
	failOn bakery.Collection
	saved  []bakery.Collection
}

func (r *recordingAdapter) Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error) {
	return r.inner.Load(ctx, col)
}

func (r *recordingAdapter) Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error {
	if col == r.failOn {
		return errors.New("disk full")
	}
	r.saved = append(r.saved, col)
	return r.inner.Save(ctx, col, docs)
}
