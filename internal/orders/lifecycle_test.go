package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var now = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

func fixture() *bakery.State {
	st := bakery.NewState()
	st.Materials["M001"] = bakery.Material{ID: "M001", Name: "Flour", Unit: "kg", Quantity: d("50"), PricePerUnit: d("46000")}
	st.Materials["M002"] = bakery.Material{ID: "M002", Name: "Sugar", Unit: "kg", Quantity: d("30"), PricePerUnit: d("69000")}
	st.Products["P001"] = bakery.Product{ID: "P001", Name: "Chocolate cake", Price: d("50000"), ProductionFee: d("2000"), DepreciationFee: d("500")}
	st.Products["P002"] = bakery.Product{ID: "P002", Name: "Croissant", Price: d("20000")}
	st.Recipes = []bakery.RecipeEdge{
		{ProductID: "P001", MaterialID: "M001", QuantityPerUnit: d("0.5")},
		{ProductID: "P002", MaterialID: "M001", QuantityPerUnit: d("0.1")},
		{ProductID: "P002", MaterialID: "M002", QuantityPerUnit: d("0.05")},
	}
	return st
}

func ids(n int) IDs {
	return IDs{OrderID: fmt.Sprintf("ORD-%d", n), InvoiceID: fmt.Sprintf("INV-%d", n)}
}

func request(items ...ItemRequest) CreateOrderRequest {
	return CreateOrderRequest{CustomerName: "A", Items: items}
}

func TestCreateDeductsMaterials(t *testing.T) {
	st := fixture()
	res, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)

	m := st.Materials["M001"]
	require.True(t, m.Quantity.Equal(d("49")), m.Quantity.String())
	require.True(t, m.UsedQuantity.Equal(d("1")))
	require.True(t, res.Cost.Material.Equal(d("46000")))
	require.True(t, res.Cost.Other.Equal(d("4000")))
	require.True(t, res.Cost.Depreciation.Equal(d("1000")))

	require.Equal(t, bakery.Day(now), res.Order.Date)
	require.Equal(t, bakery.OrderStatusCompleted, res.Order.Status)
	require.True(t, res.Order.ProductSubtotal.Equal(d("100000")))
	require.Len(t, st.OrderItems["ORD-1"], 1)
	require.True(t, st.OrderItems["ORD-1"][0].UnitPrice.Equal(d("50000")))

	require.Equal(t, "INV-1", res.Invoice.ID)
	require.Equal(t, bakery.PaymentUnpaid, st.InvoiceStatus["INV-1"].PaymentStatus)
	require.False(t, st.InvoiceStatus["INV-1"].IsCompleted)

	require.Len(t, st.Income, 1)
	row := st.Income[0]
	require.True(t, row.TotalSales.Equal(d("100000")))
	require.True(t, row.CostOfGoods.Equal(d("46000")))
	require.True(t, row.Profit.Equal(d("49000")))
	require.ElementsMatch(t, []bakery.Collection{
		bakery.CollectionMaterials,
		bakery.CollectionOrders,
		bakery.CollectionOrderItems,
		bakery.CollectionInvoices,
		bakery.CollectionInvoiceStatus,
		bakery.CollectionIncome,
	}, st.Dirty())
}

func TestCreateAppliesDiscountCode(t *testing.T) {
	st := fixture()
	req := request(ItemRequest{ProductID: "P001", Quantity: d("2")})
	req.DiscountCode = " thuxuan10 "
	req.ShippingFee = d("15000")

	res, err := Create(st, req, ids(1), now, Options{})
	require.NoError(t, err)
	require.Equal(t, "THUXUAN10", res.Order.DiscountCode)
	require.True(t, res.Order.DiscountAmount.Equal(d("10000")))
	require.True(t, res.Invoice.GrandTotal.Equal(d("105000")))
	require.True(t, st.Income[0].TotalSales.Equal(d("105000")))
	require.True(t, st.Income[0].DiscountCosts.Equal(d("10000")))
	require.True(t, st.Income[0].ShippingRevenue.Equal(d("15000")))
}

func TestCreateUnknownDiscountIsFree(t *testing.T) {
	st := fixture()
	req := request(ItemRequest{ProductID: "P002", Quantity: d("1")})
	req.DiscountCode = "NOPE"
	res, err := Create(st, req, ids(1), now, Options{})
	require.NoError(t, err)
	require.Empty(t, res.Order.DiscountCode)
	require.True(t, res.Order.DiscountAmount.IsZero())
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateOrderRequest
		want error
	}{
		{"blank customer", CreateOrderRequest{CustomerName: "  ", Items: []ItemRequest{{ProductID: "P001", Quantity: d("1")}}}, bakery.ErrValidation},
		{"no items", CreateOrderRequest{CustomerName: "A"}, bakery.ErrValidation},
		{"zero quantity", request(ItemRequest{ProductID: "P001", Quantity: d("0")}), bakery.ErrValidation},
		{"negative shipping", CreateOrderRequest{CustomerName: "A", ShippingFee: d("-1"), Items: []ItemRequest{{ProductID: "P001", Quantity: d("1")}}}, bakery.ErrValidation},
		{"unknown product", request(ItemRequest{ProductID: "P404", Quantity: d("1")}), bakery.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := fixture()
			_, err := Create(st, tc.req, ids(1), now, Options{})
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, st.Dirty())
			require.Empty(t, st.Orders)
		})
	}
}

func TestCreateInsufficientStockMutatesNothing(t *testing.T) {
	st := fixture()
	before := st.Clone()

	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("1000")}), ids(1), now, Options{})
	require.ErrorIs(t, err, bakery.ErrInsufficientStock)
	var stock *bakery.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	require.Len(t, stock.Shortages, 1)
	s := stock.Shortages[0]
	require.Equal(t, "M001", s.MaterialID)
	require.True(t, s.Required.Equal(d("500")))
	require.True(t, s.Available.Equal(d("50")))
	require.True(t, s.Shortage.Equal(d("450")))

	require.Empty(t, st.Dirty())
	require.Equal(t, before.Materials, st.Materials)
	require.Empty(t, st.Orders)
	require.Empty(t, st.Invoices)
	require.Empty(t, st.Income)
}

func TestCreateSharedMaterialAcrossItems(t *testing.T) {
	st := fixture()
	// 90*0.5 + 60*0.1 = 51 kg of flour against 50 in stock.
	_, err := Create(st, request(
		ItemRequest{ProductID: "P001", Quantity: d("90")},
		ItemRequest{ProductID: "P002", Quantity: d("60")},
	), ids(1), now, Options{})
	require.ErrorIs(t, err, bakery.ErrInsufficientStock)
}

func TestCreateDuplicateOrderID(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P002", Quantity: d("1")}), ids(1), now, Options{})
	require.NoError(t, err)
	_, err = Create(st, request(ItemRequest{ProductID: "P002", Quantity: d("1")}), ids(1), now, Options{})
	require.ErrorIs(t, err, bakery.ErrDuplicateKey)
}

func TestPriceSnapshotSurvivesProductEdit(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P002", Quantity: d("3")}), ids(1), now, Options{})
	require.NoError(t, err)

	p := st.Products["P002"]
	p.Price = d("99000")
	st.Products["P002"] = p

	require.True(t, st.OrderItems["ORD-1"][0].UnitPrice.Equal(d("20000")))
	require.True(t, st.Orders["ORD-1"].ProductSubtotal.Equal(d("60000")))
}

func TestDeleteInvoiceRoundTrip(t *testing.T) {
	st := fixture()
	before := st.Clone()

	req := request(
		ItemRequest{ProductID: "P001", Quantity: d("2")},
		ItemRequest{ProductID: "P002", Quantity: d("5")},
	)
	req.DiscountCode = "WELCOME"
	req.ShippingFee = d("10000")
	_, err := Create(st, req, ids(1), now, Options{})
	require.NoError(t, err)

	res, err := DeleteInvoice(st, "INV-1", true)
	require.NoError(t, err)
	require.True(t, res.MaterialsRestored)
	require.True(t, res.LedgerReversed)
	require.True(t, res.OrderDeleted)
	require.Empty(t, res.MissingMaterials)

	for id, m := range before.Materials {
		got := st.Materials[id]
		require.True(t, got.Quantity.Equal(m.Quantity), "%s quantity %s", id, got.Quantity)
		require.True(t, got.UsedQuantity.Equal(m.UsedQuantity), "%s used %s", id, got.UsedQuantity)
	}
	require.Empty(t, st.Income)
	require.Empty(t, st.Orders)
	require.Empty(t, st.OrderItems)
	require.Empty(t, st.Invoices)
	require.Empty(t, st.InvoiceStatus)
}

func TestLedgerAdditivity(t *testing.T) {
	st := fixture()
	reqs := []CreateOrderRequest{
		request(ItemRequest{ProductID: "P001", Quantity: d("1")}),
		{CustomerName: "B", ShippingFee: d("12000"), DiscountCode: "THUXUAN10", Items: []ItemRequest{{ProductID: "P002", Quantity: d("4")}}},
		{CustomerName: "C", ShippingFee: d("5000"), Items: []ItemRequest{{ProductID: "P001", Quantity: d("3")}, {ProductID: "P002", Quantity: d("1")}}},
	}
	total := decimal.Zero
	sales := make([]decimal.Decimal, len(reqs))
	for i, r := range reqs {
		res, err := Create(st, r, ids(i), now, Options{})
		require.NoError(t, err)
		sales[i] = res.Order.ProductSubtotal.Sub(res.Order.DiscountAmount).Add(res.Order.ShippingFee)
		total = total.Add(sales[i])
	}
	require.Len(t, st.Income, 1)
	require.True(t, st.Income[0].TotalSales.Equal(total))

	_, err := DeleteInvoice(st, "INV-1", false)
	require.NoError(t, err)
	require.True(t, st.Income[0].TotalSales.Equal(total.Sub(sales[1])))
	require.Equal(t, bakery.OrderStatusReversed, st.Orders["ORD-1"].Status)
}

func TestDeleteUsesSnapshotAfterPriceChange(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P002", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)
	_, err = Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("1")}), ids(2), now, Options{})
	require.NoError(t, err)

	_, err = inventory.Restock(st, inventory.RestockInput{MaterialID: "M001", Quantity: d("10"), TotalCost: d("2000000")})
	require.NoError(t, err)

	remaining, err := costing.RecordedCost(st, st.OrderItems["ORD-2"])
	require.NoError(t, err)

	_, err = DeleteInvoice(st, "INV-1", true)
	require.NoError(t, err)
	require.Len(t, st.Income, 1)
	require.True(t, st.Income[0].CostOfGoods.Equal(remaining.Material), st.Income[0].CostOfGoods.String())
}

func TestDeleteInvoiceKeepsOrderOnce(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)

	res, err := DeleteInvoice(st, "INV-1", false)
	require.NoError(t, err)
	require.False(t, res.OrderDeleted)
	require.True(t, st.Materials["M001"].Quantity.Equal(d("50")))
	require.Contains(t, st.Orders, "ORD-1")

	_, err = DeleteInvoice(st, "INV-1", false)
	require.ErrorIs(t, err, bakery.ErrNotFound)
}

func TestCreateLeavesCallerItemsUntouched(t *testing.T) {
	st := fixture()
	items := []ItemRequest{{ProductID: "  P002 ", Quantity: d("1")}}
	req := CreateOrderRequest{CustomerName: " A ", Items: items}

	res, err := Create(st, req, ids(1), now, Options{})
	require.NoError(t, err)
	require.Equal(t, "P002", res.Items[0].ProductID)
	require.Equal(t, "  P002 ", items[0].ProductID)
	require.Equal(t, "  P002 ", req.Items[0].ProductID)
}

func TestDeleteOrderAfterKeptInvoiceDeletion(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)
	_, err = DeleteInvoice(st, "INV-1", false)
	require.NoError(t, err)
	require.Equal(t, bakery.OrderStatusReversed, st.Orders["ORD-1"].Status)

	res, err := DeleteOrder(st, "ORD-1")
	require.NoError(t, err)
	require.True(t, res.OrderDeleted)
	require.False(t, res.MaterialsRestored)
	require.NotContains(t, st.Orders, "ORD-1")
	require.NotContains(t, st.OrderItems, "ORD-1")
	require.True(t, st.Materials["M001"].Quantity.Equal(d("50")))
	require.Empty(t, st.Income)

	_, err = DeleteOrder(st, "ORD-1")
	require.ErrorIs(t, err, bakery.ErrNotFound)
}

func TestDeleteOrderRejectsInvoicedOrder(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)

	_, err = DeleteOrder(st, "ORD-1")
	require.ErrorIs(t, err, bakery.ErrValidation)
	require.Contains(t, st.Orders, "ORD-1")
	require.True(t, st.Materials["M001"].Quantity.Equal(d("49")))
}

func TestDeleteOrderWithoutInvoiceReversesEffects(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)
	delete(st.Invoices, "INV-1")
	delete(st.InvoiceStatus, "INV-1")

	res, err := DeleteOrder(st, "ORD-1")
	require.NoError(t, err)
	require.True(t, res.MaterialsRestored)
	require.True(t, res.LedgerReversed)
	require.True(t, st.Materials["M001"].Quantity.Equal(d("50")))
	require.Empty(t, st.Income)
}

func TestDeleteInvoiceFallsBackToLiveRecipe(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("2")}), ids(1), now, Options{})
	require.NoError(t, err)
	items := st.OrderItems["ORD-1"]
	items[0].Cost = nil

	_, err = DeleteInvoice(st, "INV-1", true)
	require.NoError(t, err)
	require.True(t, st.Materials["M001"].Quantity.Equal(d("50")))
	require.Empty(t, st.Income)
}

func TestCreateMayConsumeExactStock(t *testing.T) {
	st := fixture()
	_, err := Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("100")}), ids(1), now, Options{Policy: inventory.PolicyPermissive})
	require.NoError(t, err)
	require.True(t, st.Materials["M001"].Quantity.IsZero())
}

func TestListAndGet(t *testing.T) {
	st := fixture()
	older := request(ItemRequest{ProductID: "P002", Quantity: d("1")})
	older.Date = now.AddDate(0, 0, -3)
	_, err := Create(st, older, ids(1), now, Options{})
	require.NoError(t, err)
	_, err = Create(st, request(ItemRequest{ProductID: "P001", Quantity: d("1")}), ids(2), now, Options{})
	require.NoError(t, err)

	all := List(st, time.Time{}, time.Time{})
	require.Len(t, all, 2)
	require.Equal(t, "ORD-2", all[0].ID)
	require.Len(t, List(st, now, time.Time{}), 1)

	detail, err := Get(st, "ORD-1")
	require.NoError(t, err)
	require.Equal(t, []string{"INV-1"}, detail.InvoiceIDs)
	require.Equal(t, "Croissant", detail.Lines[0].ProductName)

	_, err = Get(st, "ORD-404")
	require.ErrorIs(t, err, bakery.ErrNotFound)
}

func TestDiscountTableResolve(t *testing.T) {
	code, pct := DefaultDiscounts.Resolve("welcome")
	require.Equal(t, "WELCOME", code)
	require.True(t, pct.Equal(d("5")))
	code, pct = DefaultDiscounts.Resolve("")
	require.Empty(t, code)
	require.True(t, pct.IsZero())
}
