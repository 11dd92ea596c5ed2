package bakery

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Materials["M001"] = Material{ID: "M001", Quantity: decimal.NewFromInt(50)}
	s.OrderItems["ORD-1"] = []OrderItem{{OrderID: "ORD-1", ProductID: "P001", Quantity: decimal.NewFromInt(1)}}
	done := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.InvoiceStatus["INV-1"] = InvoiceStatus{InvoiceID: "INV-1", CompletionDate: &done}

	c := s.Clone()
	m := c.Materials["M001"]
	m.Quantity = decimal.NewFromInt(1)
	c.Materials["M001"] = m
	c.OrderItems["ORD-1"][0].ProductID = "P002"
	*c.InvoiceStatus["INV-1"].CompletionDate = done.AddDate(0, 0, 1)
	c.Touch(CollectionMaterials)

	require.True(t, s.Materials["M001"].Quantity.Equal(decimal.NewFromInt(50)))
	require.Equal(t, "P001", s.OrderItems["ORD-1"][0].ProductID)
	require.Equal(t, done, *s.InvoiceStatus["INV-1"].CompletionDate)
	require.Empty(t, s.Dirty())
	require.Equal(t, []Collection{CollectionMaterials}, c.Dirty())
}

func TestDirtyFollowsCommitOrder(t *testing.T) {
	s := NewState()
	s.Touch(CollectionIncome, CollectionProducts, CollectionOrders, CollectionIncome)
	require.Equal(t, []Collection{CollectionProducts, CollectionOrders, CollectionIncome}, s.Dirty())
	s.ResetDirty()
	require.Empty(t, s.Dirty())
}

func TestIncomeIndexMatchesCalendarDay(t *testing.T) {
	s := NewState()
	s.Income = append(s.Income, IncomeEntry{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})
	require.Equal(t, 0, s.IncomeIndex(time.Date(2024, 3, 2, 17, 30, 0, 0, time.UTC)))
	require.Equal(t, -1, s.IncomeIndex(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
}

func TestErrorTaxonomy(t *testing.T) {
	stock := &InsufficientStockError{Shortages: []Shortage{{
		MaterialID: "M001",
		Required:   decimal.NewFromInt(500),
		Available:  decimal.NewFromInt(50),
		Shortage:   decimal.NewFromInt(450),
	}}}
	require.ErrorIs(t, stock, ErrInsufficientStock)
	require.Contains(t, stock.Error(), "M001 required=500 available=50 shortage=450")

	perr := &PersistenceError{Collection: CollectionOrders, Err: errors.New("disk full")}
	require.ErrorIs(t, perr, ErrPersistence)
	require.Contains(t, perr.Error(), "orders")

	require.ErrorIs(t, NotFound("product", "P9"), ErrNotFound)
	require.ErrorIs(t, Duplicate("product", "P1"), ErrDuplicateKey)
	require.ErrorIs(t, Invalid("customer name required"), ErrValidation)
}

type sample struct {
	Name string          `validate:"required"`
	Qty  decimal.Decimal `validate:"gt=0"`
}

func TestValidateDecimal(t *testing.T) {
	require.NoError(t, Validate(sample{Name: "x", Qty: decimal.NewFromFloat(0.5)}))

	err := Validate(sample{Name: "", Qty: decimal.Zero})
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
}

func TestFormatVND(t *testing.T) {
	require.Equal(t, "575,000 VND", FormatVND(decimal.NewFromInt(575000)))
	require.Equal(t, "1,234,568 VND", FormatVND(decimal.RequireFromString("1234567.6")))
}

func TestOrderSales(t *testing.T) {
	o := Order{
		ProductSubtotal: decimal.NewFromInt(100000),
		DiscountAmount:  decimal.NewFromInt(10000),
		ShippingFee:     decimal.NewFromInt(20000),
	}
	require.True(t, o.Sales().Equal(decimal.NewFromInt(110000)))
}
