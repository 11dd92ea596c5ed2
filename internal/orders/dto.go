package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
)

// CreateOrderRequest is a draft order as entered by the operator.
type CreateOrderRequest struct {
	CustomerName    string          `validate:"required,max=120"`
	CustomerPhone   string          `validate:"max=30"`
	CustomerAddress string          `validate:"max=300"`
	Items           []ItemRequest   `validate:"required,min=1,dive"`
	ShippingFee     decimal.Decimal `validate:"gte=0"`
	DiscountCode    string          `validate:"max=40"`
	PaymentMethod   string          `validate:"max=40"`
	// Date defaults to the creation day.
	Date time.Time
}

// ItemRequest is one requested product line.
type ItemRequest struct {
	ProductID string          `validate:"required"`
	Quantity  decimal.Decimal `validate:"gt=0"`
}

// IDs are the identifiers assigned to a new order and its invoice.
type IDs struct {
	OrderID   string
	InvoiceID string
}

// Created is the outcome of a successful Create.
type Created struct {
	Order   bakery.Order
	Items   []bakery.OrderItem
	Invoice bakery.Invoice
	Cost    costing.Breakdown
}

// Deleted reports which effects an invoice deletion reversed.
type Deleted struct {
	InvoiceID         string
	OrderID           string
	MaterialsRestored bool
	LedgerReversed    bool
	OrderDeleted      bool
	// MissingMaterials lists consumed materials that no longer exist and
	// could not be restocked.
	MissingMaterials []string
}
