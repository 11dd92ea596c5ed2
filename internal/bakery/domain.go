package bakery

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day layout used for ledger buckets and CLI input.
const DateLayout = "2006-01-02"

// Product is a sellable catalog item. The fee fields are static per-unit
// auxiliary costs set when the product is created or edited.
type Product struct {
	ID              string          `json:"product_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	ProductionFee   decimal.Decimal `json:"production_fee"`
	OtherFee        decimal.Decimal `json:"other_fee"`
	DepreciationFee decimal.Decimal `json:"depreciation_fee"`
}

// Material is a raw ingredient with its current stock and weighted-average price.
type Material struct {
	ID           string          `json:"material_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UsedQuantity decimal.Decimal `json:"used_quantity"`
}

// RecipeEdge is one bill-of-materials line of a product.
type RecipeEdge struct {
	ProductID       string          `json:"product_id"`
	MaterialID      string          `json:"material_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity"`
}

// OrderStatus enumerates persisted order states.
type OrderStatus string

const (
	// OrderStatusCompleted is assigned to every order that passed the stock gate.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusReversed marks a kept order whose invoice was deleted and
	// whose stock and ledger effects were undone.
	OrderStatusReversed OrderStatus = "reversed"
)

// Order is the header of a sale. It is immutable after creation except for deletion.
type Order struct {
	ID              string          `json:"order_id"`
	Date            time.Time       `json:"date"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	ProductSubtotal decimal.Decimal `json:"total_amount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	DiscountCode    string          `json:"discount_code"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Sales is what the order contributes to revenue: subtotal less discount plus shipping.
func (o Order) Sales() decimal.Decimal {
	return o.ProductSubtotal.Sub(o.DiscountAmount).Add(o.ShippingFee)
}

// OrderItem is a line of an order. UnitPrice is snapshotted from the product at order time.
type OrderItem struct {
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Cost      *CostSnapshot   `json:"cost,omitempty"`
}

// CostSnapshot freezes what an order item consumed and cost when it was created.
type CostSnapshot struct {
	UnitMaterialCost     decimal.Decimal `json:"unit_material_cost"`
	UnitOtherCost        decimal.Decimal `json:"unit_other_cost"`
	UnitDepreciationCost decimal.Decimal `json:"unit_depreciation_cost"`
	Consumed             []MaterialUsage `json:"consumed"`
}

// MaterialUsage is a total quantity of a material consumed by one order item.
type MaterialUsage struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Invoice is the immutable financial record issued for an order.
type Invoice struct {
	ID            string          `json:"invoice_id"`
	OrderID       string          `json:"order_id"`
	Date          time.Time       `json:"date"`
	CustomerName  string          `json:"customer_name"`
	GrandTotal    decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
}

// PaymentStatus tracks how much of an invoice has been paid.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

// InvoiceStatus is the mutable workflow state of an invoice.
type InvoiceStatus struct {
	InvoiceID      string        `json:"invoice_id"`
	IsCompleted    bool          `json:"is_completed"`
	CompletionDate *time.Time    `json:"completion_date,omitempty"`
	Notes          string        `json:"notes"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
}

// IncomeEntry is one daily bucket of the income ledger. Every field, profit
// included, is accumulated incrementally per order.
type IncomeEntry struct {
	Date              time.Time       `json:"date"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	CostOfGoods       decimal.Decimal `json:"cost_of_goods"`
	OtherCosts        decimal.Decimal `json:"other_costs"`
	DepreciationCosts decimal.Decimal `json:"depreciation_costs"`
	DiscountCosts     decimal.Decimal `json:"discount_costs"`
	ShippingRevenue   decimal.Decimal `json:"shipping_revenue"`
	Profit            decimal.Decimal `json:"profit"`
}

// MaterialCostEntry is an append-only purchase record written by restock.
type MaterialCostEntry struct {
	Date       time.Time       `json:"date"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Supplier   string          `json:"supplier"`
	Note       string          `json:"note,omitempty"`
}

// ExpenseEntry is a period expense row of the labor or marketing log.
type ExpenseEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ItemQty is a requested product quantity.
type ItemQty struct {
	ProductID string
	Quantity  decimal.Decimal
}

// Shortage describes a material the stock cannot cover.
type Shortage struct {
	MaterialID string          `json:"material_id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
	Shortage   decimal.Decimal `json:"shortage"`
}

// Day truncates t to the start of its calendar day in UTC, keeping the
// year/month/day as seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a Day value.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
