// Package invoices stores invoices and their completion and payment status.
package invoices

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// DefaultPaymentMethod is recorded when the caller names none.
const DefaultPaymentMethod = "cash"

// Issue creates the invoice of an order and its default status.
func Issue(st *bakery.State, id string, order bakery.Order, paymentMethod string) (bakery.Invoice, error) {
	if _, ok := st.Invoices[id]; ok {
		return bakery.Invoice{}, bakery.Duplicate("invoice", id)
	}
	if strings.TrimSpace(paymentMethod) == "" {
		paymentMethod = DefaultPaymentMethod
	}
	inv := bakery.Invoice{
		ID:            id,
		OrderID:       order.ID,
		Date:          order.Date,
		CustomerName:  order.CustomerName,
		GrandTotal:    order.Sales(),
		PaymentMethod: paymentMethod,
	}
	st.Invoices[id] = inv
	st.InvoiceStatus[id] = bakery.InvoiceStatus{InvoiceID: id, PaymentStatus: bakery.PaymentUnpaid}
	st.Touch(bakery.CollectionInvoices, bakery.CollectionInvoiceStatus)
	return inv, nil
}

// Remove deletes an invoice and its status row.
func Remove(st *bakery.State, id string) error {
	if _, ok := st.Invoices[id]; !ok {
		return bakery.NotFound("invoice", id)
	}
	delete(st.Invoices, id)
	st.Touch(bakery.CollectionInvoices)
	if _, ok := st.InvoiceStatus[id]; ok {
		delete(st.InvoiceStatus, id)
		st.Touch(bakery.CollectionInvoiceStatus)
	}
	return nil
}

// StatusUpdate replaces the workflow fields of an invoice status.
type StatusUpdate struct {
	InvoiceID      string `validate:"required"`
	IsCompleted    bool
	CompletionDate *time.Time
	Notes          string               `validate:"max=500"`
	PaymentStatus  bakery.PaymentStatus `validate:"required"`
}

// UpdateStatus rewrites an invoice status. A completed invoice without a
// completion date is stamped with now.
func UpdateStatus(st *bakery.State, in StatusUpdate, now time.Time) (bakery.InvoiceStatus, error) {
	if err := bakery.Validate(in); err != nil {
		return bakery.InvoiceStatus{}, err
	}
	if !in.PaymentStatus.Valid() {
		return bakery.InvoiceStatus{}, bakery.Invalid("unknown payment status %q", in.PaymentStatus)
	}
	if _, ok := st.Invoices[in.InvoiceID]; !ok {
		return bakery.InvoiceStatus{}, bakery.NotFound("invoice", in.InvoiceID)
	}
	status := bakery.InvoiceStatus{
		InvoiceID:     in.InvoiceID,
		IsCompleted:   in.IsCompleted,
		Notes:         in.Notes,
		PaymentStatus: in.PaymentStatus,
	}
	if in.IsCompleted {
		date := now
		if in.CompletionDate != nil {
			date = *in.CompletionDate
		}
		date = bakery.Day(date)
		status.CompletionDate = &date
	}
	st.InvoiceStatus[in.InvoiceID] = status
	st.Touch(bakery.CollectionInvoiceStatus)
	return status, nil
}

// Complete marks several invoices completed on date. The note is written only
// where the status has none.
func Complete(st *bakery.State, ids []string, date time.Time, note string) error {
	for _, id := range ids {
		if _, ok := st.Invoices[id]; !ok {
			return bakery.NotFound("invoice", id)
		}
	}
	day := bakery.Day(date)
	for _, id := range ids {
		status, ok := st.InvoiceStatus[id]
		if !ok {
			status = bakery.InvoiceStatus{InvoiceID: id, PaymentStatus: bakery.PaymentUnpaid}
		}
		d := day
		status.IsCompleted = true
		status.CompletionDate = &d
		if status.Notes == "" {
			status.Notes = note
		}
		st.InvoiceStatus[id] = status
	}
	if len(ids) > 0 {
		st.Touch(bakery.CollectionInvoiceStatus)
	}
	return nil
}

// Filter selects invoices for listing. Zero values match everything.
type Filter struct {
	From, To      time.Time
	Completed     *bool
	PaymentStatus bakery.PaymentStatus
	OrderID       string
}

// Row is an invoice joined with its status.
type Row struct {
	bakery.Invoice
	Status bakery.InvoiceStatus
}

// List returns matching invoices, newest first.
func List(st *bakery.State, f Filter) []Row {
	var out []Row
	for id, inv := range st.Invoices {
		status, ok := st.InvoiceStatus[id]
		if !ok {
			status = bakery.InvoiceStatus{InvoiceID: id, PaymentStatus: bakery.PaymentUnpaid}
		}
		if !f.From.IsZero() && bakery.Day(inv.Date).Before(bakery.Day(f.From)) {
			continue
		}
		if !f.To.IsZero() && bakery.Day(inv.Date).After(bakery.Day(f.To)) {
			continue
		}
		if f.Completed != nil && status.IsCompleted != *f.Completed {
			continue
		}
		if f.PaymentStatus != "" && status.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.OrderID != "" && inv.OrderID != f.OrderID {
			continue
		}
		out = append(out, Row{Invoice: inv, Status: status})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Incomplete lists invoices not yet completed.
func Incomplete(st *bakery.State) []Row {
	completed := false
	return List(st, Filter{Completed: &completed})
}

// Line is a denormalized order item for renderers.
type Line struct {
	ProductID   string
	ProductName string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// View is everything a document renderer needs for one invoice.
type View struct {
	Invoice         bakery.Invoice
	Status          bakery.InvoiceStatus
	Order           bakery.Order
	Lines           []Line
	ProductSubtotal decimal.Decimal
	DiscountAmount  decimal.Decimal
	ShippingFee     decimal.Decimal
	GrandTotal      decimal.Decimal
}

// Render builds the denormalized view of an invoice.
func Render(st *bakery.State, invoiceID string) (View, error) {
	inv, ok := st.Invoices[invoiceID]
	if !ok {
		return View{}, bakery.NotFound("invoice", invoiceID)
	}
	order, ok := st.Orders[inv.OrderID]
	if !ok {
		return View{}, bakery.NotFound("order", inv.OrderID)
	}
	v := View{
		Invoice:         inv,
		Status:          st.InvoiceStatus[invoiceID],
		Order:           order,
		ProductSubtotal: order.ProductSubtotal,
		DiscountAmount:  order.DiscountAmount,
		ShippingFee:     order.ShippingFee,
		GrandTotal:      inv.GrandTotal,
	}
	v.Lines = Lines(st, order.ID)
	return v, nil
}

// Lines joins the items of an order with product names. Items whose product
// has been deleted show the product id as name.
func Lines(st *bakery.State, orderID string) []Line {
	var out []Line
	for _, it := range st.OrderItems[orderID] {
		line := Line{
			ProductID:   it.ProductID,
			ProductName: it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
		if p, ok := st.Products[it.ProductID]; ok {
			line.ProductName = p.Name
			line.Unit = p.Unit
		}
		out = append(out, line)
	}
	return out
}

// ForOrder returns the invoice ids issued for an order.
func ForOrder(st *bakery.State, orderID string) []string {
	var ids []string
	for id, inv := range st.Invoices {
		if inv.OrderID == orderID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
