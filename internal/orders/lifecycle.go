// Package orders runs the order lifecycle: stock gate, inventory deduction,
// ledger posting and invoicing, and their reversal on invoice deletion.
package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
	"github.com/CuongMinh72/bakery-sys/internal/income"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/invoices"
)

// Options tune the lifecycle rules.
type Options struct {
	Policy    inventory.Policy
	Discounts DiscountTable
}

func (o Options) discounts() DiscountTable {
	if o.Discounts == nil {
		return DefaultDiscounts
	}
	return o.Discounts
}

func (r CreateOrderRequest) normalize() CreateOrderRequest {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.CustomerAddress = strings.TrimSpace(r.CustomerAddress)
	r.Items = append([]ItemRequest(nil), r.Items...)
	for i := range r.Items {
		r.Items[i].ProductID = strings.TrimSpace(r.Items[i].ProductID)
	}
	return r
}

func (r CreateOrderRequest) quantities() []bakery.ItemQty {
	out := make([]bakery.ItemQty, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, bakery.ItemQty{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// Create books a new order against st. On any error st may hold partial
// changes and must be discarded by the caller; an insufficient-stock
// rejection returns before anything is touched.
func Create(st *bakery.State, req CreateOrderRequest, ids IDs, now time.Time, opts Options) (Created, error) {
	req = req.normalize()
	if err := bakery.Validate(req); err != nil {
		return Created{}, err
	}
	if _, ok := st.Orders[ids.OrderID]; ok {
		return Created{}, bakery.Duplicate("order", ids.OrderID)
	}
	for _, it := range req.Items {
		if _, ok := st.Products[it.ProductID]; !ok {
			return Created{}, bakery.NotFound("product", it.ProductID)
		}
	}

	qtys := req.quantities()
	ok, shortages, err := inventory.CheckSufficient(st, qtys)
	if err != nil {
		return Created{}, fmt.Errorf("orders: check stock: %w", err)
	}
	if !ok {
		return Created{}, &bakery.InsufficientStockError{Shortages: shortages}
	}

	date := req.Date
	if date.IsZero() {
		date = now
	}
	order := bakery.Order{
		ID:              ids.OrderID,
		Date:            bakery.Day(date),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ProductSubtotal: decimal.Zero,
		ShippingFee:     req.ShippingFee,
		Status:          bakery.OrderStatusCompleted,
		CreatedAt:       now.UTC(),
	}
	items := make([]bakery.OrderItem, 0, len(req.Items))
	var consumed []bakery.MaterialUsage
	for _, it := range req.Items {
		p := st.Products[it.ProductID]
		snap, err := costing.Snapshot(st, it.ProductID, it.Quantity)
		if err != nil {
			return Created{}, fmt.Errorf("orders: cost snapshot: %w", err)
		}
		item := bakery.OrderItem{
			OrderID:   order.ID,
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			Subtotal:  p.Price.Mul(it.Quantity),
			Cost:      snap,
		}
		order.ProductSubtotal = order.ProductSubtotal.Add(item.Subtotal)
		consumed = append(consumed, snap.Consumed...)
		items = append(items, item)
	}
	code, pct := opts.discounts().Resolve(req.DiscountCode)
	order.DiscountCode = code
	order.DiscountAmount = bakery.Percent(order.ProductSubtotal, pct)

	st.Orders[order.ID] = order
	st.OrderItems[order.ID] = items
	st.Touch(bakery.CollectionOrders, bakery.CollectionOrderItems)

	if err := inventory.Consume(st, consumed); err != nil {
		return Created{}, fmt.Errorf("orders: deduct materials: %w", err)
	}
	if opts.Policy != inventory.PolicyPermissive {
		if neg := inventory.Negatives(st, materialIDs(consumed)); len(neg) > 0 {
			return Created{}, &bakery.InsufficientStockError{Shortages: neg}
		}
	}

	cost, err := costing.RecordedCost(st, items)
	if err != nil {
		return Created{}, fmt.Errorf("orders: order cost: %w", err)
	}
	income.Apply(st, order.Date, ledgerDelta(order, cost))

	inv, err := invoices.Issue(st, ids.InvoiceID, order, req.PaymentMethod)
	if err != nil {
		return Created{}, fmt.Errorf("orders: issue invoice: %w", err)
	}
	return Created{Order: order, Items: items, Invoice: inv, Cost: cost}, nil
}

// DeleteInvoice removes an invoice and undoes the stock and ledger effects of
// its order. With alsoDeleteOrder the order and its items are removed too;
// otherwise the order is kept and marked reversed so its effects cannot be
// undone twice.
func DeleteInvoice(st *bakery.State, invoiceID string, alsoDeleteOrder bool) (Deleted, error) {
	inv, ok := st.Invoices[invoiceID]
	if !ok {
		return Deleted{}, bakery.NotFound("invoice", invoiceID)
	}
	res := Deleted{InvoiceID: invoiceID, OrderID: inv.OrderID}

	order, hasOrder := st.Orders[inv.OrderID]
	if hasOrder {
		if err := reverse(st, order, &res); err != nil {
			return Deleted{}, err
		}
	}

	if err := invoices.Remove(st, invoiceID); err != nil {
		return Deleted{}, err
	}

	if hasOrder {
		if alsoDeleteOrder {
			delete(st.Orders, order.ID)
			delete(st.OrderItems, order.ID)
			st.Touch(bakery.CollectionOrders, bakery.CollectionOrderItems)
			res.OrderDeleted = true
		} else if order.Status != bakery.OrderStatusReversed {
			order.Status = bakery.OrderStatusReversed
			st.Orders[order.ID] = order
			st.Touch(bakery.CollectionOrders)
		}
	}
	return res, nil
}

// DeleteOrder removes an order that has no invoice left, such as one kept
// when its invoice was deleted. Its stock and ledger effects are undone unless
// that already happened.
func DeleteOrder(st *bakery.State, orderID string) (Deleted, error) {
	order, ok := st.Orders[orderID]
	if !ok {
		return Deleted{}, bakery.NotFound("order", orderID)
	}
	if inv := invoices.ForOrder(st, orderID); len(inv) > 0 {
		return Deleted{}, bakery.Invalid("order %s still has invoice %s, delete the invoice instead", orderID, inv[0])
	}
	res := Deleted{OrderID: orderID}
	if err := reverse(st, order, &res); err != nil {
		return Deleted{}, err
	}
	delete(st.Orders, orderID)
	delete(st.OrderItems, orderID)
	st.Touch(bakery.CollectionOrders, bakery.CollectionOrderItems)
	res.OrderDeleted = true
	return res, nil
}

// reverse returns the consumed materials and subtracts the ledger delta of an
// order that is not yet reversed.
func reverse(st *bakery.State, order bakery.Order, res *Deleted) error {
	if order.Status == bakery.OrderStatusReversed {
		return nil
	}
	items := st.OrderItems[order.ID]
	cost, err := costing.RecordedCost(st, items)
	if err != nil {
		return fmt.Errorf("orders: order cost: %w", err)
	}
	res.MissingMaterials = inventory.Return(st, consumption(st, items))
	res.MaterialsRestored = true
	res.LedgerReversed = income.Reverse(st, order.Date, ledgerDelta(order, cost))
	return nil
}

func ledgerDelta(order bakery.Order, cost costing.Breakdown) income.Delta {
	return income.Delta{
		Sales:        order.Sales(),
		Material:     cost.Material,
		Other:        cost.Other,
		Depreciation: cost.Depreciation,
		Discount:     order.DiscountAmount,
		Shipping:     order.ShippingFee,
	}
}

// consumption returns what the items took from stock: the snapshot when the
// item has one, otherwise the current recipe.
func consumption(st *bakery.State, items []bakery.OrderItem) []bakery.MaterialUsage {
	var usage []bakery.MaterialUsage
	for _, it := range items {
		if it.Cost != nil {
			usage = append(usage, it.Cost.Consumed...)
			continue
		}
		usage = append(usage, inventory.Requirements(st, []bakery.ItemQty{{ProductID: it.ProductID, Quantity: it.Quantity}})...)
	}
	return usage
}

func materialIDs(usage []bakery.MaterialUsage) []string {
	seen := make(map[string]struct{}, len(usage))
	var ids []string
	for _, u := range usage {
		if _, ok := seen[u.MaterialID]; ok {
			continue
		}
		seen[u.MaterialID] = struct{}{}
		ids = append(ids, u.MaterialID)
	}
	return ids
}
