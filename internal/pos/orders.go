package pos

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/orders"
)

// CheckSufficient reports whether current stock covers items.
func (s *Service) CheckSufficient(items []bakery.ItemQty) (bool, []bakery.Shortage, error) {
	return inventory.CheckSufficient(s.current(), items)
}

// CreateOrder books an order, deducts its materials, posts it to the income
// ledger and issues its invoice, all or nothing.
func (s *Service) CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (orders.Created, error) {
	ids := orders.IDs{OrderID: s.newID("ORD"), InvoiceID: s.newID("INV")}
	opts := orders.Options{Policy: s.cfg.Policy, Discounts: s.cfg.Discounts}
	var created orders.Created
	err := s.mutate(ctx, "CreateOrder", func(st *bakery.State) error {
		var err error
		created, err = orders.Create(st, req, ids, s.now(), opts)
		return err
	}, attribute.String("order_id", ids.OrderID))
	s.metrics.ObserveOrder(err)
	if err != nil {
		return orders.Created{}, err
	}
	s.logger.Info("order created",
		slog.String("order_id", created.Order.ID),
		slog.String("invoice_id", created.Invoice.ID),
		slog.Int("items", len(created.Items)),
		slog.String("grand_total", created.Invoice.GrandTotal.String()))
	return created, nil
}

// DeleteInvoice removes an invoice and reverses the stock and ledger effects
// of its order. The result says which effects were reversed.
func (s *Service) DeleteInvoice(ctx context.Context, invoiceID string, alsoDeleteOrder bool) (orders.Deleted, error) {
	var res orders.Deleted
	err := s.mutate(ctx, "DeleteInvoice", func(st *bakery.State) error {
		var err error
		res, err = orders.DeleteInvoice(st, invoiceID, alsoDeleteOrder)
		return err
	}, attribute.String("invoice_id", invoiceID), attribute.Bool("delete_order", alsoDeleteOrder))
	if err != nil {
		return orders.Deleted{}, err
	}
	s.metrics.ObserveInvoiceDeleted(res.OrderDeleted)
	attrs := []any{
		slog.String("invoice_id", res.InvoiceID),
		slog.String("order_id", res.OrderID),
		slog.Bool("materials_restored", res.MaterialsRestored),
		slog.Bool("ledger_reversed", res.LedgerReversed),
		slog.Bool("order_deleted", res.OrderDeleted),
	}
	if len(res.MissingMaterials) > 0 {
		s.logger.Warn("invoice deleted with missing materials", append(attrs, slog.Any("missing_materials", res.MissingMaterials))...)
	} else {
		s.logger.Info("invoice deleted", attrs...)
	}
	return res, nil
}

// DeleteOrder removes an order that no longer has an invoice.
func (s *Service) DeleteOrder(ctx context.Context, orderID string) (orders.Deleted, error) {
	var res orders.Deleted
	err := s.mutate(ctx, "DeleteOrder", func(st *bakery.State) error {
		var err error
		res, err = orders.DeleteOrder(st, orderID)
		return err
	}, attribute.String("order_id", orderID))
	if err != nil {
		return orders.Deleted{}, err
	}
	s.logger.Info("order deleted",
		slog.String("order_id", res.OrderID),
		slog.Bool("materials_restored", res.MaterialsRestored),
		slog.Bool("ledger_reversed", res.LedgerReversed))
	return res, nil
}

// Restock receives a material purchase.
func (s *Service) Restock(ctx context.Context, in inventory.RestockInput) (bakery.Material, error) {
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	var m bakery.Material
	err := s.mutate(ctx, "Restock", func(st *bakery.State) error {
		var err error
		m, err = inventory.Restock(st, in)
		return err
	}, attribute.String("material_id", in.MaterialID))
	if err != nil {
		return bakery.Material{}, err
	}
	s.logger.Info("material restocked",
		slog.String("material_id", m.ID),
		slog.String("quantity", m.Quantity.String()),
		slog.String("price_per_unit", m.PricePerUnit.String()))
	return m, nil
}

// ManualAdjust overwrites the stock figures of a material.
func (s *Service) ManualAdjust(ctx context.Context, in inventory.AdjustInput) (bakery.Material, error) {
	var m bakery.Material
	err := s.mutate(ctx, "ManualAdjust", func(st *bakery.State) error {
		var err error
		m, err = inventory.ManualAdjust(st, in, s.cfg.Policy)
		return err
	}, attribute.String("material_id", in.MaterialID))
	if err != nil {
		return bakery.Material{}, err
	}
	s.logger.Info("material adjusted", slog.String("material_id", m.ID), slog.String("quantity", m.Quantity.String()))
	return m, nil
}
