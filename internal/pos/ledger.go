package pos

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/income"
	"github.com/CuongMinh72/bakery-sys/internal/invoices"
)

// UpdateInvoiceStatus rewrites the completion and payment status of an invoice.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, in invoices.StatusUpdate) (bakery.InvoiceStatus, error) {
	var status bakery.InvoiceStatus
	err := s.mutate(ctx, "UpdateInvoiceStatus", func(st *bakery.State) error {
		var err error
		status, err = invoices.UpdateStatus(st, in, s.now())
		return err
	}, attribute.String("invoice_id", in.InvoiceID))
	if err != nil {
		return bakery.InvoiceStatus{}, err
	}
	s.logger.Info("invoice status updated",
		slog.String("invoice_id", status.InvoiceID),
		slog.Bool("completed", status.IsCompleted),
		slog.String("payment_status", string(status.PaymentStatus)))
	return status, nil
}

// CompleteInvoices marks several invoices completed on date.
func (s *Service) CompleteInvoices(ctx context.Context, ids []string, date time.Time, note string) error {
	if date.IsZero() {
		date = s.now()
	}
	err := s.mutate(ctx, "CompleteInvoices", func(st *bakery.State) error {
		return invoices.Complete(st, ids, date, note)
	}, attribute.Int("invoices", len(ids)))
	if err == nil {
		s.logger.Info("invoices completed", slog.Any("invoice_ids", ids))
	}
	return err
}

// AddExpense records a labor or marketing cost.
func (s *Service) AddExpense(ctx context.Context, kind income.ExpenseKind, in income.ExpenseInput) (bakery.ExpenseEntry, error) {
	prefix := "LAB"
	if kind == income.ExpenseMarketing {
		prefix = "MKT"
	}
	id := s.newID(prefix)
	var entry bakery.ExpenseEntry
	err := s.mutate(ctx, "AddExpense", func(st *bakery.State) error {
		var err error
		entry, err = income.AddExpense(st, kind, id, in)
		return err
	}, attribute.String("kind", string(kind)))
	if err != nil {
		return bakery.ExpenseEntry{}, err
	}
	s.logger.Info("expense recorded", slog.String("kind", string(kind)), slog.String("id", entry.ID), slog.String("amount", entry.Amount.String()))
	return entry, nil
}

// DeleteExpense removes a labor or marketing cost.
func (s *Service) DeleteExpense(ctx context.Context, kind income.ExpenseKind, id string) error {
	return s.mutate(ctx, "DeleteExpense", func(st *bakery.State) error {
		return income.DeleteExpense(st, kind, id)
	}, attribute.String("kind", string(kind)), attribute.String("id", id))
}
