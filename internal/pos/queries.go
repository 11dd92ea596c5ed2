package pos

import (
	"time"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/catalog"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
	"github.com/CuongMinh72/bakery-sys/internal/income"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/invoices"
	"github.com/CuongMinh72/bakery-sys/internal/orders"
)

// Products lists products by id.
func (s *Service) Products() []bakery.Product {
	return s.current().SortedProducts()
}

// Product returns one product.
func (s *Service) Product(id string) (bakery.Product, error) {
	return catalog.Product(s.current(), id)
}

// Materials lists materials by id.
func (s *Service) Materials() []bakery.Material {
	return s.current().SortedMaterials()
}

// Material returns one material.
func (s *Service) Material(id string) (bakery.Material, error) {
	return catalog.Material(s.current(), id)
}

// Recipe returns the bill of materials of a product.
func (s *Service) Recipe(productID string) []bakery.RecipeEdge {
	return s.current().Recipe(productID)
}

// StockStatuses classifies every material.
func (s *Service) StockStatuses() []inventory.Status {
	return inventory.Statuses(s.current())
}

// StockAlerts lists materials that are out of stock or low.
func (s *Service) StockAlerts() []inventory.Status {
	return inventory.Alerts(s.current())
}

// OrderCost prices items at current material prices.
func (s *Service) OrderCost(items []bakery.ItemQty) (costing.Breakdown, error) {
	return costing.OrderCost(s.current(), items)
}

// CostSheet prices one unit of a product at the configured markup.
func (s *Service) CostSheet(productID string) (costing.CostSheet, error) {
	return costing.ProductCostSheet(s.current(), productID, s.cfg.MarkupPct)
}

// Orders lists orders dated within [from, to], newest first.
func (s *Service) Orders(from, to time.Time) []bakery.Order {
	return orders.List(s.current(), from, to)
}

// Order returns an order with its lines and invoices.
func (s *Service) Order(id string) (orders.Detail, error) {
	return orders.Get(s.current(), id)
}

// Invoices lists invoices matching f, newest first.
func (s *Service) Invoices(f invoices.Filter) []invoices.Row {
	return invoices.List(s.current(), f)
}

// IncompleteInvoices lists invoices not yet completed.
func (s *Service) IncompleteInvoices() []invoices.Row {
	return invoices.Incomplete(s.current())
}

// InvoiceView returns the denormalized invoice for rendering.
func (s *Service) InvoiceView(invoiceID string) (invoices.View, error) {
	return invoices.Render(s.current(), invoiceID)
}

// IncomeEntries returns the ledger rows within [from, to].
func (s *Service) IncomeEntries(from, to time.Time) []bakery.IncomeEntry {
	return income.Entries(s.current(), from, to)
}

// Summary reduces the ledger and cost logs over [from, to].
func (s *Service) Summary(from, to time.Time) income.Summary {
	return income.Summarize(s.current(), from, to)
}

// Monthly breaks [from, to] down by calendar month.
func (s *Service) Monthly(from, to time.Time) []income.MonthRow {
	return income.Monthly(s.current(), from, to)
}

// MaterialPurchases returns the purchase log.
func (s *Service) MaterialPurchases() []bakery.MaterialCostEntry {
	return append([]bakery.MaterialCostEntry(nil), s.current().MaterialCosts...)
}

// Expenses returns the labor or marketing log.
func (s *Service) Expenses(kind income.ExpenseKind) []bakery.ExpenseEntry {
	st := s.current()
	if kind == income.ExpenseMarketing {
		return append([]bakery.ExpenseEntry(nil), st.MarketingCosts...)
	}
	return append([]bakery.ExpenseEntry(nil), st.LaborCosts...)
}

// Snapshot returns a private copy of the whole state.
func (s *Service) Snapshot() *bakery.State {
	return s.current().Clone()
}
