package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/orders"
	"github.com/CuongMinh72/bakery-sys/internal/pos"
	"github.com/CuongMinh72/bakery-sys/report"
)

const usage = `usage: bakery <command> [flags]

commands:
  stock           list materials with their stock level
  alerts          list materials that are low or out of stock
  order           create an order (-customer, -item P001=2 ...)
  restock         add purchased quantity to a material
  invoices        list incomplete invoices
  delete-invoice  delete an invoice and reverse its effects
  delete-order    delete an order whose invoice is gone
  summary         print the income summary for a date range
  export          write the income summary workbook (.xlsx)
`

var errUsage = errors.New("invalid usage")

// CLI dispatches operator commands to the point-of-sale service.
type CLI struct {
	svc       *pos.Service
	storeName string
	out       io.Writer
	now       func() time.Time
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "stock":
		return c.stock(c.svc.StockStatuses())
	case "alerts":
		return c.stock(c.svc.StockAlerts())
	case "order":
		return c.order(ctx, rest)
	case "restock":
		return c.restock(ctx, rest)
	case "invoices":
		return c.invoices()
	case "delete-invoice":
		return c.deleteInvoice(ctx, rest)
	case "delete-order":
		return c.deleteOrder(ctx, rest)
	case "summary":
		return c.summary(rest)
	case "export":
		return c.export(rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	}
	fmt.Fprint(c.out, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (c *CLI) today() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

func (c *CLI) stock(rows []inventory.Status) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUNIT\tQUANTITY\tUSED\tREMAINING\tLEVEL")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s%%\t%s\n",
			r.MaterialID, r.Name, r.Unit, r.Quantity.String(), r.UsedQuantity.String(),
			r.PercentRemaining.StringFixed(1), r.Level)
	}
	return w.Flush()
}

// itemsFlag collects repeated -item PRODUCT=QTY values.
type itemsFlag []orders.ItemRequest

func (f *itemsFlag) String() string {
	parts := make([]string, 0, len(*f))
	for _, it := range *f {
		parts = append(parts, it.ProductID+"="+it.Quantity.String())
	}
	return strings.Join(parts, ",")
}

func (f *itemsFlag) Set(v string) error {
	id, qty, ok := strings.Cut(v, "=")
	if !ok {
		id, qty = v, "1"
	}
	q, err := decimal.NewFromString(strings.TrimSpace(qty))
	if err != nil {
		return fmt.Errorf("item %q: %w", v, err)
	}
	*f = append(*f, orders.ItemRequest{ProductID: strings.TrimSpace(id), Quantity: q})
	return nil
}

// decimalFlag parses a decimal flag value.
type decimalFlag struct{ v decimal.Decimal }

func (f *decimalFlag) String() string { return f.v.String() }

func (f *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	f.v = v
	return nil
}

func (c *CLI) order(ctx context.Context, args []string) error {
	fs := c.flags("order")
	var (
		items    itemsFlag
		shipping decimalFlag
	)
	customer := fs.String("customer", "", "customer name (required)")
	phone := fs.String("phone", "", "customer phone")
	address := fs.String("address", "", "customer address")
	discount := fs.String("discount", "", "discount code")
	payment := fs.String("payment", "cash", "payment method")
	fs.Var(&items, "item", "PRODUCT=QTY, repeatable")
	fs.Var(&shipping, "shipping", "shipping fee")
	if err := fs.Parse(args); err != nil {
		return err
	}
	created, err := c.svc.CreateOrder(ctx, orders.CreateOrderRequest{
		CustomerName:    *customer,
		CustomerPhone:   *phone,
		CustomerAddress: *address,
		Items:           items,
		ShippingFee:     shipping.v,
		DiscountCode:    *discount,
		PaymentMethod:   *payment,
	})
	var stock *bakery.InsufficientStockError
	if errors.As(err, &stock) {
		fmt.Fprintln(c.out, "insufficient stock:")
		for _, s := range stock.Shortages {
			fmt.Fprintf(c.out, "  %s required %s available %s short %s\n",
				s.MaterialID, s.Required.String(), s.Available.String(), s.Shortage.String())
		}
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "order %s invoice %s total %s\n",
		created.Order.ID, created.Invoice.ID, bakery.FormatVND(created.Invoice.GrandTotal))
	return nil
}

func (c *CLI) restock(ctx context.Context, args []string) error {
	fs := c.flags("restock")
	var qty, cost decimalFlag
	id := fs.String("material", "", "material id (required)")
	name := fs.String("name", "", "name of a new material")
	unit := fs.String("unit", "", "unit of a new material")
	supplier := fs.String("supplier", "", "supplier")
	note := fs.String("note", "", "note")
	fs.Var(&qty, "qty", "purchased quantity")
	fs.Var(&cost, "cost", "total cost paid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := c.svc.Restock(ctx, inventory.RestockInput{
		MaterialID: *id,
		Quantity:   qty.v,
		TotalCost:  cost.v,
		Supplier:   *supplier,
		Note:       *note,
		Name:       *name,
		Unit:       *unit,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s now %s %s at %s\n", m.ID, m.Quantity.String(), m.Unit, bakery.FormatVND(m.PricePerUnit))
	return nil
}

func (c *CLI) invoices() error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INVOICE\tORDER\tDATE\tCUSTOMER\tTOTAL\tPAYMENT")
	for _, r := range c.svc.IncompleteInvoices() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.OrderID, r.Date.Format(bakery.DateLayout), r.CustomerName,
			bakery.FormatVND(r.GrandTotal), r.Status.PaymentStatus)
	}
	return w.Flush()
}

func (c *CLI) deleteInvoice(ctx context.Context, args []string) error {
	fs := c.flags("delete-invoice")
	id := fs.String("id", "", "invoice id (required)")
	keep := fs.Bool("keep-order", false, "keep the order record")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := c.svc.DeleteInvoice(ctx, *id, !*keep)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s (order %s, order deleted %t, materials restored %t, ledger reversed %t)\n",
		res.InvoiceID, res.OrderID, res.OrderDeleted, res.MaterialsRestored, res.LedgerReversed)
	c.missing(res.MissingMaterials)
	return nil
}

func (c *CLI) deleteOrder(ctx context.Context, args []string) error {
	fs := c.flags("delete-order")
	id := fs.String("id", "", "order id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := c.svc.DeleteOrder(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted order %s (materials restored %t, ledger reversed %t)\n",
		res.OrderID, res.MaterialsRestored, res.LedgerReversed)
	c.missing(res.MissingMaterials)
	return nil
}

func (c *CLI) missing(ids []string) {
	if len(ids) > 0 {
		fmt.Fprintf(c.out, "missing materials: %s\n", strings.Join(ids, ", "))
	}
}

// rangeFlags registers -from/-to, defaulting to the current month.
func (c *CLI) rangeFlags(fs *flag.FlagSet) func() (time.Time, time.Time, error) {
	today := bakery.Day(c.today())
	first := today.AddDate(0, 0, 1-today.Day())
	from := fs.String("from", first.Format(bakery.DateLayout), "first day (YYYY-MM-DD)")
	to := fs.String("to", today.Format(bakery.DateLayout), "last day (YYYY-MM-DD)")
	return func() (time.Time, time.Time, error) {
		f, err := bakery.ParseDay(*from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
		t, err := bakery.ParseDay(*to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
		return f, t, nil
	}
}

func (c *CLI) summary(args []string) error {
	fs := c.flags("summary")
	dates := c.rangeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	from, to, err := dates()
	if err != nil {
		return err
	}
	s := c.svc.Summary(from, to)
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s .. %s\n", c.storeName, from.Format(bakery.DateLayout), to.Format(bakery.DateLayout))
	for _, row := range []struct {
		label string
		v     decimal.Decimal
	}{
		{"Total sales", s.TotalSales},
		{"Cost of goods", s.CostOfGoods},
		{"Total costs", s.TotalCosts},
		{"Gross profit", s.GrossProfit},
		{"Net profit", s.NetProfit},
	} {
		fmt.Fprintf(w, "%s\t%s\n", row.label, bakery.FormatVND(row.v))
	}
	fmt.Fprintf(w, "Net margin\t%s%%\n", s.NetMarginPct.StringFixed(2))
	return w.Flush()
}

func (c *CLI) export(args []string) error {
	fs := c.flags("export")
	dates := c.rangeFlags(fs)
	out := fs.String("out", "income.xlsx", "output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	from, to, err := dates()
	if err != nil {
		return err
	}
	data := report.SummaryData{
		StoreName: c.storeName,
		Summary:   c.svc.Summary(from, to),
		Months:    c.svc.Monthly(from, to),
		Entries:   c.svc.IncomeEntries(from, to),
	}
	if err := report.ExportSummary(*out, data); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "wrote %s\n", *out)
	return nil
}
