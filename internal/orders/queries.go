package orders

import (
	"sort"
	"time"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/invoices"
)

// List returns orders dated within [from, to], newest first. Zero bounds are open.
func List(st *bakery.State, from, to time.Time) []bakery.Order {
	var out []bakery.Order
	for _, o := range st.Orders {
		day := bakery.Day(o.Date)
		if !from.IsZero() && day.Before(bakery.Day(from)) {
			continue
		}
		if !to.IsZero() && day.After(bakery.Day(to)) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Detail is an order with its product lines and invoice ids.
type Detail struct {
	Order      bakery.Order
	Lines      []invoices.Line
	InvoiceIDs []string
}

// Get returns the detail of one order.
func Get(st *bakery.State, id string) (Detail, error) {
	o, ok := st.Orders[id]
	if !ok {
		return Detail{}, bakery.NotFound("order", id)
	}
	d := Detail{
		Order:      o,
		Lines:      invoices.Lines(st, id),
		InvoiceIDs: invoices.ForOrder(st, id),
	}
	return d, nil
}
