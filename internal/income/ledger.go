// Package income maintains the daily income ledger and the period cost logs.
package income

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// Delta is one order's contribution to a ledger row.
type Delta struct {
	Sales        decimal.Decimal
	Material     decimal.Decimal
	Other        decimal.Decimal
	Depreciation decimal.Decimal
	Discount     decimal.Decimal
	Shipping     decimal.Decimal
}

// Profit is sales less material, other and depreciation costs. Discount is
// already netted out of Sales.
func (d Delta) Profit() decimal.Decimal {
	return d.Sales.Sub(d.Material).Sub(d.Other).Sub(d.Depreciation)
}

// Apply adds delta to the row for date, creating the row when missing.
func Apply(st *bakery.State, date time.Time, delta Delta) bakery.IncomeEntry {
	idx := st.IncomeIndex(date)
	if idx < 0 {
		st.Income = append(st.Income, bakery.IncomeEntry{Date: bakery.Day(date)})
		sort.Slice(st.Income, func(i, j int) bool { return st.Income[i].Date.Before(st.Income[j].Date) })
		idx = st.IncomeIndex(date)
	}
	row := st.Income[idx]
	row.TotalSales = row.TotalSales.Add(delta.Sales)
	row.CostOfGoods = row.CostOfGoods.Add(delta.Material)
	row.OtherCosts = row.OtherCosts.Add(delta.Other)
	row.DepreciationCosts = row.DepreciationCosts.Add(delta.Depreciation)
	row.DiscountCosts = row.DiscountCosts.Add(delta.Discount)
	row.ShippingRevenue = row.ShippingRevenue.Add(delta.Shipping)
	row.Profit = row.Profit.Add(delta.Profit())
	st.Income[idx] = row
	st.Touch(bakery.CollectionIncome)
	return row
}

// Reverse subtracts delta from the row for date. A row whose sales drop to
// zero or below is removed. It reports whether a row existed.
func Reverse(st *bakery.State, date time.Time, delta Delta) bool {
	idx := st.IncomeIndex(date)
	if idx < 0 {
		return false
	}
	row := st.Income[idx]
	row.TotalSales = row.TotalSales.Sub(delta.Sales)
	row.CostOfGoods = row.CostOfGoods.Sub(delta.Material)
	row.OtherCosts = row.OtherCosts.Sub(delta.Other)
	row.DepreciationCosts = row.DepreciationCosts.Sub(delta.Depreciation)
	row.DiscountCosts = row.DiscountCosts.Sub(delta.Discount)
	row.ShippingRevenue = row.ShippingRevenue.Sub(delta.Shipping)
	row.Profit = row.Profit.Sub(delta.Profit())
	if row.TotalSales.LessThanOrEqual(decimal.Zero) {
		st.Income = append(st.Income[:idx], st.Income[idx+1:]...)
	} else {
		st.Income[idx] = row
	}
	st.Touch(bakery.CollectionIncome)
	return true
}

// Entries returns the ledger rows within [from, to]. Zero bounds are open.
func Entries(st *bakery.State, from, to time.Time) []bakery.IncomeEntry {
	var out []bakery.IncomeEntry
	for _, e := range st.Income {
		if inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

func inRange(date, from, to time.Time) bool {
	day := bakery.Day(date)
	if !from.IsZero() && day.Before(bakery.Day(from)) {
		return false
	}
	if !to.IsZero() && day.After(bakery.Day(to)) {
		return false
	}
	return true
}
