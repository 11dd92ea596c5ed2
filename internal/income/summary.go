package income

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// Summary is the read-side reduction of the ledger and the cost logs over a
// date range.
type Summary struct {
	From, To time.Time

	TotalSales        decimal.Decimal
	ShippingRevenue   decimal.Decimal
	CostOfGoods       decimal.Decimal
	OtherCosts        decimal.Decimal
	DepreciationCosts decimal.Decimal
	DiscountCosts     decimal.Decimal
	MaterialPurchases decimal.Decimal
	LaborCosts        decimal.Decimal
	MarketingCosts    decimal.Decimal

	TotalCosts     decimal.Decimal
	GrossProfit    decimal.Decimal
	NetProfit      decimal.Decimal
	GrossMarginPct decimal.Decimal
	NetMarginPct   decimal.Decimal
}

// Summarize combines ledger rows with purchase, labor and marketing logs whose
// dates fall in [from, to]. Discounts are reported but not counted as a cost
// because sales are recorded net of them.
func Summarize(st *bakery.State, from, to time.Time) Summary {
	s := Summary{From: from, To: to}
	for _, e := range Entries(st, from, to) {
		s.TotalSales = s.TotalSales.Add(e.TotalSales)
		s.ShippingRevenue = s.ShippingRevenue.Add(e.ShippingRevenue)
		s.CostOfGoods = s.CostOfGoods.Add(e.CostOfGoods)
		s.OtherCosts = s.OtherCosts.Add(e.OtherCosts)
		s.DepreciationCosts = s.DepreciationCosts.Add(e.DepreciationCosts)
		s.DiscountCosts = s.DiscountCosts.Add(e.DiscountCosts)
	}
	for _, e := range st.MaterialCosts {
		if inRange(e.Date, from, to) {
			s.MaterialPurchases = s.MaterialPurchases.Add(e.TotalCost)
		}
	}
	s.LaborCosts = sumExpenses(st.LaborCosts, from, to)
	s.MarketingCosts = sumExpenses(st.MarketingCosts, from, to)

	s.TotalCosts = s.CostOfGoods.
		Add(s.OtherCosts).
		Add(s.DepreciationCosts).
		Add(s.MaterialPurchases).
		Add(s.LaborCosts).
		Add(s.MarketingCosts)
	s.GrossProfit = s.TotalSales.Sub(s.CostOfGoods)
	s.NetProfit = s.TotalSales.Sub(s.TotalCosts)
	s.GrossMarginPct = bakery.Ratio(s.GrossProfit, s.TotalSales)
	s.NetMarginPct = bakery.Ratio(s.NetProfit, s.TotalSales)
	return s
}

func sumExpenses(entries []bakery.ExpenseEntry, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if inRange(e.Date, from, to) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// MonthRow is one calendar month of the monthly breakdown.
type MonthRow struct {
	Month       time.Time
	Sales       decimal.Decimal
	CostOfGoods decimal.Decimal
	OtherCosts  decimal.Decimal
	TotalCost   decimal.Decimal
	NetProfit   decimal.Decimal
	MarginPct   decimal.Decimal
}

// Monthly splits [from, to] into calendar months. Other costs of a month are
// the non-COGS costs: auxiliary fees, purchases, labor and marketing.
func Monthly(st *bakery.State, from, to time.Time) []MonthRow {
	from, to = bakery.Day(from), bakery.Day(to)
	if to.Before(from) {
		return nil
	}
	var rows []MonthRow
	for start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !start.After(to); start = start.AddDate(0, 1, 0) {
		end := start.AddDate(0, 1, -1)
		s := Summarize(st, start, end)
		other := s.TotalCosts.Sub(s.CostOfGoods)
		rows = append(rows, MonthRow{
			Month:       start,
			Sales:       s.TotalSales,
			CostOfGoods: s.CostOfGoods,
			OtherCosts:  other,
			TotalCost:   s.TotalCosts,
			NetProfit:   s.NetProfit,
			MarginPct:   s.NetMarginPct,
		})
	}
	return rows
}
