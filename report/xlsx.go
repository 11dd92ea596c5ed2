// Package report renders income summaries and invoices into documents.
package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/income"
)

// Sheet names of the summary workbook.
const (
	SheetSummary = "Summary"
	SheetMonthly = "Monthly"
	SheetDaily   = "Daily"
)

// SummaryData is everything the summary workbook shows.
type SummaryData struct {
	StoreName string
	Summary   income.Summary
	Months    []income.MonthRow
	Entries   []bakery.IncomeEntry
}

// WriteSummary writes the summary workbook as xlsx to w.
func WriteSummary(w io.Writer, data SummaryData) error {
	f, err := buildSummary(data)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

// ExportSummary saves the summary workbook at path.
func ExportSummary(path string, data SummaryData) error {
	f, err := buildSummary(data)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

func buildSummary(data SummaryData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}
	for _, name := range []string{SheetMonthly, SheetDaily} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("report: new sheet %s: %w", name, err)
		}
	}

	s := data.Summary
	summaryRows := [][]any{
		{data.StoreName},
		{"From", s.From.Format(bakery.DateLayout), "To", s.To.Format(bakery.DateLayout)},
		{},
		{"Total sales", money(s.TotalSales)},
		{"Shipping revenue", money(s.ShippingRevenue)},
		{"Cost of goods", money(s.CostOfGoods)},
		{"Other costs", money(s.OtherCosts)},
		{"Depreciation", money(s.DepreciationCosts)},
		{"Discounts", money(s.DiscountCosts)},
		{"Material purchases", money(s.MaterialPurchases)},
		{"Labor", money(s.LaborCosts)},
		{"Marketing", money(s.MarketingCosts)},
		{"Total costs", money(s.TotalCosts)},
		{"Gross profit", money(s.GrossProfit)},
		{"Net profit", money(s.NetProfit)},
		{"Gross margin %", money(s.GrossMarginPct)},
		{"Net margin %", money(s.NetMarginPct)},
	}
	if err := writeRows(f, SheetSummary, summaryRows); err != nil {
		return nil, err
	}

	monthly := [][]any{{"Month", "Sales", "Cost of goods", "Other costs", "Total cost", "Net profit", "Margin %"}}
	for _, m := range data.Months {
		monthly = append(monthly, []any{
			m.Month.Format("2006-01"),
			money(m.Sales), money(m.CostOfGoods), money(m.OtherCosts),
			money(m.TotalCost), money(m.NetProfit), money(m.MarginPct),
		})
	}
	if err := writeRows(f, SheetMonthly, monthly); err != nil {
		return nil, err
	}

	daily := [][]any{{"Date", "Sales", "Cost of goods", "Other costs", "Depreciation", "Discounts", "Shipping", "Profit"}}
	for _, e := range data.Entries {
		daily = append(daily, []any{
			e.Date.Format(bakery.DateLayout),
			money(e.TotalSales), money(e.CostOfGoods), money(e.OtherCosts),
			money(e.DepreciationCosts), money(e.DiscountCosts), money(e.ShippingRevenue), money(e.Profit),
		})
	}
	if err := writeRows(f, SheetDaily, daily); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("report: cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report: set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
