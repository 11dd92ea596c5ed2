package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

var (
	hundred   = decimal.NewFromInt(100)
	lowPct    = decimal.NewFromInt(10)
	mediumPct = decimal.NewFromInt(30)
)

// PercentRemaining estimates how much of the initial stock is left, taking
// quantity+used as the initial quantity.
func PercentRemaining(m bakery.Material) decimal.Decimal {
	initial := m.Quantity.Add(m.UsedQuantity)
	if !initial.IsPositive() {
		return hundred
	}
	return m.Quantity.Div(initial).Mul(hundred)
}

// Classify derives the stock level of a material. Materials never consumed
// count as in stock whatever their percentage.
func Classify(m bakery.Material) Level {
	switch {
	case !m.Quantity.IsPositive():
		return LevelOutOfStock
	case m.UsedQuantity.IsZero():
		return LevelInStock
	}
	pct := PercentRemaining(m)
	switch {
	case pct.LessThanOrEqual(lowPct):
		return LevelLow
	case pct.LessThanOrEqual(mediumPct):
		return LevelMedium
	}
	return LevelInStock
}

// Statuses classifies every material, ordered by id.
func Statuses(st *bakery.State) []Status {
	materials := st.SortedMaterials()
	out := make([]Status, 0, len(materials))
	for _, m := range materials {
		out = append(out, Status{
			MaterialID:       m.ID,
			Name:             m.Name,
			Unit:             m.Unit,
			Quantity:         m.Quantity,
			UsedQuantity:     m.UsedQuantity,
			PercentRemaining: PercentRemaining(m),
			Level:            Classify(m),
		})
	}
	return out
}

// Alerts returns the materials that are out of stock or low.
func Alerts(st *bakery.State) []Status {
	var out []Status
	for _, s := range Statuses(st) {
		if s.Level == LevelOutOfStock || s.Level == LevelLow {
			out = append(out, s)
		}
	}
	return out
}
