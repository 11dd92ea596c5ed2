// Package costing derives cost of goods from recipes and current material prices.
// Every function is read-only over the state it is given.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// DefaultMarkupPct is applied by SuggestedPrice callers that have no configured markup.
var DefaultMarkupPct = decimal.RequireFromString("66.66")

// Breakdown splits the cost of a set of items by category.
type Breakdown struct {
	Material     decimal.Decimal
	Other        decimal.Decimal
	Depreciation decimal.Decimal
	Total        decimal.Decimal
}

func (b Breakdown) add(o Breakdown) Breakdown {
	return Breakdown{
		Material:     b.Material.Add(o.Material),
		Other:        b.Other.Add(o.Other),
		Depreciation: b.Depreciation.Add(o.Depreciation),
		Total:        b.Total.Add(o.Total),
	}
}

func breakdown(material, other, depreciation decimal.Decimal) Breakdown {
	return Breakdown{
		Material:     material,
		Other:        other,
		Depreciation: depreciation,
		Total:        material.Add(other).Add(depreciation),
	}
}

// MaterialCost prices the recipe of productID for qty units at current material prices.
func MaterialCost(st *bakery.State, productID string, qty decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range st.Recipe(productID) {
		m, ok := st.Materials[e.MaterialID]
		if !ok {
			return decimal.Zero, bakery.NotFound("material", e.MaterialID)
		}
		total = total.Add(e.QuantityPerUnit.Mul(qty).Mul(m.PricePerUnit))
	}
	return total, nil
}

// AuxiliaryCost returns the production+other fee and the depreciation fee of
// a product scaled by qty.
func AuxiliaryCost(p bakery.Product, qty decimal.Decimal) (other, depreciation decimal.Decimal) {
	other = p.ProductionFee.Add(p.OtherFee).Mul(qty)
	depreciation = p.DepreciationFee.Mul(qty)
	return other, depreciation
}

// ItemCost is the live cost of qty units of a product.
func ItemCost(st *bakery.State, productID string, qty decimal.Decimal) (Breakdown, error) {
	material, err := MaterialCost(st, productID, qty)
	if err != nil {
		return Breakdown{}, err
	}
	other, depreciation := decimal.Zero, decimal.Zero
	if p, ok := st.Products[productID]; ok {
		other, depreciation = AuxiliaryCost(p, qty)
	}
	return breakdown(material, other, depreciation), nil
}

// OrderCost sums the live cost of every requested item.
func OrderCost(st *bakery.State, items []bakery.ItemQty) (Breakdown, error) {
	var total Breakdown
	for _, it := range items {
		b, err := ItemCost(st, it.ProductID, it.Quantity)
		if err != nil {
			return Breakdown{}, err
		}
		total = total.add(b)
	}
	return total, nil
}

// RecordedCost sums the cost of persisted order items, using each item's
// snapshot and falling back to live prices for items created without one.
func RecordedCost(st *bakery.State, items []bakery.OrderItem) (Breakdown, error) {
	var total Breakdown
	for _, it := range items {
		if it.Cost == nil {
			b, err := ItemCost(st, it.ProductID, it.Quantity)
			if err != nil {
				return Breakdown{}, err
			}
			total = total.add(b)
			continue
		}
		total = total.add(breakdown(
			it.Cost.UnitMaterialCost.Mul(it.Quantity),
			it.Cost.UnitOtherCost.Mul(it.Quantity),
			it.Cost.UnitDepreciationCost.Mul(it.Quantity),
		))
	}
	return total, nil
}

// Snapshot captures the unit costs and material consumption of qty units of a
// product as they stand now.
func Snapshot(st *bakery.State, productID string, qty decimal.Decimal) (*bakery.CostSnapshot, error) {
	unitMaterial, err := MaterialCost(st, productID, decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	snap := &bakery.CostSnapshot{UnitMaterialCost: unitMaterial}
	if p, ok := st.Products[productID]; ok {
		snap.UnitOtherCost, snap.UnitDepreciationCost = AuxiliaryCost(p, decimal.NewFromInt(1))
	}
	for _, e := range st.Recipe(productID) {
		snap.Consumed = append(snap.Consumed, bakery.MaterialUsage{
			MaterialID: e.MaterialID,
			Quantity:   e.QuantityPerUnit.Mul(qty),
		})
	}
	return snap, nil
}

// SuggestedPrice marks totalCost up by markupPct percent.
func SuggestedPrice(totalCost, markupPct decimal.Decimal) decimal.Decimal {
	return totalCost.Add(bakery.Percent(totalCost, markupPct))
}

// CostSheet is the per-unit cost breakdown of a product.
type CostSheet struct {
	ProductID      string
	Material       decimal.Decimal
	Production     decimal.Decimal
	Other          decimal.Decimal
	Depreciation   decimal.Decimal
	Total          decimal.Decimal
	MarkupPct      decimal.Decimal
	SuggestedPrice decimal.Decimal
	Price          decimal.Decimal
}

// ProductCostSheet prices one unit of a product and its suggested selling price.
func ProductCostSheet(st *bakery.State, productID string, markupPct decimal.Decimal) (CostSheet, error) {
	p, ok := st.Products[productID]
	if !ok {
		return CostSheet{}, bakery.NotFound("product", productID)
	}
	material, err := MaterialCost(st, productID, decimal.NewFromInt(1))
	if err != nil {
		return CostSheet{}, err
	}
	total := material.Add(p.ProductionFee).Add(p.OtherFee).Add(p.DepreciationFee)
	return CostSheet{
		ProductID:      p.ID,
		Material:       material,
		Production:     p.ProductionFee,
		Other:          p.OtherFee,
		Depreciation:   p.DepreciationFee,
		Total:          total,
		MarkupPct:      markupPct,
		SuggestedPrice: SuggestedPrice(total, markupPct),
		Price:          p.Price,
	}, nil
}

// EdgesCost prices a draft recipe (material id to quantity per unit) at current prices.
func EdgesCost(st *bakery.State, perUnit map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for id, q := range perUnit {
		m, ok := st.Materials[id]
		if !ok {
			return decimal.Zero, bakery.NotFound("material", id)
		}
		total = total.Add(q.Mul(m.PricePerUnit))
	}
	return total, nil
}
