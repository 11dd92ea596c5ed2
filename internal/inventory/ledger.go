// Package inventory keeps material stock in step with orders and purchases.
package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

var timeNow = time.Now

// Requirements aggregates the material quantities needed by items through
// their recipes. Items sharing a material are summed.
func Requirements(st *bakery.State, items []bakery.ItemQty) []bakery.MaterialUsage {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, it := range items {
		for _, e := range st.Recipe(it.ProductID) {
			if _, ok := totals[e.MaterialID]; !ok {
				order = append(order, e.MaterialID)
			}
			totals[e.MaterialID] = totals[e.MaterialID].Add(e.QuantityPerUnit.Mul(it.Quantity))
		}
	}
	sort.Strings(order)
	out := make([]bakery.MaterialUsage, 0, len(order))
	for _, id := range order {
		out = append(out, bakery.MaterialUsage{MaterialID: id, Quantity: totals[id]})
	}
	return out
}

// CheckSufficient compares the aggregated requirements of items with current stock.
func CheckSufficient(st *bakery.State, items []bakery.ItemQty) (bool, []bakery.Shortage, error) {
	var shortages []bakery.Shortage
	for _, req := range Requirements(st, items) {
		m, ok := st.Materials[req.MaterialID]
		if !ok {
			return false, nil, bakery.NotFound("material", req.MaterialID)
		}
		if req.Quantity.GreaterThan(m.Quantity) {
			shortages = append(shortages, bakery.Shortage{
				MaterialID: m.ID,
				Name:       m.Name,
				Unit:       m.Unit,
				Required:   req.Quantity,
				Available:  m.Quantity,
				Shortage:   req.Quantity.Sub(m.Quantity),
			})
		}
	}
	return len(shortages) == 0, shortages, nil
}

// Deduct consumes the recipe materials of items. It does not check stock:
// callers gate it with CheckSufficient and invoke it once per order.
func Deduct(st *bakery.State, items []bakery.ItemQty) error {
	return Consume(st, Requirements(st, items))
}

// Consume decrements quantity and increments used quantity for each usage line.
func Consume(st *bakery.State, usage []bakery.MaterialUsage) error {
	for _, u := range usage {
		if _, ok := st.Materials[u.MaterialID]; !ok {
			return bakery.NotFound("material", u.MaterialID)
		}
	}
	for _, u := range usage {
		m := st.Materials[u.MaterialID]
		m.Quantity = m.Quantity.Sub(u.Quantity)
		m.UsedQuantity = m.UsedQuantity.Add(u.Quantity)
		st.Materials[u.MaterialID] = m
	}
	if len(usage) > 0 {
		st.Touch(bakery.CollectionMaterials)
	}
	return nil
}

// Restore is the inverse of Deduct using the current recipes.
func Restore(st *bakery.State, items []bakery.ItemQty) []string {
	return Return(st, Requirements(st, items))
}

// Return gives consumed quantities back to stock. Materials that no longer
// exist are skipped and their ids returned.
func Return(st *bakery.State, usage []bakery.MaterialUsage) []string {
	var missing []string
	touched := false
	for _, u := range usage {
		m, ok := st.Materials[u.MaterialID]
		if !ok {
			missing = append(missing, u.MaterialID)
			continue
		}
		m.Quantity = m.Quantity.Add(u.Quantity)
		m.UsedQuantity = m.UsedQuantity.Sub(u.Quantity)
		st.Materials[u.MaterialID] = m
		touched = true
	}
	if touched {
		st.Touch(bakery.CollectionMaterials)
	}
	return missing
}

// Negatives reports the listed materials whose quantity is below zero.
func Negatives(st *bakery.State, ids []string) []bakery.Shortage {
	var out []bakery.Shortage
	for _, id := range ids {
		m, ok := st.Materials[id]
		if !ok || !m.Quantity.IsNegative() {
			continue
		}
		out = append(out, bakery.Shortage{
			MaterialID: m.ID,
			Name:       m.Name,
			Unit:       m.Unit,
			Required:   m.Quantity.Neg(),
			Available:  decimal.Zero,
			Shortage:   m.Quantity.Neg(),
		})
	}
	return out
}

// Restock receives a purchase: quantity increases and the unit price becomes
// the quantity-weighted average of old stock and the purchase. An audit row
// is appended to the material cost log.
func Restock(st *bakery.State, in RestockInput) (bakery.Material, error) {
	if err := bakery.Validate(in); err != nil {
		return bakery.Material{}, err
	}
	m, ok := st.Materials[in.MaterialID]
	if !ok {
		if in.Name == "" {
			return bakery.Material{}, bakery.NotFound("material", in.MaterialID)
		}
		m = bakery.Material{ID: in.MaterialID, Name: in.Name, Unit: in.Unit}
	}
	newQty := m.Quantity.Add(in.Quantity)
	if newQty.IsPositive() {
		m.PricePerUnit = m.Quantity.Mul(m.PricePerUnit).Add(in.TotalCost).Div(newQty)
	}
	m.Quantity = newQty
	st.Materials[m.ID] = m

	date := in.Date
	if date.IsZero() {
		date = bakery.Day(timeNow())
	}
	st.MaterialCosts = append(st.MaterialCosts, bakery.MaterialCostEntry{
		Date:       bakery.Day(date),
		MaterialID: m.ID,
		Quantity:   in.Quantity,
		TotalCost:  in.TotalCost,
		Supplier:   in.Supplier,
		Note:       in.Note,
	})
	st.Touch(bakery.CollectionMaterials, bakery.CollectionMaterialCosts)
	return m, nil
}

// ManualAdjust overwrites quantity, price and used quantity without touching
// the purchase log.
func ManualAdjust(st *bakery.State, in AdjustInput, policy Policy) (bakery.Material, error) {
	if err := bakery.Validate(in); err != nil {
		return bakery.Material{}, err
	}
	m, ok := st.Materials[in.MaterialID]
	if !ok {
		return bakery.Material{}, bakery.NotFound("material", in.MaterialID)
	}
	if policy != PolicyPermissive && in.Quantity.IsNegative() {
		return bakery.Material{}, bakery.ErrNegativeStock
	}
	m.Quantity = in.Quantity
	m.PricePerUnit = in.PricePerUnit
	m.UsedQuantity = in.UsedQuantity
	st.Materials[m.ID] = m
	st.Touch(bakery.CollectionMaterials)
	return m, nil
}
