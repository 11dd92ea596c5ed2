package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/costing"
)

// AddProductWithRecipe creates a product together with its recipe. When the
// input carries no price the suggested price at markupPct is used.
func AddProductWithRecipe(st *bakery.State, in ProductInput, edges []EdgeInput, markupPct decimal.Decimal) (bakery.Product, error) {
	if len(edges) == 0 {
		return bakery.Product{}, bakery.Invalid("recipe needs at least one material")
	}
	if in.Price.IsZero() {
		perUnit := make(map[string]decimal.Decimal, len(edges))
		for _, e := range edges {
			perUnit[e.MaterialID] = perUnit[e.MaterialID].Add(e.QuantityPerUnit)
		}
		material, err := costing.EdgesCost(st, perUnit)
		if err != nil {
			return bakery.Product{}, err
		}
		total := material.Add(in.ProductionFee).Add(in.OtherFee).Add(in.DepreciationFee)
		in.Price = costing.SuggestedPrice(total, markupPct).Floor()
	}
	p, err := AddProduct(st, in)
	if err != nil {
		return bakery.Product{}, err
	}
	if _, err := SetRecipe(st, p.ID, edges); err != nil {
		return bakery.Product{}, err
	}
	return p, nil
}
