// Package catalog maintains products, materials and their recipes.
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// ProductInput describes a product create/update request.
type ProductInput struct {
	ID              string          `validate:"required,max=32"`
	Name            string          `validate:"required,max=120"`
	Price           decimal.Decimal `validate:"gte=0"`
	Category        string          `validate:"required,max=60"`
	Unit            string          `validate:"max=20"`
	ProductionFee   decimal.Decimal `validate:"gte=0"`
	OtherFee        decimal.Decimal `validate:"gte=0"`
	DepreciationFee decimal.Decimal `validate:"gte=0"`
}

// MaterialInput describes a new material.
type MaterialInput struct {
	ID           string          `validate:"required,max=32"`
	Name         string          `validate:"required,max=120"`
	Unit         string          `validate:"required,max=20"`
	Quantity     decimal.Decimal `validate:"gte=0"`
	PricePerUnit decimal.Decimal `validate:"gte=0"`
}

// EdgeInput is one recipe line of SetRecipe.
type EdgeInput struct {
	MaterialID      string          `validate:"required"`
	QuantityPerUnit decimal.Decimal `validate:"gt=0"`
}

func (in ProductInput) normalize() ProductInput {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Unit = strings.TrimSpace(in.Unit)
	return in
}

func (in ProductInput) product() bakery.Product {
	return bakery.Product{
		ID:              in.ID,
		Name:            in.Name,
		Price:           in.Price,
		Category:        in.Category,
		Unit:            in.Unit,
		ProductionFee:   in.ProductionFee,
		OtherFee:        in.OtherFee,
		DepreciationFee: in.DepreciationFee,
	}
}

// AddProduct inserts a new product.
func AddProduct(st *bakery.State, in ProductInput) (bakery.Product, error) {
	in = in.normalize()
	if err := bakery.Validate(in); err != nil {
		return bakery.Product{}, err
	}
	if _, ok := st.Products[in.ID]; ok {
		return bakery.Product{}, bakery.Duplicate("product", in.ID)
	}
	p := in.product()
	st.Products[p.ID] = p
	st.Touch(bakery.CollectionProducts)
	return p, nil
}

// UpdateProduct overwrites an existing product. Historical order items keep
// their snapshotted prices.
func UpdateProduct(st *bakery.State, in ProductInput) (bakery.Product, error) {
	in = in.normalize()
	if err := bakery.Validate(in); err != nil {
		return bakery.Product{}, err
	}
	if _, ok := st.Products[in.ID]; !ok {
		return bakery.Product{}, bakery.NotFound("product", in.ID)
	}
	p := in.product()
	st.Products[p.ID] = p
	st.Touch(bakery.CollectionProducts)
	return p, nil
}

// DeleteProduct removes a product and its recipe edges. Order items that
// reference it are kept for history.
func DeleteProduct(st *bakery.State, id string) error {
	if _, ok := st.Products[id]; !ok {
		return bakery.NotFound("product", id)
	}
	delete(st.Products, id)
	st.Touch(bakery.CollectionProducts)
	if removeEdges(st, func(e bakery.RecipeEdge) bool { return e.ProductID == id }) > 0 {
		st.Touch(bakery.CollectionRecipes)
	}
	return nil
}

// AddMaterial inserts a new material with an opening stock.
func AddMaterial(st *bakery.State, in MaterialInput) (bakery.Material, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	if err := bakery.Validate(in); err != nil {
		return bakery.Material{}, err
	}
	if _, ok := st.Materials[in.ID]; ok {
		return bakery.Material{}, bakery.Duplicate("material", in.ID)
	}
	m := bakery.Material{
		ID:           in.ID,
		Name:         in.Name,
		Unit:         in.Unit,
		Quantity:     in.Quantity,
		PricePerUnit: in.PricePerUnit,
	}
	st.Materials[m.ID] = m
	st.Touch(bakery.CollectionMaterials)
	return m, nil
}

// RenameMaterial edits the descriptive fields of a material. Stock and price
// change only through the inventory ledger.
func RenameMaterial(st *bakery.State, id, name, unit string) (bakery.Material, error) {
	m, ok := st.Materials[id]
	if !ok {
		return bakery.Material{}, bakery.NotFound("material", id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return bakery.Material{}, bakery.Invalid("material name required")
	}
	m.Name = name
	if u := strings.TrimSpace(unit); u != "" {
		m.Unit = u
	}
	st.Materials[id] = m
	st.Touch(bakery.CollectionMaterials)
	return m, nil
}

// DeleteMaterial removes a material that no recipe uses.
func DeleteMaterial(st *bakery.State, id string) error {
	if _, ok := st.Materials[id]; !ok {
		return bakery.NotFound("material", id)
	}
	for _, e := range st.Recipes {
		if e.MaterialID == id {
			return bakery.Invalid("material %s is used by product %s", id, e.ProductID)
		}
	}
	delete(st.Materials, id)
	st.Touch(bakery.CollectionMaterials)
	return nil
}

// SetRecipe replaces the whole bill of materials of a product.
func SetRecipe(st *bakery.State, productID string, edges []EdgeInput) ([]bakery.RecipeEdge, error) {
	if _, ok := st.Products[productID]; !ok {
		return nil, bakery.NotFound("product", productID)
	}
	seen := make(map[string]struct{}, len(edges))
	next := make([]bakery.RecipeEdge, 0, len(edges))
	for i, in := range edges {
		if err := bakery.Validate(in); err != nil {
			return nil, fmt.Errorf("catalog: recipe line %d: %w", i+1, err)
		}
		if _, ok := st.Materials[in.MaterialID]; !ok {
			return nil, bakery.NotFound("material", in.MaterialID)
		}
		if _, dup := seen[in.MaterialID]; dup {
			return nil, bakery.Invalid("material %s listed twice in recipe", in.MaterialID)
		}
		seen[in.MaterialID] = struct{}{}
		next = append(next, bakery.RecipeEdge{
			ProductID:       productID,
			MaterialID:      in.MaterialID,
			QuantityPerUnit: in.QuantityPerUnit,
		})
	}
	removeEdges(st, func(e bakery.RecipeEdge) bool { return e.ProductID == productID })
	st.Recipes = append(st.Recipes, next...)
	st.Touch(bakery.CollectionRecipes)
	return next, nil
}

func removeEdges(st *bakery.State, match func(bakery.RecipeEdge) bool) int {
	kept := st.Recipes[:0]
	removed := 0
	for _, e := range st.Recipes {
		if match(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	st.Recipes = kept
	return removed
}

// Product looks up a product by id.
func Product(st *bakery.State, id string) (bakery.Product, error) {
	p, ok := st.Products[id]
	if !ok {
		return bakery.Product{}, bakery.NotFound("product", id)
	}
	return p, nil
}

// Material looks up a material by id.
func Material(st *bakery.State, id string) (bakery.Material, error) {
	m, ok := st.Materials[id]
	if !ok {
		return bakery.Material{}, bakery.NotFound("material", id)
	}
	return m, nil
}
