package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// Defaults is the starter catalog loaded into an empty shop.
type Defaults struct {
	Products  []bakery.Product
	Materials []bakery.Material
	Recipes   []bakery.RecipeEdge
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultCatalog returns a fresh copy of the starter products, materials and
// recipes.
func DefaultCatalog() Defaults {
	products := []bakery.Product{
		{ID: "P001", Name: "Bánh Socola", Price: dec("575000"), Category: "Bánh Ngọt"},
		{ID: "P002", Name: "Bánh Sừng Bò", Price: dec("80500"), Category: "Bánh Ngọt"},
		{ID: "P003", Name: "Bánh Mì", Price: dec("138000"), Category: "Bánh Mì"},
		{ID: "P004", Name: "Bánh Cupcake", Price: dec("57500"), Category: "Bánh Ngọt"},
	}
	materials := []bakery.Material{
		{ID: "M001", Name: "Bột Mì", Unit: "kg", Quantity: dec("50"), PricePerUnit: dec("46000")},
		{ID: "M002", Name: "Đường", Unit: "kg", Quantity: dec("30"), PricePerUnit: dec("69000")},
		{ID: "M003", Name: "Trứng", Unit: "quả", Quantity: dec("200"), PricePerUnit: dec("5750")},
		{ID: "M004", Name: "Bơ", Unit: "kg", Quantity: dec("25"), PricePerUnit: dec("230000")},
		{ID: "M005", Name: "Socola", Unit: "kg", Quantity: dec("15"), PricePerUnit: dec("345000")},
		{ID: "M006", Name: "Tinh Chất Vani", Unit: "ml", Quantity: dec("1000"), PricePerUnit: dec("2300")},
	}
	recipes := []bakery.RecipeEdge{
		{ProductID: "P001", MaterialID: "M001", QuantityPerUnit: dec("0.5")},
		{ProductID: "P001", MaterialID: "M002", QuantityPerUnit: dec("0.4")},
		{ProductID: "P001", MaterialID: "M003", QuantityPerUnit: dec("4")},
		{ProductID: "P001", MaterialID: "M004", QuantityPerUnit: dec("0.3")},
		{ProductID: "P001", MaterialID: "M005", QuantityPerUnit: dec("0.2")},
		{ProductID: "P002", MaterialID: "M001", QuantityPerUnit: dec("0.1")},
		{ProductID: "P002", MaterialID: "M002", QuantityPerUnit: dec("0.05")},
		{ProductID: "P002", MaterialID: "M004", QuantityPerUnit: dec("0.1")},
		{ProductID: "P002", MaterialID: "M003", QuantityPerUnit: dec("1")},
		{ProductID: "P003", MaterialID: "M001", QuantityPerUnit: dec("1")},
		{ProductID: "P003", MaterialID: "M003", QuantityPerUnit: dec("1")},
		{ProductID: "P003", MaterialID: "M004", QuantityPerUnit: dec("0.1")},
		{ProductID: "P004", MaterialID: "M001", QuantityPerUnit: dec("0.1")},
		{ProductID: "P004", MaterialID: "M002", QuantityPerUnit: dec("0.15")},
		{ProductID: "P004", MaterialID: "M003", QuantityPerUnit: dec("1")},
		{ProductID: "P004", MaterialID: "M004", QuantityPerUnit: dec("0.05")},
	}
	return Defaults{Products: products, Materials: materials, Recipes: recipes}
}

// Apply loads the defaults into st when its catalog is entirely empty. A
// catalog holding any product, material or recipe line is left alone, so
// default recipes never attach to rows the user created.
func (d Defaults) Apply(st *bakery.State) []bakery.Collection {
	if len(st.Products) > 0 || len(st.Materials) > 0 || len(st.Recipes) > 0 {
		return nil
	}
	for _, p := range d.Products {
		st.Products[p.ID] = p
	}
	for _, m := range d.Materials {
		st.Materials[m.ID] = m
	}
	st.Recipes = append(st.Recipes, d.Recipes...)
	return []bakery.Collection{bakery.CollectionProducts, bakery.CollectionMaterials, bakery.CollectionRecipes}
}
