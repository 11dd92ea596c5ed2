package bakery

import (
	"sort"
	"time"
)

// Collection names a persisted table.
type Collection string

const (
	CollectionProducts       Collection = "products"
	CollectionMaterials      Collection = "materials"
	CollectionRecipes        Collection = "recipes"
	CollectionOrders         Collection = "orders"
	CollectionOrderItems     Collection = "order_items"
	CollectionInvoices       Collection = "invoices"
	CollectionInvoiceStatus  Collection = "invoice_status"
	CollectionIncome         Collection = "income"
	CollectionMaterialCosts  Collection = "material_costs"
	CollectionLaborCosts     Collection = "labor_costs"
	CollectionMarketingCosts Collection = "marketing_costs"
)

// Collections lists every collection in commit order.
var Collections = []Collection{
	CollectionProducts,
	CollectionMaterials,
	CollectionRecipes,
	CollectionOrders,
	CollectionOrderItems,
	CollectionInvoices,
	CollectionInvoiceStatus,
	CollectionIncome,
	CollectionMaterialCosts,
	CollectionLaborCosts,
	CollectionMarketingCosts,
}

// State is the whole application dataset. Mutations happen on a Clone that
// records which collections it touched; the owner commits and swaps it in.
type State struct {
	Products       map[string]Product
	Materials      map[string]Material
	Recipes        []RecipeEdge
	Orders         map[string]Order
	OrderItems     map[string][]OrderItem
	Invoices       map[string]Invoice
	InvoiceStatus  map[string]InvoiceStatus
	Income         []IncomeEntry
	MaterialCosts  []MaterialCostEntry
	LaborCosts     []ExpenseEntry
	MarketingCosts []ExpenseEntry

	dirty map[Collection]struct{}
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Products:      make(map[string]Product),
		Materials:     make(map[string]Material),
		Orders:        make(map[string]Order),
		OrderItems:    make(map[string][]OrderItem),
		Invoices:      make(map[string]Invoice),
		InvoiceStatus: make(map[string]InvoiceStatus),
		dirty:         make(map[Collection]struct{}),
	}
}

// Clone deep-copies the state with an empty dirty set.
func (s *State) Clone() *State {
	c := NewState()
	for k, v := range s.Products {
		c.Products[k] = v
	}
	for k, v := range s.Materials {
		c.Materials[k] = v
	}
	for k, v := range s.Orders {
		c.Orders[k] = v
	}
	for k, items := range s.OrderItems {
		c.OrderItems[k] = append([]OrderItem(nil), items...)
	}
	for k, v := range s.Invoices {
		c.Invoices[k] = v
	}
	for k, v := range s.InvoiceStatus {
		if v.CompletionDate != nil {
			d := *v.CompletionDate
			v.CompletionDate = &d
		}
		c.InvoiceStatus[k] = v
	}
	c.Recipes = append([]RecipeEdge(nil), s.Recipes...)
	c.Income = append([]IncomeEntry(nil), s.Income...)
	c.MaterialCosts = append([]MaterialCostEntry(nil), s.MaterialCosts...)
	c.LaborCosts = append([]ExpenseEntry(nil), s.LaborCosts...)
	c.MarketingCosts = append([]ExpenseEntry(nil), s.MarketingCosts...)
	return c
}

// Touch marks collections as modified.
func (s *State) Touch(cols ...Collection) {
	if s.dirty == nil {
		s.dirty = make(map[Collection]struct{})
	}
	for _, c := range cols {
		s.dirty[c] = struct{}{}
	}
}

// Dirty returns the touched collections in commit order.
func (s *State) Dirty() []Collection {
	out := make([]Collection, 0, len(s.dirty))
	for _, c := range Collections {
		if _, ok := s.dirty[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ResetDirty clears the dirty set after a successful commit.
func (s *State) ResetDirty() {
	s.dirty = make(map[Collection]struct{})
}

// Recipe returns the bill of materials of a product.
func (s *State) Recipe(productID string) []RecipeEdge {
	var edges []RecipeEdge
	for _, e := range s.Recipes {
		if e.ProductID == productID {
			edges = append(edges, e)
		}
	}
	return edges
}

// IncomeIndex returns the position of the ledger row for day, or -1.
func (s *State) IncomeIndex(day time.Time) int {
	day = Day(day)
	for i, e := range s.Income {
		if Day(e.Date).Equal(day) {
			return i
		}
	}
	return -1
}

// SortedProducts returns products ordered by id.
func (s *State) SortedProducts() []Product {
	out := make([]Product, 0, len(s.Products))
	for _, p := range s.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedMaterials returns materials ordered by id.
func (s *State) SortedMaterials() []Material {
	out := make([]Material, 0, len(s.Materials))
	for _, m := range s.Materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
