package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// Encode renders the named collections of st as document lists, in the order
// given. Keyed collections are emitted sorted by id so saves are stable.
func Encode(st *bakery.State, cols ...bakery.Collection) ([]Batch, error) {
	out := make([]Batch, 0, len(cols))
	for _, col := range cols {
		docs, err := encode(st, col)
		if err != nil {
			return nil, &bakery.PersistenceError{Collection: col, Err: err}
		}
		out = append(out, Batch{Collection: col, Docs: docs})
	}
	return out, nil
}

func encode(st *bakery.State, col bakery.Collection) ([]json.RawMessage, error) {
	switch col {
	case bakery.CollectionProducts:
		return marshalRows(st.SortedProducts())
	case bakery.CollectionMaterials:
		return marshalRows(st.SortedMaterials())
	case bakery.CollectionRecipes:
		return marshalRows(st.Recipes)
	case bakery.CollectionOrders:
		return marshalRows(sortedValues(st.Orders))
	case bakery.CollectionOrderItems:
		var items []bakery.OrderItem
		for _, id := range sortedKeys(st.OrderItems) {
			items = append(items, st.OrderItems[id]...)
		}
		return marshalRows(items)
	case bakery.CollectionInvoices:
		return marshalRows(sortedValues(st.Invoices))
	case bakery.CollectionInvoiceStatus:
		return marshalRows(sortedValues(st.InvoiceStatus))
	case bakery.CollectionIncome:
		return marshalRows(st.Income)
	case bakery.CollectionMaterialCosts:
		return marshalRows(st.MaterialCosts)
	case bakery.CollectionLaborCosts:
		return marshalRows(st.LaborCosts)
	case bakery.CollectionMarketingCosts:
		return marshalRows(st.MarketingCosts)
	}
	return nil, fmt.Errorf("store: unknown collection %q", col)
}

func decode(st *bakery.State, col bakery.Collection, docs []json.RawMessage) error {
	switch col {
	case bakery.CollectionProducts:
		rows, err := unmarshalRows[bakery.Product](docs)
		for _, r := range rows {
			st.Products[r.ID] = r
		}
		return err
	case bakery.CollectionMaterials:
		rows, err := unmarshalRows[bakery.Material](docs)
		for _, r := range rows {
			st.Materials[r.ID] = r
		}
		return err
	case bakery.CollectionRecipes:
		rows, err := unmarshalRows[bakery.RecipeEdge](docs)
		st.Recipes = rows
		return err
	case bakery.CollectionOrders:
		rows, err := unmarshalRows[bakery.Order](docs)
		for _, r := range rows {
			if r.Status == "" {
				r.Status = bakery.OrderStatusCompleted
			}
			st.Orders[r.ID] = r
		}
		return err
	case bakery.CollectionOrderItems:
		rows, err := unmarshalRows[bakery.OrderItem](docs)
		for _, r := range rows {
			st.OrderItems[r.OrderID] = append(st.OrderItems[r.OrderID], r)
		}
		return err
	case bakery.CollectionInvoices:
		rows, err := unmarshalRows[bakery.Invoice](docs)
		for _, r := range rows {
			st.Invoices[r.ID] = r
		}
		return err
	case bakery.CollectionInvoiceStatus:
		rows, err := unmarshalRows[bakery.InvoiceStatus](docs)
		for _, r := range rows {
			st.InvoiceStatus[r.InvoiceID] = r
		}
		return err
	case bakery.CollectionIncome:
		rows, err := unmarshalRows[bakery.IncomeEntry](docs)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
		st.Income = rows
		return err
	case bakery.CollectionMaterialCosts:
		rows, err := unmarshalRows[bakery.MaterialCostEntry](docs)
		st.MaterialCosts = rows
		return err
	case bakery.CollectionLaborCosts:
		rows, err := unmarshalRows[bakery.ExpenseEntry](docs)
		st.LaborCosts = rows
		return err
	case bakery.CollectionMarketingCosts:
		rows, err := unmarshalRows[bakery.ExpenseEntry](docs)
		st.MarketingCosts = rows
		return err
	}
	return fmt.Errorf("store: unknown collection %q", col)
}

func marshalRows[T any](rows []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(rows))
	for i, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("store: marshal row %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func unmarshalRows[T any](docs []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(docs))
	for i, doc := range docs {
		var r T
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, fmt.Errorf("store: unmarshal row %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValues[V any](m map[string]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}
