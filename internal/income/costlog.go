package income

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// ExpenseKind selects the labor or the marketing log.
type ExpenseKind string

const (
	ExpenseLabor     ExpenseKind = "labor"
	ExpenseMarketing ExpenseKind = "marketing"
)

// ExpenseInput describes a new period expense.
type ExpenseInput struct {
	Date        time.Time       `validate:"required"`
	Description string          `validate:"required,max=200"`
	Amount      decimal.Decimal `validate:"gt=0"`
}

func logFor(st *bakery.State, kind ExpenseKind) (*[]bakery.ExpenseEntry, bakery.Collection, error) {
	switch kind {
	case ExpenseLabor:
		return &st.LaborCosts, bakery.CollectionLaborCosts, nil
	case ExpenseMarketing:
		return &st.MarketingCosts, bakery.CollectionMarketingCosts, nil
	}
	return nil, "", bakery.Invalid("unknown expense kind %q", kind)
}

// AddExpense appends an entry to the selected log under the given id.
func AddExpense(st *bakery.State, kind ExpenseKind, id string, in ExpenseInput) (bakery.ExpenseEntry, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := bakery.Validate(in); err != nil {
		return bakery.ExpenseEntry{}, err
	}
	log, col, err := logFor(st, kind)
	if err != nil {
		return bakery.ExpenseEntry{}, err
	}
	for _, e := range *log {
		if e.ID == id {
			return bakery.ExpenseEntry{}, bakery.Duplicate(fmt.Sprintf("%s cost", kind), id)
		}
	}
	entry := bakery.ExpenseEntry{
		ID:          id,
		Date:        bakery.Day(in.Date),
		Description: in.Description,
		Amount:      in.Amount,
	}
	*log = append(*log, entry)
	st.Touch(col)
	return entry, nil
}

// DeleteExpense removes one entry from the selected log.
func DeleteExpense(st *bakery.State, kind ExpenseKind, id string) error {
	log, col, err := logFor(st, kind)
	if err != nil {
		return err
	}
	for i, e := range *log {
		if e.ID == id {
			*log = append((*log)[:i], (*log)[i+1:]...)
			st.Touch(col)
			return nil
		}
	}
	return bakery.NotFound(fmt.Sprintf("%s cost", kind), id)
}
