package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Policy decides whether stock may be driven below zero.
type Policy string

const (
	// PolicyStrict rejects any mutation that leaves a material negative.
	PolicyStrict Policy = "strict"
	// PolicyPermissive lets manual corrections set negative balances.
	PolicyPermissive Policy = "permissive"
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyStrict, "":
		return PolicyStrict, nil
	case PolicyPermissive:
		return PolicyPermissive, nil
	}
	return "", fmt.Errorf("inventory: unknown stock policy %q", s)
}

// RestockInput describes a purchase of material.
type RestockInput struct {
	MaterialID string          `validate:"required"`
	Quantity   decimal.Decimal `validate:"gt=0"`
	TotalCost  decimal.Decimal `validate:"gte=0"`
	Supplier   string          `validate:"max=120"`
	Date       time.Time
	Note       string
	// Name and Unit create the material when MaterialID is unknown.
	Name string
	Unit string
}

// AdjustInput overwrites the stock figures of a material.
type AdjustInput struct {
	MaterialID   string          `validate:"required"`
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal `validate:"gte=0"`
	UsedQuantity decimal.Decimal `validate:"gte=0"`
}

// Level is the derived stock status of a material.
type Level string

const (
	LevelOutOfStock Level = "OUT_OF_STOCK"
	LevelLow        Level = "LOW"
	LevelMedium     Level = "MEDIUM"
	LevelInStock    Level = "IN_STOCK"
)

// Status pairs a material with its classification.
type Status struct {
	MaterialID       string
	Name             string
	Unit             string
	Quantity         decimal.Decimal
	UsedQuantity     decimal.Decimal
	PercentRemaining decimal.Decimal
	Level            Level
}
