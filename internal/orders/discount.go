package orders

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountTable maps upper-case discount codes to a percentage off the
// product subtotal.
type DiscountTable map[string]decimal.Decimal

// DefaultDiscounts is the static code table used by the shop.
var DefaultDiscounts = DiscountTable{
	"THUXUAN10": decimal.NewFromInt(10),
	"WELCOME":   decimal.NewFromInt(5),
}

// Resolve normalizes code and returns its percentage. Unknown or empty codes
// resolve to zero and an empty code.
func (t DiscountTable) Resolve(code string) (string, decimal.Decimal) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", decimal.Zero
	}
	pct, ok := t[code]
	if !ok {
		return "", decimal.Zero
	}
	return code, pct
}
