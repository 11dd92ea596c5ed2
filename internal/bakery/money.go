package bakery

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// Percent returns pct percent of amount.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Ratio returns part/whole*100, or zero when whole is not positive.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

var vndPrinter = message.NewPrinter(language.English)

// FormatVND renders an amount rounded to whole dong with thousands grouping.
func FormatVND(amount decimal.Decimal) string {
	return vndPrinter.Sprintf("%d VND", amount.Round(0).IntPart())
}
