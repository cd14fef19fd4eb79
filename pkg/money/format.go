package money

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Format renders amount with exactly two fraction digits and the currency's
// symbol on the side its registry entry asks for. Unknown codes are appended
// after a space instead.
func Format(amount float64, currencyCode string) string {
	formatted := fixed2(amount)

	d, ok := Describe(currencyCode)
	if !ok {
		return formatted + " " + currencyCode
	}

	if d.Placement == Suffix {
		return formatted + d.Symbol
	}
	return d.Symbol + formatted
}

func fixed2(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}
