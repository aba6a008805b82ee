// Package money formats decimal amounts for display. Persistence and
// arithmetic stay on shopspring/decimal; this package only renders.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var esAR = message.NewPrinter(language.MustParse("es-AR"))

// Format renders an amount with the currency code, grouped digits and
// two decimals in the es-AR convention: "ARS 1.234.567,89".
func Format(amount decimal.Decimal, currency string) string {
	f, _ := amount.Round(2).Float64()
	rendered := esAR.Sprint(number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if currency == "" {
		return rendered
	}
	return currency + " " + rendered
}

// FormatPlain renders an amount with two decimals and no currency code.
func FormatPlain(amount decimal.Decimal) string {
	return Format(amount, "")
}
