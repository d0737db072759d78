package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₺"

var displayPrinter = message.NewPrinter(language.Turkish)

// FormatPrice renders an amount for display with no decimals and local digit
// grouping, e.g. 1490 -> "₺1.490". Rating keeps two decimals internally; this
// is for presentation only.
func FormatPrice(amount float64) string {
	return CurrencySymbol + displayPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}
