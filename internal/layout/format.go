package layout

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	currencyPrefix = "Rs. "
	quantityUnit   = " Liters"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatQuantity renders a quantity with one decimal and the unit, e.g. "150.0 Liters"
func FormatQuantity(q decimal.Decimal) string {
	return q.StringFixed(1) + quantityUnit
}

// FormatRate renders a unit price as entered, e.g. "Rs. 200"
func FormatRate(r decimal.Decimal) string {
	return currencyPrefix + r.String()
}

// FormatAmount renders money with thousands separators, e.g. "Rs. 30,000"
func FormatAmount(a decimal.Decimal) string {
	return currencyPrefix + amountPrinter.Sprint(number.Decimal(a.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}
