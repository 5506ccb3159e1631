// Package money formatea importes para reportes y la CLI de retiros.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

// Format devuelve el importe con separador de miles "." y dos decimales con ",".
// Ej: 1234567.5 → "$1.234.567,50".
func Format(d decimal.Decimal) string {
	return "$" + printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Plain dos decimales con punto, el formato del contrato HTTP.
func Plain(d decimal.Decimal) string {
	return d.StringFixed(2)
}
