// Package money formatea valores monetarios y cantidades en pt-BR para informes.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formatea un valor como "R$ 1.234,56".
func BRL(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64() // solo presentación
	return printer.Sprintf("R$ %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Quantity formatea una cantidad entera con separador de miles ("1.234").
func Quantity(q int64) string {
	return printer.Sprint(number.Decimal(q))
}
