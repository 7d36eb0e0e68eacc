// Package format da formato de presentación (pt-BR) a montos y fechas.
package format

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// BRL formatea un monto como moneda brasileña: "R$ 1.234,56".
func BRL(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return "-R$ " + brPrinter.Sprintf("%.2f", -f)
	}
	return "R$ " + brPrinter.Sprintf("%.2f", f)
}

// Number entero con separador de miles pt-BR.
func Number(n int) string {
	return brPrinter.Sprintf("%d", n)
}

// Date dd/MM/yyyy; "-" para la fecha cero.
func Date(d civil.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.In(time.UTC).Format("02/01/2006")
}

// DatePtr igual que Date pero acepta nil.
func DatePtr(d *civil.Date) string {
	if d == nil {
		return "-"
	}
	return Date(*d)
}

// DateTime dd/MM/yyyy HH:mm en hora local.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006 15:04")
}
