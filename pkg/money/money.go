// Package money formats prices for display.
package money

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// A Formatter renders amounts in a single currency.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter returns a formatter for the ISO 4217 code, e.g. "INR".
func NewFormatter(code string) (Formatter, error) {
	const op = "money.NewFormatter"

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Formatter{}, fmt.Errorf("%s: %w", op, err)
	}
	return Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

func (f Formatter) Format(amount float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(amount)))
}

func (f Formatter) Code() string {
	return f.unit.String()
}
