// internal/pkg/money/money.go
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is an exact amount in a given currency (major unit, e.g. euros)
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// New builds a Money value
func New(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// EUR builds a Money value in euros
func EUR(amount decimal.Decimal) Money {
	return New(amount, currency.EUR)
}

// ParseCurrency parses an ISO 4217 code such as "EUR"
func ParseCurrency(code string) (currency.Unit, error) {
	return currency.ParseISO(code)
}

// FromCode builds a Money value from an ISO code. Unknown codes fall back
// to euros.
func FromCode(amount decimal.Decimal, code string) Money {
	unit, err := ParseCurrency(code)
	if err != nil {
		unit = currency.EUR
	}
	return New(amount, unit)
}

// Format renders the amount the way the storefront shows prices: two
// decimals, comma as decimal separator and the symbol after a space.
func (m Money) Format() string {
	return FormatAmount(m.Amount, symbol(m.Currency))
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.Format()
}

// MarshalJSON renders the amount as a fixed two-decimal string next to its
// currency code and display form
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount    string `json:"amount"`
		Currency  string `json:"currency"`
		Formatted string `json:"formatted"`
	}{
		Amount:    m.Amount.StringFixed(2),
		Currency:  m.Currency.String(),
		Formatted: m.Format(),
	})
}

// FormatEUR formats an amount in euros, e.g. "12,50 €"
func FormatEUR(amount decimal.Decimal) string {
	return FormatAmount(amount, "€")
}

// FormatAmount formats an amount with the given symbol
func FormatAmount(amount decimal.Decimal, sym string) string {
	return strings.Replace(amount.StringFixed(2), ".", ",", 1) + " " + sym
}

func symbol(unit currency.Unit) string {
	switch unit {
	case currency.EUR:
		return "€"
	case currency.USD:
		return "$"
	case currency.GBP:
		return "£"
	default:
		return unit.String()
	}
}
