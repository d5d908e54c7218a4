package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/pkg/money"
	"golang.org/x/text/currency"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		money money.Money
		want  string
	}{
		{name: "zero", money: money.EUR(decimal.Zero), want: "0,00 €"},
		{name: "two decimals", money: money.EUR(decimal.RequireFromString("12.5")), want: "12,50 €"},
		{name: "rounded", money: money.EUR(decimal.RequireFromString("9.999")), want: "10,00 €"},
		{name: "no thousands separator", money: money.EUR(decimal.RequireFromString("1234.56")), want: "1234,56 €"},
		{name: "dollars", money: money.New(decimal.NewFromInt(3), currency.USD), want: "3,00 $"},
		{name: "other currency uses code", money: money.New(decimal.NewFromInt(3), currency.JPY), want: "3,00 JPY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.money.Format())
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(money.EUR(decimal.RequireFromString("20")))
	require.NoError(t, err)

	assert.JSONEq(t, `{"amount":"20.00","currency":"EUR","formatted":"20,00 €"}`, string(b))
}

func TestParseCurrency(t *testing.T) {
	unit, err := money.ParseCurrency("EUR")
	require.NoError(t, err)
	assert.Equal(t, currency.EUR, unit)

	_, err = money.ParseCurrency("XYZW")
	assert.Error(t, err)
}

func TestFromCode(t *testing.T) {
	amount := decimal.RequireFromString("4.5")

	assert.Equal(t, "4,50 $", money.FromCode(amount, "USD").Format())
	assert.Equal(t, "4,50 €", money.FromCode(amount, "EUR").Format())
	assert.Equal(t, "4,50 €", money.FromCode(amount, "nope").Format())
	assert.Equal(t, "4,50 €", money.FromCode(amount, "").Format())
}
