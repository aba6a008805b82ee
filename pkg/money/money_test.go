package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"grouped with currency", "1234567.89", "ARS", "ARS 1.234.567,89"},
		{"rounds to two decimals", "10.555", "USD", "USD 10,56"},
		{"pads to two decimals", "5", "ARS", "ARS 5,00"},
		{"zero", "0", "ARS", "ARS 0,00"},
		{"no currency", "1000", "", "1.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			if got := Format(amount, tt.currency); got != tt.want {
				t.Errorf("Format(%s, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
