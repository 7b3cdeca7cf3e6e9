package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"500", "500", false},
		{"1,234.56", "1234.56", false},
		{"1,23,456.78", "123456.78", false},
		{"Rs.250", "250", false},
		{"INR 2,000", "2000", false},
		{"₹ 99.5", "99.5", false},
		{"1500/-", "1500", false},
		{"", "", true},
		{"abc", "", true},
		{"1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestIsPlausible(t *testing.T) {
	assert.True(t, IsPlausible(decimal.NewFromInt(1)))
	assert.True(t, IsPlausible(decimal.RequireFromString("1.01")))
	assert.False(t, IsPlausible(decimal.RequireFromString("0.99")))
	assert.False(t, IsPlausible(decimal.Zero))
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")
	assert.Equal(t, "1234.50", FormatAmount(amount, ""))
	assert.Equal(t, "₹1234.50", FormatAmount(amount, "inr"))
	assert.Equal(t, "USD 1234.50", FormatAmount(amount, "USD"))
}

func TestSigned(t *testing.T) {
	amount := decimal.NewFromInt(10)
	assert.True(t, Signed(amount, true).Equal(decimal.NewFromInt(-10)))
	assert.True(t, Signed(amount, false).Equal(amount))
	assert.True(t, IsPositive(amount))
}
