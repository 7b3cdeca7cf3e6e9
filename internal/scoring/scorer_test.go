package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	s := New(nil, decimal.Zero)

	tests := []struct {
		name     string
		body     string
		amount   int64
		merchant string
		want     float64
	}{
		{"all signals", "Rs.250.00 debited from your account for purchase at AMAZON", 250, "AMAZON", 0.95},
		{"credit with marker", "Rs 500 credited to your account", 500, "HDFC Bank", 0.75},
		{"short merchant", "Rs 40 paid to Chai", 40, "Chai", 0.8},
		{"unknown merchant", "INR 40 debited", 40, "Unknown", 0.8},
		{"no signals", "balance update 300 has been applied", 300, "Bank", 0.5},
		{"high value penalty", "Rs 250000 debited at JEWELLERS", 250000, "JEWELLERS", 0.85},
		{"penalty without signals", "300000 has been applied", 300000, "", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.body, decimal.NewFromInt(tt.amount), tt.merchant)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScore_CustomThreshold(t *testing.T) {
	s := New(nil, decimal.NewFromInt(1000))
	b := s.Explain("Rs 5000 debited", decimal.NewFromInt(5000), "Unknown")
	assert.True(t, b.HighValue)
	assert.True(t, b.DebitKeyword)
	assert.True(t, b.CurrencyMarker)
	assert.False(t, b.Merchant)
	assert.InDelta(t, 0.7, b.Score, 1e-9)

	// Exactly at the threshold is not penalised.
	assert.False(t, s.Explain("Rs 1000", decimal.NewFromInt(1000), "").HighValue)
}
