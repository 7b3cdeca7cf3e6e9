package models

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilder_Build(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tx, err := NewTransactionBuilder("sms-1").
		WithSource("Rs.250 debited", ts).
		WithAmount(decimal.RequireFromString("250.00")).
		AsDebit().
		WithMerchant("AMAZON", "amazon", "Amazon").
		WithBank("HDFC Bank").
		WithCategory(CategoryShopping, "#45B7D1").
		WithConfidence(0.95).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "sms-1", tx.ExternalID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, tx.IsDebit)
	assert.Equal(t, "DEBIT", tx.Direction())
	assert.Equal(t, "Amazon", tx.DisplayMerchant)
	assert.Equal(t, CategoryShopping, tx.Category)
	assert.Equal(t, ts, tx.Timestamp)
	assert.InDelta(t, 0.95, tx.Confidence, 1e-9)
}

func TestTransactionBuilder_Defaults(t *testing.T) {
	tx, err := NewTransactionBuilder("sms-2").
		WithSource("salary credited", time.Now()).
		WithAmount(decimal.NewFromInt(1000)).
		AsCredit().
		WithMerchant("HDFC Bank", "hdfc bank", "").
		WithCategory("", "").
		Build()

	require.NoError(t, err)
	assert.False(t, tx.IsDebit)
	assert.Equal(t, "CREDIT", tx.Direction())
	assert.Equal(t, "HDFC Bank", tx.DisplayMerchant, "display falls back to raw merchant")
	assert.Equal(t, CategoryOther, tx.Category)
	assert.Equal(t, ColorNeutral, tx.CategoryColor)
}

func TestTransactionBuilder_Errors(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		builder *TransactionBuilder
		errText string
	}{
		{
			name:    "empty external id",
			builder: NewTransactionBuilder("  ").WithSource("x", now).WithAmount(decimal.NewFromInt(1)).WithMerchant("A", "a", "A"),
			errText: "external id",
		},
		{
			name:    "zero amount",
			builder: NewTransactionBuilder("id").WithSource("x", now).WithAmount(decimal.Zero).WithMerchant("A", "a", "A"),
			errText: "amount must be positive",
		},
		{
			name:    "negative amount",
			builder: NewTransactionBuilder("id").WithSource("x", now).WithAmount(decimal.NewFromInt(-5)).WithMerchant("A", "a", "A"),
			errText: "amount must be positive",
		},
		{
			name:    "missing amount",
			builder: NewTransactionBuilder("id").WithSource("x", now).WithMerchant("A", "a", "A"),
			errText: "amount is required",
		},
		{
			name:    "zero timestamp",
			builder: NewTransactionBuilder("id").WithSource("x", time.Time{}),
			errText: "timestamp",
		},
		{
			name:    "empty merchant",
			builder: NewTransactionBuilder("id").WithSource("x", now).WithAmount(decimal.NewFromInt(3)).WithMerchant(" ", "", ""),
			errText: "merchant cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.builder.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
			assert.Equal(t, ParsedTransaction{}, tx, "no partial record on failure")
		})
	}
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ClampConfidence(-0.3))
	assert.Equal(t, 1.0, ClampConfidence(1.7))
	assert.Equal(t, 0.42, ClampConfidence(0.42))
	assert.Equal(t, 0.0, ClampConfidence(math.NaN()))
}
