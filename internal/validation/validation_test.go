package validation

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTx() models.ParsedTransaction {
	return models.ParsedTransaction{
		ExternalID:         "sms-1",
		Timestamp:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:             decimal.NewFromInt(250),
		IsDebit:            true,
		RawMerchant:        "AMAZON",
		NormalizedMerchant: "amazon",
		DisplayMerchant:    "Amazon",
		BankName:           "HDFC Bank",
		Category:           models.CategoryShopping,
		CategoryColor:      "#45B7D1",
		Confidence:         0.95,
	}
}

func TestValidateTransaction(t *testing.T) {
	require.NoError(t, ValidateTransaction(validTx()))

	tests := []struct {
		field  string
		mutate func(*models.ParsedTransaction)
	}{
		{"external_id", func(tx *models.ParsedTransaction) { tx.ExternalID = " " }},
		{"amount", func(tx *models.ParsedTransaction) { tx.Amount = decimal.Zero }},
		{"amount", func(tx *models.ParsedTransaction) { tx.Amount = decimal.NewFromInt(-5) }},
		{"confidence", func(tx *models.ParsedTransaction) { tx.Confidence = 1.2 }},
		{"confidence", func(tx *models.ParsedTransaction) { tx.Confidence = math.NaN() }},
		{"timestamp", func(tx *models.ParsedTransaction) { tx.Timestamp = time.Time{} }},
		{"raw_merchant", func(tx *models.ParsedTransaction) { tx.RawMerchant = "" }},
		{"normalized_merchant", func(tx *models.ParsedTransaction) { tx.NormalizedMerchant = "Amazon" }},
		{"category", func(tx *models.ParsedTransaction) { tx.Category = "" }},
		{"category_color", func(tx *models.ParsedTransaction) { tx.CategoryColor = "blue" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			tx := validTx()
			tt.mutate(&tx)
			err := ValidateTransaction(tx)
			var ve *ingesterror.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestIsValidInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "inbox.csv")
	require.NoError(t, os.WriteFile(file, []byte("id\n"), 0600))

	assert.NoError(t, IsValidInputFile(file))
	assert.Error(t, IsValidInputFile(filepath.Join(dir, "missing.csv")))
	assert.Error(t, IsValidInputFile(dir))
}

func TestIsValidFilePermissions(t *testing.T) {
	assert.NoError(t, IsValidFilePermissions(0600))
	assert.NoError(t, IsValidFilePermissions(0640))
	assert.Error(t, IsValidFilePermissions(0644))
	assert.Error(t, IsValidFilePermissions(0777))
}
