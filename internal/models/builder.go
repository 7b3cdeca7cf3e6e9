package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing a ParsedTransaction.
// The first error short-circuits every later call and is returned by Build.
type TransactionBuilder struct {
	tx  ParsedTransaction
	err error
}

// NewTransactionBuilder creates a builder for the message identified by externalID.
func NewTransactionBuilder(externalID string) *TransactionBuilder {
	b := &TransactionBuilder{
		tx: ParsedTransaction{
			ExternalID:    externalID,
			Amount:        decimal.Zero,
			IsDebit:       true,
			Category:      CategoryOther,
			CategoryColor: ColorNeutral,
		},
	}
	if strings.TrimSpace(externalID) == "" {
		b.err = errors.New("external id cannot be empty")
	}
	return b
}

// WithSource records the raw body and the message timestamp.
func (b *TransactionBuilder) WithSource(body string, ts time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if ts.IsZero() {
		b.err = errors.New("timestamp cannot be zero")
		return b
	}
	b.tx.SourceText = body
	b.tx.Timestamp = ts
	return b
}

// WithAmount sets the amount. Zero and negative amounts are rejected.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !amount.IsPositive() {
		b.err = fmt.Errorf("amount must be positive, got %s", amount.String())
		return b
	}
	b.tx.Amount = amount
	return b
}

// AsDebit marks the transaction as money going out.
func (b *TransactionBuilder) AsDebit() *TransactionBuilder {
	if b.err == nil {
		b.tx.IsDebit = true
	}
	return b
}

// AsCredit marks the transaction as money coming in.
func (b *TransactionBuilder) AsCredit() *TransactionBuilder {
	if b.err == nil {
		b.tx.IsDebit = false
	}
	return b
}

// WithMerchant sets the raw, normalized and display merchant names.
func (b *TransactionBuilder) WithMerchant(raw, normalized, display string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(raw) == "" {
		b.err = errors.New("merchant cannot be empty")
		return b
	}
	b.tx.RawMerchant = raw
	b.tx.NormalizedMerchant = normalized
	b.tx.DisplayMerchant = display
	if b.tx.DisplayMerchant == "" {
		b.tx.DisplayMerchant = raw
	}
	return b
}

// WithBank sets the resolved bank name.
func (b *TransactionBuilder) WithBank(name string) *TransactionBuilder {
	if b.err == nil {
		b.tx.BankName = name
	}
	return b
}

// WithCategory sets the category and its color. Empty values keep the defaults.
func (b *TransactionBuilder) WithCategory(name, color string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if name != "" {
		b.tx.Category = name
	}
	if color != "" {
		b.tx.CategoryColor = color
	}
	return b
}

// ExcludedFromExpenses marks the transaction as left out of expense totals.
func (b *TransactionBuilder) ExcludedFromExpenses(excluded bool) *TransactionBuilder {
	if b.err == nil {
		b.tx.ExcludedFromExpenses = excluded
	}
	return b
}

// WithConfidence sets the confidence score, clamped to [0, 1].
func (b *TransactionBuilder) WithConfidence(score float64) *TransactionBuilder {
	if b.err == nil {
		b.tx.Confidence = ClampConfidence(score)
	}
	return b
}

// Build returns the transaction or the first error recorded while building.
func (b *TransactionBuilder) Build() (ParsedTransaction, error) {
	if b.err != nil {
		return ParsedTransaction{}, b.err
	}
	if !b.tx.Amount.IsPositive() {
		return ParsedTransaction{}, errors.New("amount is required")
	}
	if b.tx.Timestamp.IsZero() {
		return ParsedTransaction{}, errors.New("source is required")
	}
	if b.tx.RawMerchant == "" {
		return ParsedTransaction{}, errors.New("merchant is required")
	}
	return b.tx, nil
}
