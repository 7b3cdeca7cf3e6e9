package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is a fully classified transaction extracted from one RawMessage.
// Instances are produced by TransactionBuilder and are never partially populated.
type ParsedTransaction struct {
	ExternalID         string          `csv:"ExternalID"`
	Timestamp          time.Time       `csv:"-"`
	Amount             decimal.Decimal `csv:"-"`
	IsDebit            bool            `csv:"IsDebit"`
	RawMerchant        string          `csv:"RawMerchant"`
	NormalizedMerchant string          `csv:"NormalizedMerchant"`
	DisplayMerchant    string          `csv:"DisplayMerchant"`
	BankName           string          `csv:"BankName"`
	Category           string          `csv:"Category"`
	CategoryColor      string          `csv:"CategoryColor"`
	Confidence         float64         `csv:"Confidence"`
	SourceText         string          `csv:"SourceText"`
	// ExcludedFromExpenses is inherited from the resolving alias.
	ExcludedFromExpenses bool `csv:"ExcludedFromExpenses"`
}

// Direction returns "DEBIT" or "CREDIT".
func (t ParsedTransaction) Direction() string {
	if t.IsDebit {
		return "DEBIT"
	}
	return "CREDIT"
}

// ClampConfidence bounds v to [0, 1].
func ClampConfidence(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
