// Package currencyutils provides the amount parsing and formatting shared by
// the extractor, the store and the CSV export.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MinimumAmount is the smallest amount accepted as a transaction.
var MinimumAmount = decimal.NewFromInt(1)

// StandardizeAmount strips currency markers, whitespace and thousands
// separators so the result can be parsed by decimal.NewFromString.
// Both western ("1,234,567.89") and Indian ("12,34,567.89") grouping are
// handled since the comma is never a decimal separator in these messages.
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"inr", "rs.", "rs", "₹"} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "/-")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ',' || r == ' ' || r == '\'':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount parses a captured amount string into a decimal.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty value", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// IsPlausible reports whether amount is large enough to be a real transaction.
func IsPlausible(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(MinimumAmount)
}

// IsPositive checks if an amount is positive
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}

// FormatAmount formats amount with two decimal places and an optional currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "INR":
		return "₹" + formatted
	default:
		return currency + " " + formatted
	}
}

// Signed returns amount negated for debits, as used in ledger exports.
func Signed(amount decimal.Decimal, isDebit bool) decimal.Decimal {
	if isDebit {
		return amount.Neg()
	}
	return amount
}
