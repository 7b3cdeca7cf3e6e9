// Package extractor pulls the structured fields of a transaction out of a
// notification body: direction, amount, merchant and issuing bank.
package extractor

import (
	"strings"
	"unicode"

	"fjacquet/sms-ledger/internal/currencyutils"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"

	"github.com/shopspring/decimal"
)

// merchantTrim is stripped from both ends of a merchant capture.
const merchantTrim = " .-&"

// Classification is the outcome of event classification.
type Classification struct {
	IsFinancial bool
	IsDebit     bool
}

// AmountMatch is an extracted amount and the cascade pattern that produced it.
type AmountMatch struct {
	Value   decimal.Decimal
	Pattern string
	Raw     string
}

// MerchantMatch is an extracted merchant token and the cascade pattern that produced it.
type MerchantMatch struct {
	Name    string
	Pattern string
}

// Extractor runs the extraction cascades of a pattern library. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	lib *patterns.Library
}

// New creates an Extractor over lib, using the built-in library when lib is nil.
func New(lib *patterns.Library) *Extractor {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Extractor{lib: lib}
}

// Classify decides whether body describes a money movement and in which
// direction. When both debit and credit keywords occur the message is a debit.
func (e *Extractor) Classify(bodyLower string) Classification {
	debit := e.lib.Debit.Contains(bodyLower)
	credit := e.lib.Credit.Contains(bodyLower)

	switch {
	case debit:
		return Classification{IsFinancial: true, IsDebit: true}
	case credit:
		return Classification{IsFinancial: true, IsDebit: false}
	default:
		return Classification{}
	}
}

// MatchAmount returns the amount found by the first cascade pattern that
// matches body, taking that pattern's first occurrence that parses to a
// plausible value. When no occurrence qualifies the message has no amount;
// later patterns are not consulted.
func (e *Extractor) MatchAmount(body string) (AmountMatch, bool) {
	for _, p := range e.lib.AmountCascade() {
		matches := p.Re.FindAllStringSubmatch(body, -1)
		if matches == nil {
			continue
		}

		for _, m := range matches {
			value, err := currencyutils.ParseAmount(m[1])
			if err != nil || !currencyutils.IsPlausible(value) {
				continue
			}
			return AmountMatch{Value: value, Pattern: p.Name, Raw: m[1]}, true
		}
		return AmountMatch{}, false
	}
	return AmountMatch{}, false
}

// ExtractAmount returns the transaction amount in body, if any.
func (e *Extractor) ExtractAmount(body string) (decimal.Decimal, bool) {
	m, ok := e.MatchAmount(body)
	return m.Value, ok
}

// MatchMerchant returns the first acceptable merchant capture of the cascade.
// Every occurrence of a pattern is tried before moving to the next pattern.
func (e *Extractor) MatchMerchant(body string) (MerchantMatch, bool) {
	for _, p := range e.lib.MerchantCascade() {
		for _, m := range p.Re.FindAllStringSubmatch(body, -1) {
			name := strings.Trim(m[1], merchantTrim)
			if e.acceptMerchant(name) {
				return MerchantMatch{Name: name, Pattern: p.Name}, true
			}
		}
	}
	return MerchantMatch{}, false
}

// ExtractMerchant returns the merchant named in body, falling back to the bank
// resolved from sender so the result is never empty.
func (e *Extractor) ExtractMerchant(body, sender string) string {
	if m, ok := e.MatchMerchant(body); ok {
		return m.Name
	}
	if bank := e.ResolveBankName(sender); bank != "" {
		return bank
	}
	return models.UnknownMerchant
}

// ResolveBankName maps a sender id to an institution name. Senders that match
// no bank rule are returned unchanged.
func (e *Extractor) ResolveBankName(sender string) string {
	upper := strings.ToUpper(sender)
	for _, b := range e.lib.Banks() {
		if strings.Contains(upper, b.Token) {
			return b.Name
		}
	}
	return strings.TrimSpace(sender)
}

func (e *Extractor) acceptMerchant(name string) bool {
	n := len([]rune(name))
	if n < 3 || n > 30 {
		return false
	}
	if !hasLetter(name) {
		return false
	}
	return !e.lib.MerchantRejected(name)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
