// Package scoring computes the advisory confidence attached to every
// extracted transaction.
package scoring

import (
	"strings"
	"unicode/utf8"

	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"

	"github.com/shopspring/decimal"
)

// Score adjustments.
const (
	Base              = 0.5
	DebitKeywordBonus = 0.2
	CurrencyBonus     = 0.1
	MerchantBonus     = 0.15
	HighValuePenalty  = 0.1
	MinMerchantLength = 5
	DefaultHighValue  = 100000
)

// Breakdown lists which adjustments contributed to a score.
type Breakdown struct {
	DebitKeyword   bool
	CurrencyMarker bool
	Merchant       bool
	HighValue      bool
	Score          float64
}

// Scorer scores extraction results against a pattern library.
type Scorer struct {
	lib       *patterns.Library
	highValue decimal.Decimal
}

// New creates a Scorer. A non-positive threshold selects DefaultHighValue.
func New(lib *patterns.Library, highValue decimal.Decimal) *Scorer {
	if lib == nil {
		lib = patterns.Default()
	}
	if !highValue.IsPositive() {
		highValue = decimal.NewFromInt(DefaultHighValue)
	}
	return &Scorer{lib: lib, highValue: highValue}
}

// Explain returns the score of an extraction together with the signals behind it.
func (s *Scorer) Explain(body string, amount decimal.Decimal, merchant string) Breakdown {
	b := Breakdown{
		DebitKeyword:   s.lib.Debit.Contains(body),
		CurrencyMarker: s.lib.HasCurrencyMarker(body),
		Merchant:       nonTrivialMerchant(merchant),
		HighValue:      amount.GreaterThan(s.highValue),
	}

	score := Base
	if b.DebitKeyword {
		score += DebitKeywordBonus
	}
	if b.CurrencyMarker {
		score += CurrencyBonus
	}
	if b.Merchant {
		score += MerchantBonus
	}
	if b.HighValue {
		score -= HighValuePenalty
	}
	b.Score = models.ClampConfidence(score)
	return b
}

// Score returns the confidence in [0, 1] for an extraction.
func (s *Scorer) Score(body string, amount decimal.Decimal, merchant string) float64 {
	return s.Explain(body, amount, merchant).Score
}

func nonTrivialMerchant(merchant string) bool {
	m := strings.TrimSpace(merchant)
	return utf8.RuneCountInString(m) > MinMerchantLength && !strings.EqualFold(m, models.UnknownMerchant)
}
