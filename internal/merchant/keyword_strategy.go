package merchant

import (
	"context"
	"strings"

	"fjacquet/sms-ledger/internal/patterns"
)

// KeywordStrategy maps canonical merchants to categories through the
// category keyword table of the pattern library. A token matches when it
// starts a word of the canonical merchant.
type KeywordStrategy struct {
	rules []patterns.CategoryRule
}

// NewKeywordStrategy creates a KeywordStrategy from lib's category table.
func NewKeywordStrategy(lib *patterns.Library) *KeywordStrategy {
	return &KeywordStrategy{rules: lib.Categories()}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Resolve returns the first rule with a matching token.
func (s *KeywordStrategy) Resolve(_ context.Context, canonical string) (Resolution, bool, error) {
	if canonical == "" {
		return Resolution{}, false, nil
	}

	padded := " " + canonical
	for _, rule := range s.rules {
		for _, tok := range rule.Tokens {
			if strings.Contains(padded, " "+tok) {
				return Resolution{
					Category:      rule.Category,
					CategoryColor: rule.Color,
					Strategy:      s.Name(),
				}, true, nil
			}
		}
	}
	return Resolution{}, false, nil
}
