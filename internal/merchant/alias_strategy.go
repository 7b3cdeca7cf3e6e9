package merchant

import (
	"context"
	"fmt"

	"fjacquet/sms-ledger/internal/models"
)

// AliasStrategy resolves merchants through aliases whose pattern is a
// substring of the canonical merchant. The highest-ranked alias wins.
type AliasStrategy struct {
	store AliasStore
}

// NewAliasStrategy creates an AliasStrategy over store.
func NewAliasStrategy(store AliasStore) *AliasStrategy {
	return &AliasStrategy{store: store}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AliasStrategy) Name() string {
	return "Alias"
}

// Resolve looks up matching aliases and returns the best one.
func (s *AliasStrategy) Resolve(ctx context.Context, canonical string) (Resolution, bool, error) {
	aliases, err := s.store.FindAliasesMatching(ctx, canonical)
	if err != nil {
		return Resolution{}, false, fmt.Errorf("find aliases for %q: %w", canonical, err)
	}
	if len(aliases) == 0 {
		return Resolution{}, false, nil
	}

	models.SortAliases(aliases)
	return fromAlias(aliases[0], s.Name()), true, nil
}

func fromAlias(a models.MerchantAlias, strategy string) Resolution {
	return Resolution{
		DisplayName: a.CanonicalMerchant,
		Category:    a.Category,
		Strategy:    strategy,
		Alias:       a.Pattern,

		ExcludeFromExpenses: a.ExcludeFromExpenses,
	}
}
