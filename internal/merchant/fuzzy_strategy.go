package merchant

import (
	"context"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// FuzzyAliasStrategy accepts the alias whose pattern is closest to the
// canonical merchant by edit distance, within maxDistance.
type FuzzyAliasStrategy struct {
	store       AliasStore
	maxDistance int
}

// NewFuzzyAliasStrategy creates a FuzzyAliasStrategy. maxDistance must be positive.
func NewFuzzyAliasStrategy(store AliasStore, maxDistance int) *FuzzyAliasStrategy {
	return &FuzzyAliasStrategy{store: store, maxDistance: maxDistance}
}

// Name returns the name of this strategy for logging and debugging.
func (s *FuzzyAliasStrategy) Name() string {
	return "FuzzyAlias"
}

// Resolve returns the nearest alias, preferring higher confidence on equal distance.
func (s *FuzzyAliasStrategy) Resolve(ctx context.Context, canonical string) (Resolution, bool, error) {
	if s.maxDistance <= 0 || canonical == "" {
		return Resolution{}, false, nil
	}

	aliases, err := s.store.ListAliases(ctx)
	if err != nil {
		return Resolution{}, false, fmt.Errorf("list aliases: %w", err)
	}

	bestIdx, bestDist := -1, s.maxDistance+1
	for i, a := range aliases {
		d := levenshtein.ComputeDistance(canonical, a.Pattern)
		if d > s.maxDistance {
			continue
		}
		if d < bestDist || (d == bestDist && a.Confidence > aliases[bestIdx].Confidence) {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx < 0 {
		return Resolution{}, false, nil
	}
	return fromAlias(aliases[bestIdx], s.Name()), true, nil
}
