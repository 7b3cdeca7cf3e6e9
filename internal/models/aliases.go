package models

import "sort"

// SortAliases orders aliases by descending confidence, then longer (more
// specific) pattern first, then pattern for a stable result.
func SortAliases(aliases []MerchantAlias) {
	sort.SliceStable(aliases, func(i, j int) bool {
		a, b := aliases[i], aliases[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if len(a.Pattern) != len(b.Pattern) {
			return len(a.Pattern) > len(b.Pattern)
		}
		return a.Pattern < b.Pattern
	})
}
