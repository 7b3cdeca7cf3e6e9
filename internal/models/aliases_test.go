package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortAliases(t *testing.T) {
	aliases := []MerchantAlias{
		{Pattern: "amaz", Confidence: 50},
		{Pattern: "amazon", Confidence: 50},
		{Pattern: "prime", Confidence: 90},
		{Pattern: "abcd", Confidence: 50},
	}
	SortAliases(aliases)

	got := make([]string, len(aliases))
	for i, a := range aliases {
		got[i] = a.Pattern
	}
	assert.Equal(t, []string{"prime", "amazon", "abcd", "amaz"}, got)
}
