package merchant

import (
	"context"

	"fjacquet/sms-ledger/internal/models"
)

// Resolution is what a canonical merchant resolves to.
type Resolution struct {
	// DisplayName is set only when an alias supplies one.
	DisplayName   string
	Category      string
	CategoryColor string
	// Strategy names the strategy that produced the resolution.
	Strategy string
	// Alias is the pattern of the matching alias, if any.
	Alias string
	// ExcludeFromExpenses is copied from the matching alias.
	ExcludeFromExpenses bool
}

// Strategy is one step of the resolution chain.
type Strategy interface {
	// Resolve returns a resolution and true when the strategy recognizes canonical.
	Resolve(ctx context.Context, canonical string) (Resolution, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// AliasStore is the slice of the durable store the resolver reads and writes.
type AliasStore interface {
	FindAliasesMatching(ctx context.Context, canonical string) ([]models.MerchantAlias, error)
	ListAliases(ctx context.Context) ([]models.MerchantAlias, error)
	AddAlias(ctx context.Context, alias models.MerchantAlias) error
	GetCategoryByName(ctx context.Context, name string) (models.Category, bool, error)
}
