// Package store provides the durable record store of the ingestion pipeline:
// transactions keyed by external id, the sync cursor, merchant aliases and
// categories. SQLiteStore is the production implementation, MemoryStore backs
// tests and dry runs.
package store

import (
	"context"

	"fjacquet/sms-ledger/internal/models"
)

// Store is the full contract implemented by every backend.
type Store interface {
	// InsertIfAbsent writes tx unless a transaction with the same external id
	// exists. It reports whether a row was inserted.
	InsertIfAbsent(ctx context.Context, tx models.ParsedTransaction) (bool, error)
	ListTransactions(ctx context.Context, limit int) ([]models.ParsedTransaction, error)
	CountTransactions(ctx context.Context) (int, error)

	GetCursor(ctx context.Context) (models.SyncCursor, error)
	SetCursor(ctx context.Context, cursor models.SyncCursor) error

	// FindAliasesMatching returns aliases whose pattern is a substring of
	// canonical, ranked by descending confidence.
	FindAliasesMatching(ctx context.Context, canonical string) ([]models.MerchantAlias, error)
	ListAliases(ctx context.Context) ([]models.MerchantAlias, error)
	// AddAlias inserts alias or replaces the alias with the same pattern.
	AddAlias(ctx context.Context, alias models.MerchantAlias) error
	// SeedAliases inserts aliases whose pattern is not yet known and returns
	// the number inserted. Existing aliases are never overwritten.
	SeedAliases(ctx context.Context, aliases []models.MerchantAlias) (int, error)

	GetCategoryByName(ctx context.Context, name string) (models.Category, bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// SeedCategories inserts categories whose name is not yet known and
	// returns the number inserted.
	SeedCategories(ctx context.Context, categories []models.Category) (int, error)

	Close() error
}
