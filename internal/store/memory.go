package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fjacquet/sms-ledger/internal/models"
)

// MemoryStore is an in-process Store. The error hooks let tests simulate
// failures of individual operations.
type MemoryStore struct {
	mu           sync.RWMutex
	transactions map[string]models.ParsedTransaction
	cursor       models.SyncCursor
	aliases      map[string]models.MerchantAlias
	categories   map[string]models.Category

	// InsertError, when set, is consulted before every insert.
	InsertError func(tx models.ParsedTransaction) error
	// CursorError, when set, is returned by GetCursor and SetCursor.
	CursorError error
	// AliasError, when set, is returned by alias lookups.
	AliasError error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]models.ParsedTransaction),
		cursor:       models.InitialCursor(),
		aliases:      make(map[string]models.MerchantAlias),
		categories:   make(map[string]models.Category),
	}
}

// InsertIfAbsent implements Store.
func (m *MemoryStore) InsertIfAbsent(_ context.Context, tx models.ParsedTransaction) (bool, error) {
	if m.InsertError != nil {
		if err := m.InsertError(tx); err != nil {
			return false, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.transactions[tx.ExternalID]; exists {
		return false, nil
	}
	m.transactions[tx.ExternalID] = tx
	return true, nil
}

// ListTransactions implements Store.
func (m *MemoryStore) ListTransactions(_ context.Context, limit int) ([]models.ParsedTransaction, error) {
	m.mu.RLock()
	out := make([]models.ParsedTransaction, 0, len(m.transactions))
	for _, tx := range m.transactions {
		out = append(out, tx)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ExternalID > out[j].ExternalID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountTransactions implements Store.
func (m *MemoryStore) CountTransactions(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.transactions), nil
}

// GetCursor implements Store.
func (m *MemoryStore) GetCursor(_ context.Context) (models.SyncCursor, error) {
	if m.CursorError != nil {
		return models.SyncCursor{}, m.CursorError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cursor, nil
}

// SetCursor implements Store.
func (m *MemoryStore) SetCursor(_ context.Context, cursor models.SyncCursor) error {
	if m.CursorError != nil {
		return m.CursorError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = cursor
	return nil
}

// FindAliasesMatching implements Store.
func (m *MemoryStore) FindAliasesMatching(_ context.Context, canonical string) ([]models.MerchantAlias, error) {
	if m.AliasError != nil {
		return nil, m.AliasError
	}
	m.mu.RLock()
	var out []models.MerchantAlias
	for _, a := range m.aliases {
		if strings.Contains(canonical, a.Pattern) {
			out = append(out, a)
		}
	}
	m.mu.RUnlock()

	models.SortAliases(out)
	return out, nil
}

// ListAliases implements Store.
func (m *MemoryStore) ListAliases(_ context.Context) ([]models.MerchantAlias, error) {
	if m.AliasError != nil {
		return nil, m.AliasError
	}
	m.mu.RLock()
	out := make([]models.MerchantAlias, 0, len(m.aliases))
	for _, a := range m.aliases {
		out = append(out, a)
	}
	m.mu.RUnlock()

	models.SortAliases(out)
	return out, nil
}

// AddAlias implements Store.
func (m *MemoryStore) AddAlias(_ context.Context, alias models.MerchantAlias) error {
	if m.AliasError != nil {
		return m.AliasError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aliases[alias.Pattern] = alias
	return nil
}

// SeedAliases implements Store.
func (m *MemoryStore) SeedAliases(_ context.Context, aliases []models.MerchantAlias) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, a := range aliases {
		if _, exists := m.aliases[a.Pattern]; exists {
			continue
		}
		m.aliases[a.Pattern] = a
		inserted++
	}
	return inserted, nil
}

// GetCategoryByName implements Store.
func (m *MemoryStore) GetCategoryByName(_ context.Context, name string) (models.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[strings.ToLower(name)]
	return c, ok, nil
}

// ListCategories implements Store.
func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// SeedCategories implements Store.
func (m *MemoryStore) SeedCategories(_ context.Context, categories []models.Category) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, c := range categories {
		key := strings.ToLower(c.Name)
		if _, exists := m.categories[key]; exists {
			continue
		}
		m.categories[key] = c
		inserted++
	}
	return inserted, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
