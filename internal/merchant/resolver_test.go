package merchant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	aliases    []models.MerchantAlias
	categories map[string]models.Category
	findCalls  int
	findErr    error
	addErr     error
}

func newFakeStore() *fakeStore {
	cats := make(map[string]models.Category)
	for _, c := range models.DefaultCategories {
		cats[c.Name] = c
	}
	return &fakeStore{categories: cats}
}

func (f *fakeStore) FindAliasesMatching(_ context.Context, canonical string) ([]models.MerchantAlias, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.MerchantAlias
	for _, a := range f.aliases {
		if strings.Contains(canonical, a.Pattern) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAliases(_ context.Context) ([]models.MerchantAlias, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.MerchantAlias(nil), f.aliases...), nil
}

func (f *fakeStore) AddAlias(_ context.Context, alias models.MerchantAlias) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	for i, a := range f.aliases {
		if a.Pattern == alias.Pattern {
			f.aliases[i] = alias
			return nil
		}
	}
	f.aliases = append(f.aliases, alias)
	return nil
}

func (f *fakeStore) GetCategoryByName(_ context.Context, name string) (models.Category, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[name]
	return c, ok, nil
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls
}

func TestResolver_AliasOverridesKeywordTable(t *testing.T) {
	store := newFakeStore()
	store.aliases = []models.MerchantAlias{
		{Pattern: "amazon", CanonicalMerchant: "amazon", Category: models.CategoryEntertainment, Confidence: 90},
	}
	r := NewResolver(store, nil, logging.NewMockLogger())

	res := r.Resolve(context.Background(), "amazon")
	assert.Equal(t, models.CategoryEntertainment, res.Category)
	assert.Equal(t, "amazon", res.DisplayName)
	assert.Equal(t, "#DDA0DD", res.CategoryColor)
	assert.Equal(t, "Alias", res.Strategy)
	assert.Equal(t, "amazon", res.Alias)
}

func TestResolver_ShoppingAlias(t *testing.T) {
	store := newFakeStore()
	store.aliases = []models.MerchantAlias{
		{Pattern: "amazon", CanonicalMerchant: "amazon", Category: models.CategoryShopping, Confidence: 50},
	}
	r := NewResolver(store, nil, nil)

	res := r.Resolve(context.Background(), "amazon")
	assert.Equal(t, models.CategoryShopping, res.Category)
	assert.Equal(t, "#45B7D1", res.CategoryColor)
}

func TestResolver_HighestConfidenceWins(t *testing.T) {
	store := newFakeStore()
	store.aliases = []models.MerchantAlias{
		{Pattern: "amazon", CanonicalMerchant: "Amazon", Category: models.CategoryShopping, Confidence: 50},
		{Pattern: "amazon prime", CanonicalMerchant: "Prime Video", Category: models.CategoryEntertainment, Confidence: 80},
	}
	r := NewResolver(store, nil, nil)

	res := r.Resolve(context.Background(), "amazon prime india")
	assert.Equal(t, "Prime Video", res.DisplayName)
	assert.Equal(t, models.CategoryEntertainment, res.Category)

	res = r.Resolve(context.Background(), "amazon seller")
	assert.Equal(t, "Amazon", res.DisplayName)
}

func TestResolver_KeywordAndDefault(t *testing.T) {
	r := NewResolver(newFakeStore(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		canonical string
		category  string
		color     string
		strategy  string
	}{
		{"swiggy", models.CategoryFood, "#FF6B6B", "Keyword"},
		{"uber india", models.CategoryTransport, "#96CEB4", "Keyword"},
		{"apollo pharmacy", models.CategoryHealth, "#98D8C8", "Keyword"},
		{"netflix com", models.CategoryEntertainment, "#DDA0DD", "Keyword"},
		{"skola", models.CategoryOther, models.ColorNeutral, "Default"},
		{"xyz traders", models.CategoryOther, models.ColorNeutral, "Default"},
		{"", models.CategoryOther, models.ColorNeutral, "Default"},
	}

	for _, tt := range tests {
		t.Run(tt.canonical, func(t *testing.T) {
			res := r.Resolve(ctx, tt.canonical)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.color, res.CategoryColor)
			assert.Equal(t, tt.strategy, res.Strategy)
			assert.Empty(t, res.DisplayName)
		})
	}
}

func TestResolver_CachesResults(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil, nil)
	ctx := context.Background()

	first := r.Resolve(ctx, "zomato")
	second := r.Resolve(ctx, "zomato")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls())
	assert.Equal(t, 1, r.CacheSize())
}

func TestResolver_AddAliasInvalidatesAffectedEntries(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil, logging.NewMockLogger())
	ctx := context.Background()

	assert.Equal(t, models.CategoryOther, r.Resolve(ctx, "acme rentals").Category)
	r.Resolve(ctx, "swiggy")
	require.Equal(t, 2, r.CacheSize())

	saved, err := r.AddAlias(ctx, models.MerchantAlias{
		Pattern:           "  ACME ",
		CanonicalMerchant: "Acme Rentals",
		Category:          models.CategoryBills,
		Confidence:        100,
		UserDefined:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "acme", saved.Pattern)
	assert.Equal(t, 1, r.CacheSize(), "unrelated entries stay cached")

	res := r.Resolve(ctx, "acme rentals")
	assert.Equal(t, models.CategoryBills, res.Category)
	assert.Equal(t, "Acme Rentals", res.DisplayName)
}

func TestResolver_AddAliasValidation(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil, nil)
	ctx := context.Background()

	_, err := r.AddAlias(ctx, models.MerchantAlias{Pattern: "!!!", CanonicalMerchant: "X"})
	var ve *ingesterror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "pattern", ve.Field)

	_, err = r.AddAlias(ctx, models.MerchantAlias{Pattern: "acme", CanonicalMerchant: " "})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "merchant", ve.Field)

	saved, err := r.AddAlias(ctx, models.MerchantAlias{Pattern: "acme", CanonicalMerchant: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, saved.Category)

	store.addErr = errors.New("disk full")
	_, err = r.AddAlias(ctx, models.MerchantAlias{Pattern: "beta", CanonicalMerchant: "Beta"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestResolver_StoreFailureFallsBackAndSkipsCache(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("database locked")
	logger := logging.NewMockLogger()
	r := NewResolver(store, nil, logger)

	res := r.Resolve(context.Background(), "swiggy")
	assert.Equal(t, models.CategoryFood, res.Category)
	assert.Equal(t, 0, r.CacheSize())
	assert.True(t, logger.HasEntry("WARN", "Merchant resolution strategy failed"))
}

func TestResolver_FuzzyMatching(t *testing.T) {
	store := newFakeStore()
	store.aliases = []models.MerchantAlias{
		{Pattern: "starbucks", CanonicalMerchant: "Starbucks", Category: models.CategoryFood, Confidence: 60},
		{Pattern: "starbuck", CanonicalMerchant: "Starbuck Fan Club", Category: models.CategoryEntertainment, Confidence: 90},
	}
	ctx := context.Background()

	plain := NewResolver(store, nil, nil)
	assert.Equal(t, "Default", plain.Resolve(ctx, "strbcks").Strategy)

	fuzzy := NewResolver(store, nil, nil, WithFuzzyMatching(2))
	res := fuzzy.Resolve(ctx, "strbucks")
	assert.Equal(t, "FuzzyAlias", res.Strategy)
	// "strbucks" is one edit from "starbucks" and two from "starbuck".
	assert.Equal(t, "Starbucks", res.DisplayName)

	res = fuzzy.Resolve(ctx, "completely different")
	assert.Equal(t, "Default", res.Strategy)
}

func TestResolver_FuzzyInvalidationClearsEverything(t *testing.T) {
	r := NewResolver(newFakeStore(), nil, nil, WithFuzzyMatching(1))
	ctx := context.Background()
	r.Resolve(ctx, "swiggy")
	r.Resolve(ctx, "zomato")
	require.Equal(t, 2, r.CacheSize())

	r.InvalidateAlias("unrelated")
	assert.Equal(t, 0, r.CacheSize())
}

type stubStrategy struct {
	name string
	res  Resolution
	ok   bool
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Resolve(context.Context, string) (Resolution, bool, error) {
	return s.res, s.ok, nil
}

func TestResolver_CustomStrategies(t *testing.T) {
	r := NewResolver(newFakeStore(), patterns.Default(), nil, WithStrategies(
		stubStrategy{name: "Never"},
		stubStrategy{name: "Always", res: Resolution{Category: models.CategoryIncome, Strategy: "Always"}, ok: true},
	))

	res := r.Resolve(context.Background(), "anything")
	assert.Equal(t, models.CategoryIncome, res.Category)
	assert.Equal(t, "#A6E3A1", res.CategoryColor)
	assert.Equal(t, "Always", res.Strategy)
}

// gatedStore holds the first alias lookup after reading its result until
// release is closed.
type gatedStore struct {
	*fakeStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) FindAliasesMatching(ctx context.Context, canonical string) ([]models.MerchantAlias, error) {
	out, err := g.fakeStore.FindAliasesMatching(ctx, canonical)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return out, err
}

func TestResolver_AliasAddedDuringResolveIsNotShadowed(t *testing.T) {
	ctx := context.Background()
	st := &gatedStore{fakeStore: newFakeStore(), entered: make(chan struct{}), release: make(chan struct{})}
	r := NewResolver(st, patterns.Default(), nil)

	done := make(chan Resolution, 1)
	go func() { done <- r.Resolve(ctx, "zyx widgets") }()

	<-st.entered
	_, err := r.AddAlias(ctx, models.MerchantAlias{
		Pattern:           "zyx",
		CanonicalMerchant: "Zyx Widgets",
		Category:          models.CategoryBills,
		Confidence:        100,
	})
	require.NoError(t, err)
	close(st.release)

	assert.Equal(t, models.CategoryOther, (<-done).Category, "lookup started before the alias existed")
	assert.Equal(t, 0, r.CacheSize())

	res := r.Resolve(ctx, "zyx widgets")
	assert.Equal(t, models.CategoryBills, res.Category)
	assert.Equal(t, "Zyx Widgets", res.DisplayName)
}
