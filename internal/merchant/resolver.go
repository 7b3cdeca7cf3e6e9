package merchant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithFuzzyMatching inserts a FuzzyAliasStrategy after the substring alias
// lookup. A non-positive distance leaves fuzzy matching disabled.
func WithFuzzyMatching(maxDistance int) Option {
	return func(r *Resolver) {
		r.fuzzyDistance = maxDistance
	}
}

// WithStrategies replaces the default chain. Mostly useful in tests.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) {
		r.custom = strategies
	}
}

// Resolver runs the resolution chain (aliases, optional fuzzy aliases,
// category keywords, default) and caches results per canonical merchant.
// Cache entries are dropped only by explicit invalidation.
type Resolver struct {
	store      AliasStore
	logger     logging.Logger
	strategies []Strategy

	fuzzyDistance int
	custom        []Strategy

	mu    sync.RWMutex
	cache map[string]Resolution
	// generation counts invalidations. A resolution computed across an
	// invalidation is returned but not cached.
	generation uint64
}

// NewResolver builds a Resolver over store and the category table of lib.
func NewResolver(store AliasStore, lib *patterns.Library, logger logging.Logger, opts ...Option) *Resolver {
	if lib == nil {
		lib = patterns.Default()
	}

	r := &Resolver{
		store:  store,
		logger: logging.OrDefault(logger),
		cache:  make(map[string]Resolution, 64),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.custom != nil {
		r.strategies = r.custom
	} else {
		r.strategies = []Strategy{NewAliasStrategy(store)}
		if r.fuzzyDistance > 0 {
			r.strategies = append(r.strategies, NewFuzzyAliasStrategy(store, r.fuzzyDistance))
		}
		r.strategies = append(r.strategies, NewKeywordStrategy(lib))
	}
	return r
}

// Resolve returns the display name, category and color for canonical.
// Store failures are logged and the chain continues, so Resolve always
// yields a usable result; such results are not cached.
func (r *Resolver) Resolve(ctx context.Context, canonical string) Resolution {
	r.mu.RLock()
	cached, ok := r.cache[canonical]
	gen := r.generation
	r.mu.RUnlock()
	if ok {
		return cached
	}

	degraded := false
	res, found := Resolution{}, false
	for _, s := range r.strategies {
		var err error
		res, found, err = s.Resolve(ctx, canonical)
		if err != nil {
			degraded = true
			r.logger.WithError(err).Warn("Merchant resolution strategy failed",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldMerchant, canonical))
			continue
		}
		if found {
			break
		}
	}
	if !found {
		res = Resolution{Category: models.CategoryOther, Strategy: "Default"}
	}

	if res.Category == "" {
		res.Category = models.CategoryOther
	}
	color, ok := r.categoryColor(ctx, res.Category)
	if !ok {
		degraded = true
	}
	if color != "" {
		res.CategoryColor = color
	}
	if res.CategoryColor == "" {
		res.CategoryColor = models.ColorNeutral
	}

	r.logger.Debug("Resolved merchant",
		logging.F(logging.FieldMerchant, canonical),
		logging.F(logging.FieldCategory, res.Category),
		logging.F(logging.FieldStrategy, res.Strategy))

	if !degraded {
		r.mu.Lock()
		if r.generation == gen {
			r.cache[canonical] = res
		}
		r.mu.Unlock()
	}
	return res
}

// categoryColor returns the stored color of a category. The bool is false
// when the store could not be read.
func (r *Resolver) categoryColor(ctx context.Context, name string) (string, bool) {
	cat, found, err := r.store.GetCategoryByName(ctx, name)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to read category",
			logging.F(logging.FieldCategory, name))
		return "", false
	}
	if !found {
		return "", true
	}
	return cat.Color, true
}

// AddAlias normalizes and stores a user alias, then invalidates every cached
// merchant the alias could affect.
func (r *Resolver) AddAlias(ctx context.Context, alias models.MerchantAlias) (models.MerchantAlias, error) {
	alias.Pattern = Normalize(alias.Pattern)
	if alias.Pattern == "" {
		return alias, &ingesterror.ValidationError{Field: "pattern", Reason: "must contain letters or digits"}
	}
	alias.CanonicalMerchant = strings.TrimSpace(alias.CanonicalMerchant)
	if alias.CanonicalMerchant == "" {
		return alias, &ingesterror.ValidationError{Field: "merchant", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(alias.Category) == "" {
		alias.Category = models.CategoryOther
	}

	if err := r.store.AddAlias(ctx, alias); err != nil {
		return alias, fmt.Errorf("add alias %q: %w", alias.Pattern, err)
	}

	r.InvalidateAlias(alias.Pattern)
	r.logger.Info("Merchant alias saved",
		logging.F(logging.FieldPattern, alias.Pattern),
		logging.F(logging.FieldMerchant, alias.CanonicalMerchant),
		logging.F(logging.FieldCategory, alias.Category))
	return alias, nil
}

// InvalidateAlias drops cached entries whose canonical merchant contains
// pattern. With fuzzy matching enabled any entry may be affected, so the
// whole cache is cleared.
func (r *Resolver) InvalidateAlias(pattern string) {
	if r.fuzzyDistance > 0 {
		r.InvalidateAll()
		return
	}

	pattern = Normalize(pattern)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	for canonical := range r.cache {
		if strings.Contains(canonical, pattern) {
			delete(r.cache, canonical)
		}
	}
}

// InvalidateAll clears the cache.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]Resolution, 64)
	r.generation++
	r.mu.Unlock()
}

// CacheSize returns the number of cached resolutions.
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
