// Package container provides dependency injection for the sms-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"
	"fjacquet/sms-ledger/internal/pipeline"
	"fjacquet/sms-ledger/internal/scoring"
	"fjacquet/sms-ledger/internal/source"
	"fjacquet/sms-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    store.Store
	library  *patterns.Library
	resolver *merchant.Resolver
	pipeline *pipeline.Pipeline
}

// NewContainer creates and wires all application dependencies, opening the
// SQLite store at cfg.Store.Path.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	c, err := NewContainerWithStore(cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithStore wires the application around an existing store.
// The container takes ownership of st and closes it in Close.
func NewContainerWithStore(cfg *config.Config, st store.Store, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	logger = logging.OrDefault(logger)

	lib := patterns.Default()
	if cfg.Patterns.File != "" {
		loaded, err := patterns.LoadFile(cfg.Patterns.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load patterns: %w", err)
		}
		lib = loaded
		logger.Info("Loaded pattern overlay",
			logging.F(logging.FieldFile, cfg.Patterns.File),
			logging.F("version", lib.Version()))
	}

	seed := store.DefaultSeed()
	if cfg.Seed.File != "" {
		loaded, err := store.LoadSeedFile(cfg.Seed.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed: %w", err)
		}
		seed = mergeSeed(seed, loaded)
	}
	if err := store.ApplySeed(context.Background(), st, seed, logger); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	if len(cfg.CSV.Delimiter) == 1 {
		common.SetDelimiter(rune(cfg.CSV.Delimiter[0]))
	}

	var opts []merchant.Option
	if cfg.Merchant.FuzzyMaxDistance > 0 {
		opts = append(opts, merchant.WithFuzzyMatching(cfg.Merchant.FuzzyMaxDistance))
	}
	resolver := merchant.NewResolver(st, lib, logger, opts...)
	scorer := scoring.New(lib, decimal.NewFromFloat(cfg.Scoring.HighValueThreshold))

	logger.Debug("Container initialized successfully",
		logging.F("patterns_version", lib.Version()),
		logging.F("fuzzy_max_distance", cfg.Merchant.FuzzyMaxDistance))

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    st,
		library:  lib,
		resolver: resolver,
		pipeline: pipeline.New(lib, resolver, scorer, logger),
	}, nil
}

// mergeSeed puts the entries of custom ahead of the built-in ones, so they
// win when both define the same category or alias pattern.
func mergeSeed(builtin, custom models.SeedFile) models.SeedFile {
	return models.SeedFile{
		Categories: append(append([]models.Category(nil), custom.Categories...), builtin.Categories...),
		Aliases:    append(append([]models.MerchantAlias(nil), custom.Aliases...), builtin.Aliases...),
	}
}

// ScanConfig returns the coordinator bounds from the configuration.
func (c *Container) ScanConfig() ingest.Config {
	return ingest.Config{
		DepthMonths:      c.config.Scan.DepthMonths,
		MaxMessages:      c.config.Scan.MaxMessages,
		Timeout:          c.config.Scan.Timeout(),
		ProgressInterval: c.config.Scan.ProgressInterval,
	}
}

// NewCoordinator returns a coordinator scanning src into the store.
func (c *Container) NewCoordinator(src source.Source, opts ...ingest.Option) *ingest.Coordinator {
	return ingest.NewCoordinator(src, c.store, c.pipeline, c.ScanConfig(), c.logger, opts...)
}

// NewSyncer returns a syncer scanning src and keeping the stored cursor.
func (c *Container) NewSyncer(src source.Source, opts ...ingest.Option) *ingest.Syncer {
	return ingest.NewSyncer(c.NewCoordinator(src, opts...), c.store, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetLibrary returns the compiled pattern library.
func (c *Container) GetLibrary() *patterns.Library {
	return c.library
}

// GetResolver returns the merchant resolver. Alias writes must go through it
// so its cache is invalidated.
func (c *Container) GetResolver() *merchant.Resolver {
	return c.resolver
}

// GetPipeline returns the per-message pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
