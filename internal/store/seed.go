package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"

	"gopkg.in/yaml.v3"
)

// systemAliasConfidence ranks built-in aliases below user-defined ones.
const systemAliasConfidence = 50

// DefaultSeed returns the categories and system aliases applied to a fresh store.
func DefaultSeed() models.SeedFile {
	alias := func(pattern, merchant, category string) models.MerchantAlias {
		return models.MerchantAlias{
			Pattern:           pattern,
			CanonicalMerchant: merchant,
			Category:          category,
			Confidence:        systemAliasConfidence,
		}
	}

	return models.SeedFile{
		Categories: append([]models.Category(nil), models.DefaultCategories...),
		Aliases: []models.MerchantAlias{
			alias("amazon", "Amazon", models.CategoryShopping),
			alias("flipkart", "Flipkart", models.CategoryShopping),
			alias("swiggy", "Swiggy", models.CategoryFood),
			alias("zomato", "Zomato", models.CategoryFood),
			alias("uber", "Uber", models.CategoryTransport),
			alias("irctc", "IRCTC", models.CategoryTransport),
			alias("bigbasket", "BigBasket", models.CategoryGroceries),
			alias("netflix", "Netflix", models.CategoryEntertainment),
			alias("airtel", "Airtel", models.CategoryBills),
			alias("salary", "Salary", models.CategoryIncome),
		},
	}
}

// FindSeedFile looks for a seed file in standard locations.
func FindSeedFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".sms-ledger", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadSeedFile reads a YAML seed file. Alias patterns are normalized the way
// canonical merchants are; aliases without an explicit confidence get the system default.
func LoadSeedFile(filename string) (models.SeedFile, error) {
	path, err := FindSeedFile(filename)
	if err != nil {
		return models.SeedFile{}, fmt.Errorf("seed file %s: %w", filename, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.SeedFile{}, fmt.Errorf("error reading seed file: %w", err)
	}

	var seed models.SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return models.SeedFile{}, fmt.Errorf("error parsing seed file: %w", err)
	}

	for i := range seed.Categories {
		if strings.TrimSpace(seed.Categories[i].Name) == "" {
			return models.SeedFile{}, fmt.Errorf("seed file %s: category %d has no name", path, i+1)
		}
		if seed.Categories[i].Color == "" {
			seed.Categories[i].Color = models.ColorNeutral
		}
	}
	for i := range seed.Aliases {
		a := &seed.Aliases[i]
		a.Pattern = merchant.Normalize(a.Pattern)
		if a.Pattern == "" || strings.TrimSpace(a.CanonicalMerchant) == "" {
			return models.SeedFile{}, fmt.Errorf("seed file %s: alias %d needs a pattern and a merchant", path, i+1)
		}
		if a.Category == "" {
			a.Category = models.CategoryOther
		}
		if a.Confidence == 0 {
			a.Confidence = systemAliasConfidence
		}
	}
	return seed, nil
}

// ApplySeed inserts the categories and aliases of seed that the store does not know yet.
func ApplySeed(ctx context.Context, s Store, seed models.SeedFile, logger logging.Logger) error {
	logger = logging.OrDefault(logger)

	cats, err := s.SeedCategories(ctx, seed.Categories)
	if err != nil {
		return err
	}
	aliases, err := s.SeedAliases(ctx, seed.Aliases)
	if err != nil {
		return err
	}

	if cats > 0 || aliases > 0 {
		logger.Info("Seeded store",
			logging.F("categories", cats),
			logging.F("aliases", aliases))
	}
	return nil
}
