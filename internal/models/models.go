// Package models provides the data structures shared by the ingestion pipeline:
// raw messages, parsed transactions, merchant aliases, categories and the sync cursor.
package models

import (
	"time"
)

// RawMessage is a notification as delivered by the message source. It is
// never mutated by the pipeline.
type RawMessage struct {
	ExternalID string
	Sender     string
	Body       string
	Timestamp  time.Time
}

// Category is a spending category with its display color.
type Category struct {
	Name         string `yaml:"name"`
	Emoji        string `yaml:"emoji,omitempty"`
	Color        string `yaml:"color"`
	IsSystem     bool   `yaml:"is_system,omitempty"`
	DisplayOrder int    `yaml:"display_order,omitempty"`
}

// MerchantAlias maps a canonical-merchant substring pattern to a display name
// and category. Higher confidence wins when several aliases match.
type MerchantAlias struct {
	Pattern           string `yaml:"pattern"`
	CanonicalMerchant string `yaml:"merchant"`
	Category          string `yaml:"category"`
	Confidence        int    `yaml:"confidence"`
	UserDefined       bool   `yaml:"user_defined,omitempty"`
	// ExcludeFromExpenses marks merchants, such as own-account transfers,
	// that are recorded but left out of expense totals.
	ExcludeFromExpenses bool `yaml:"exclude_from_expenses,omitempty"`
}

// SeedFile is the YAML layout used to seed categories and system aliases.
type SeedFile struct {
	Categories []Category      `yaml:"categories"`
	Aliases    []MerchantAlias `yaml:"aliases"`
}
