// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/ingesterror"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "SMSLEDGER"

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
	Patterns PatternsConfig `mapstructure:"patterns" yaml:"patterns"`
	Scoring  ScoringConfig  `mapstructure:"scoring" yaml:"scoring"`
	Merchant MerchantConfig `mapstructure:"merchant" yaml:"merchant"`
	Seed     SeedConfig     `mapstructure:"seed" yaml:"seed"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type ScanConfig struct {
	DepthMonths      int `mapstructure:"depth_months" yaml:"depth_months"`
	MaxMessages      int `mapstructure:"max_messages" yaml:"max_messages"`
	TimeoutSeconds   int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	ProgressInterval int `mapstructure:"progress_interval" yaml:"progress_interval"`
}

// Timeout returns the scan timeout as a duration.
func (s ScanConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type PatternsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type ScoringConfig struct {
	HighValueThreshold float64 `mapstructure:"high_value_threshold" yaml:"high_value_threshold"`
}

type MerchantConfig struct {
	FuzzyMaxDistance int `mapstructure:"fuzzy_max_distance" yaml:"fuzzy_max_distance"`
}

type SeedConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom loads configuration like InitializeConfig. A non-empty
// configFile replaces the search of the standard locations and must exist.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sms-ledger")
		v.AddConfigPath(".sms-ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.path", "sms-ledger.db")

	v.SetDefault("scan.depth_months", 6)
	v.SetDefault("scan.max_messages", 5000)
	v.SetDefault("scan.timeout_seconds", 60)
	v.SetDefault("scan.progress_interval", 100)

	v.SetDefault("patterns.file", "")
	v.SetDefault("scoring.high_value_threshold", 100000)
	v.SetDefault("merchant.fuzzy_max_distance", 0)
	v.SetDefault("seed.file", "")

	v.SetDefault("csv.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return &ingesterror.ConfigError{Key: "log.level", Reason: fmt.Sprintf("invalid log level: %s", config.Log.Level)}
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return &ingesterror.ConfigError{Key: "log.format", Reason: fmt.Sprintf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)}
	}

	if strings.TrimSpace(config.Store.Path) == "" {
		return &ingesterror.ConfigError{Key: "store.path", Reason: "cannot be empty"}
	}

	if config.Scan.DepthMonths < 0 || config.Scan.DepthMonths > 120 {
		return &ingesterror.ConfigError{Key: "scan.depth_months", Reason: fmt.Sprintf("must be between 0 and 120, got: %d", config.Scan.DepthMonths)}
	}

	if config.Scan.MaxMessages < 0 {
		return &ingesterror.ConfigError{Key: "scan.max_messages", Reason: fmt.Sprintf("cannot be negative, got: %d", config.Scan.MaxMessages)}
	}

	if config.Scan.TimeoutSeconds < 1 || config.Scan.TimeoutSeconds > 3600 {
		return &ingesterror.ConfigError{Key: "scan.timeout_seconds", Reason: fmt.Sprintf("must be between 1 and 3600, got: %d", config.Scan.TimeoutSeconds)}
	}

	if config.Scan.ProgressInterval < 1 {
		return &ingesterror.ConfigError{Key: "scan.progress_interval", Reason: fmt.Sprintf("must be at least 1, got: %d", config.Scan.ProgressInterval)}
	}

	if config.Scoring.HighValueThreshold <= 0 {
		return &ingesterror.ConfigError{Key: "scoring.high_value_threshold", Reason: fmt.Sprintf("must be positive, got: %v", config.Scoring.HighValueThreshold)}
	}

	if config.Merchant.FuzzyMaxDistance < 0 || config.Merchant.FuzzyMaxDistance > 5 {
		return &ingesterror.ConfigError{Key: "merchant.fuzzy_max_distance", Reason: fmt.Sprintf("must be between 0 and 5, got: %d", config.Merchant.FuzzyMaxDistance)}
	}

	if len(config.CSV.Delimiter) != 1 {
		return &ingesterror.ConfigError{Key: "csv.delimiter", Reason: fmt.Sprintf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)}
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
