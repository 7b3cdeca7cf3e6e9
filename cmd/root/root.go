// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	DBPath     string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded by PersistentPreRunE
	AppConfig *config.Config

	// AppContainer holds the dependencies built by PersistentPreRunE
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sms-ledger",
		Short: "A CLI tool to turn bank SMS notifications into a categorized ledger.",
		Long: `sms-ledger is a CLI tool that scans exported bank SMS notifications,
extracts amount, merchant and bank, categorizes each transaction through
merchant aliases and stores the result idempotently in a local SQLite ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to sms-ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close ledger: %v", err)
			}
			AppContainer = nil
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.sms-ledger, .sms-ledger or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.DBPath, "db", "", "Ledger database path (overrides store.path)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides log.level)")
}

func initialize(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfigFrom(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.DBPath != "" {
		cfg.Store.Path = SharedFlags.DBPath
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	Log = config.ConfigureLoggingFromConfig(cfg)
	logging.SetLogger(logging.NewLogrusAdapterFromLogger(Log))

	ctn, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppConfig = cfg
	AppContainer = ctn
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogrusAdapter wraps the shared logger in the logging.Logger interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// RequireContainer returns the container or an error when the command ran
// without initialization.
func RequireContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}
