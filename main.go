package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/sms-ledger/cmd/alias"
	"fjacquet/sms-ledger/cmd/export"
	"fjacquet/sms-ledger/cmd/parse"
	"fjacquet/sms-ledger/cmd/resync"
	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/cmd/scan"
	"fjacquet/sms-ledger/cmd/status"
	"fjacquet/sms-ledger/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env silently before any logger exists
	_, _ = config.LoadEnv()

	// Early log level until the configuration is loaded
	logrus.SetLevel(earlyLogLevel())

	root.Init()

	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(resync.Cmd)
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(alias.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(status.Cmd)
}

// earlyLogLevel reads SMSLEDGER_LOG_LEVEL, falling back to info.
func earlyLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv(config.EnvPrefix + "_LOG_LEVEL")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
