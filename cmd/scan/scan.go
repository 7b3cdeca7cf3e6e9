// Package scan handles the incremental scan command
package scan

import (
	"fjacquet/sms-ledger/cmd/common"
	"fjacquet/sms-ledger/cmd/root"

	"github.com/spf13/cobra"
)

var (
	input        string
	showProgress bool
)

// Cmd represents the scan command
var Cmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan an SMS inbox export into the ledger",
	Long: `Scan reads an SMS inbox export (CSV with id, sender, body and timestamp
columns), classifies every bank notification within the lookback window and
stores new transactions. Messages already in the ledger are skipped, so the
command can be run repeatedly.`,
	RunE: scanFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "SMS inbox CSV export")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "Print progress while scanning")
	_ = Cmd.MarkFlagRequired("input")
}

func scanFunc(cmd *cobra.Command, args []string) error {
	ctn, err := root.RequireContainer()
	if err != nil {
		return err
	}

	ctx, stop := common.SignalContext(cmd.Context())
	defer stop()

	progress := cmd.ErrOrStderr()
	if !showProgress {
		progress = nil
	}
	_, err = common.RunScan(ctx, ctn, input, common.Incremental, cmd.OutOrStdout(), progress)
	return err
}
