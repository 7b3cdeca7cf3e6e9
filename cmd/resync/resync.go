// Package resync handles the full resync command
package resync

import (
	"fmt"

	"fjacquet/sms-ledger/cmd/common"
	"fjacquet/sms-ledger/cmd/root"

	"github.com/spf13/cobra"
)

var (
	input string
	yes   bool
)

// Cmd represents the resync command
var Cmd = &cobra.Command{
	Use:   "resync",
	Short: "Reset the sync cursor and rescan the inbox export",
	Long: `Resync resets the sync cursor to its initial state and scans the whole
lookback window again. Stored transactions are kept; messages already in the
ledger are counted as duplicates.`,
	RunE: resyncFunc,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "SMS inbox CSV export")
	Cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the cursor reset")
	_ = Cmd.MarkFlagRequired("input")
}

func resyncFunc(cmd *cobra.Command, args []string) error {
	if !yes {
		return fmt.Errorf("resync resets the sync cursor; pass --yes to confirm")
	}
	ctn, err := root.RequireContainer()
	if err != nil {
		return err
	}

	ctx, stop := common.SignalContext(cmd.Context())
	defer stop()

	_, err = common.RunScan(ctx, ctn, input, common.FullResync, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}
