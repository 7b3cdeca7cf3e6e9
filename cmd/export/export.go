// Package export writes stored transactions as CSV
package export

import (
	"context"
	"fmt"
	"io"

	"fjacquet/sms-ledger/cmd/root"
	csvutil "fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	output string
	limit  int
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transactions to CSV",
	Long: `Export writes the transactions stored in the ledger as CSV, newest first.
Without --output the CSV is written to standard output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctn, err := root.RequireContainer()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return exportTransactions(ctx, ctn.GetStore(), output, limit, cmd.OutOrStdout(), ctn.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default stdout)")
	Cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions (0 exports all)")
}

func exportTransactions(ctx context.Context, st store.Store, path string, n int, w io.Writer, logger logging.Logger) error {
	txs, err := st.ListTransactions(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	if path == "" {
		return csvutil.WriteTransactions(w, txs)
	}
	if err := csvutil.WriteTransactionsToCSV(txs, path, logger); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported %d transactions to %s\n", len(txs), path)
	return nil
}
