// Package status reports the state of the ledger
package status

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync cursor and ledger size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctn, err := root.RequireContainer()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return printStatus(ctx, ctn.GetStore(), cmd.OutOrStdout())
	},
}

func printStatus(ctx context.Context, st store.Store, w io.Writer) error {
	cursor, err := st.GetCursor(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync cursor: %w", err)
	}
	count, err := st.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	fmt.Fprintf(w, "Status:          %s\n", cursor.Status)
	fmt.Fprintf(w, "Last message:    %s\n", formatTime(cursor.LastTimestamp))
	if cursor.LastExternalID != "" {
		fmt.Fprintf(w, "Last message id: %s\n", cursor.LastExternalID)
	}
	fmt.Fprintf(w, "Last full sync:  %s\n", formatTime(cursor.LastFullSync))
	fmt.Fprintf(w, "Processed:       %d\n", cursor.TotalProcessed)
	fmt.Fprintf(w, "Transactions:    %d\n", count)

	if s, ok := st.(*store.SQLiteStore); ok {
		version, dirty, err := store.SchemaVersion(s.Path())
		if err != nil {
			return err
		}
		suffix := ""
		if dirty {
			suffix = " (dirty)"
		}
		fmt.Fprintf(w, "Schema version:  %d%s\n", version, suffix)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
