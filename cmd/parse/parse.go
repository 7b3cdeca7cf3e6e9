// Package parse explains how a single message flows through the pipeline
package parse

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/currencyutils"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var sender string

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse [body]",
	Short: "Explain how one SMS would be classified",
	Long: `Parse runs one message through the filter, extraction, merchant resolution
and scoring stages and prints every decision. Nothing is stored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the message (e.g. VM-HDFCBK)")
	_ = Cmd.MarkFlagRequired("sender")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	ctn, err := root.RequireContainer()
	if err != nil {
		return err
	}
	msg := models.RawMessage{
		ExternalID: "cli",
		Sender:     sender,
		Body:       strings.Join(args, " "),
		Timestamp:  time.Now(),
	}
	explain(cmd.Context(), ctn.GetPipeline(), msg, cmd.OutOrStdout())
	return nil
}

func explain(ctx context.Context, p *pipeline.Pipeline, msg models.RawMessage, w io.Writer) pipeline.Trace {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := p.Explain(ctx, msg)

	fmt.Fprintf(w, "Filter:      %s", tr.Decision.Verdict)
	if tr.Decision.Keyword != "" {
		fmt.Fprintf(w, " (%q)", tr.Decision.Keyword)
	}
	fmt.Fprintln(w)
	if !tr.Decision.Accepted() {
		fmt.Fprintf(w, "Outcome:     %s\n", tr.Outcome)
		return tr
	}

	direction := "not financial"
	if tr.Classification.IsFinancial {
		direction = "credit"
		if tr.Classification.IsDebit {
			direction = "debit"
		}
	}
	fmt.Fprintf(w, "Direction:   %s\n", direction)
	if tr.Amount.Pattern != "" {
		fmt.Fprintf(w, "Amount:      %s (pattern %s, matched %q)\n",
			currencyutils.FormatAmount(tr.Amount.Value, "INR"), tr.Amount.Pattern, tr.Amount.Raw)
	}
	if tr.Outcome == pipeline.NotFinancial || tr.Outcome == pipeline.NoAmount {
		fmt.Fprintf(w, "Outcome:     %s\n", tr.Outcome)
		return tr
	}

	if tr.Merchant.Pattern != "" {
		fmt.Fprintf(w, "Merchant:    %s (pattern %s)\n", tr.Merchant.Name, tr.Merchant.Pattern)
	} else {
		fmt.Fprintf(w, "Merchant:    %s (sender fallback)\n", tr.Transaction.RawMerchant)
	}
	fmt.Fprintf(w, "Bank:        %s\n", tr.BankName)
	fmt.Fprintf(w, "Canonical:   %s\n", tr.Canonical)
	fmt.Fprintf(w, "Category:    %s %s (via %s", tr.Resolution.Category, tr.Resolution.CategoryColor, tr.Resolution.Strategy)
	if tr.Resolution.Alias != "" {
		fmt.Fprintf(w, ", alias %q", tr.Resolution.Alias)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Confidence:  %.2f (debit keyword %t, currency marker %t, merchant %t, high value %t)\n",
		tr.Score.Score, tr.Score.DebitKeyword, tr.Score.CurrencyMarker, tr.Score.Merchant, tr.Score.HighValue)
	if tr.Err != nil {
		fmt.Fprintf(w, "Error:       %v\n", tr.Err)
	}
	if tr.Outcome == pipeline.Accepted {
		fmt.Fprintf(w, "Display:     %s\n", tr.Transaction.DisplayMerchant)
	}
	fmt.Fprintf(w, "Outcome:     %s\n", tr.Outcome)
	return tr
}
