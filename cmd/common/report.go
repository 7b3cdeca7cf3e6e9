// Package common holds helpers shared by the scan commands.
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/ingest"
	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/source"
	"fjacquet/sms-ledger/internal/validation"
)

// ScanMode selects between an incremental scan and a full resync.
type ScanMode int

const (
	Incremental ScanMode = iota
	FullResync
)

// RunScan scans the CSV inbox at input into the container's store and writes
// a summary to out. Progress goes to progress when it is not nil.
func RunScan(ctx context.Context, ctn *container.Container, input string, mode ScanMode, out, progress io.Writer) (ingest.Result, error) {
	if err := validation.IsValidInputFile(input); err != nil {
		return ingest.Result{}, err
	}

	var opts []ingest.Option
	if progress != nil {
		opts = append(opts, ingest.WithProgressSink(ProgressPrinter(progress)))
	}
	syncer := ctn.NewSyncer(source.NewCSVSource(input, ctn.GetLogger()), opts...)

	var (
		res ingest.Result
		err error
	)
	if mode == FullResync {
		res, err = syncer.FullResync(ctx)
	} else {
		res, err = syncer.Sync(ctx)
	}
	if err != nil {
		return res, fmt.Errorf("scan failed: %s: %w", ingesterror.Reason(err), err)
	}
	PrintResult(out, res)
	return res, nil
}

// ProgressPrinter writes one line per progress report.
func ProgressPrinter(w io.Writer) ingest.ProgressSink {
	return ingest.ProgressFunc(func(processed, total int, status string) {
		fmt.Fprintf(w, "[%d/%d] %s\n", processed, total, status)
	})
}

// PrintResult writes a human readable summary of res.
func PrintResult(w io.Writer, res ingest.Result) {
	fmt.Fprintf(w, "Run:         %s\n", res.RunID)
	fmt.Fprintf(w, "State:       %s\n", res.State)
	fmt.Fprintf(w, "Examined:    %d\n", res.Examined)
	fmt.Fprintf(w, "Classified:  %d\n", res.Classified)
	fmt.Fprintf(w, "Inserted:    %d\n", res.Inserted)
	fmt.Fprintf(w, "Duplicates:  %d\n", res.Duplicates)
	fmt.Fprintf(w, "Failed:      %d\n", res.Failed)

	if len(res.Skipped) > 0 {
		lines := make([]string, 0, len(res.Skipped))
		for outcome, n := range res.Skipped {
			lines = append(lines, fmt.Sprintf("  %-32s %d", outcome, n))
		}
		sort.Strings(lines)
		fmt.Fprintln(w, "Skipped:")
		for _, l := range lines {
			fmt.Fprintln(w, l)
		}
	}
	if res.TimedOut {
		fmt.Fprintln(w, "Scan timed out: partial result stored, run scan again to continue.")
	}
	if res.Cancelled {
		fmt.Fprintln(w, "Scan cancelled: partial result stored.")
	}
}

// SignalContext returns the command context cancelled on interrupt.
func SignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
