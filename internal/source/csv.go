package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"fjacquet/sms-ledger/internal/common"
	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// inboxRow is one message of a CSV inbox export.
type inboxRow struct {
	ID        string `csv:"id"`
	Sender    string `csv:"sender"`
	Body      string `csv:"body"`
	Timestamp string `csv:"timestamp"`
}

var requiredColumns = []string{"id", "sender", "body", "timestamp"}

// CSVSource reads messages from a CSV inbox export with the columns
// id, sender, body and timestamp. Timestamps are epoch milliseconds or any
// layout accepted by dateutils.ParseTimestamp.
type CSVSource struct {
	path   string
	logger logging.Logger
}

// NewCSVSource creates a CSVSource for the file at path.
func NewCSVSource(path string, logger logging.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logging.OrDefault(logger)}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv:" + s.path }

// Enumerate implements Source. Access failures are returned as
// *ingesterror.SourceError; rows with a missing id or an unreadable
// timestamp are skipped.
func (s *CSVSource) Enumerate(ctx context.Context, since time.Time, max int) (Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.sourceError("read", classify(err), err)
	}

	if err := checkHeader(data); err != nil {
		return nil, s.sourceError("read header", ingesterror.SourceMalformed, err)
	}

	rows, err := common.ReadCSV[inboxRow](bytes.NewReader(data))
	if err != nil {
		return nil, s.sourceError("parse", ingesterror.SourceMalformed, err)
	}

	msgs := make([]models.RawMessage, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		id := strings.TrimSpace(row.ID)
		ts, err := dateutils.ParseTimestamp(row.Timestamp)
		if id == "" || err != nil {
			skipped++
			s.logger.Warn("Skipping unreadable inbox row",
				logging.F("row", i+2),
				logging.F(logging.FieldFile, s.path))
			continue
		}
		msgs = append(msgs, models.RawMessage{
			ExternalID: id,
			Sender:     strings.TrimSpace(row.Sender),
			Body:       row.Body,
			Timestamp:  ts,
		})
	}

	s.logger.Debug("Loaded inbox export",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, len(msgs)),
		logging.F("skipped", skipped))

	return &sliceIterator{msgs: window(msgs, since, max)}, nil
}

func (s *CSVSource) sourceError(op string, kind ingesterror.SourceKind, err error) error {
	return &ingesterror.SourceError{Source: s.Name(), Op: op, Kind: kind, Err: err}
}

func classify(err error) ingesterror.SourceKind {
	if errors.Is(err, fs.ErrPermission) {
		return ingesterror.SourcePermissionDenied
	}
	return ingesterror.SourceUnavailable
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("no header row: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
