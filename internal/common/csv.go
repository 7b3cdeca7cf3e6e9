// Package common provides the CSV plumbing shared by the inbox source and the
// ledger export.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the field separator used when writing CSV output.
var Delimiter rune = ','

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ReadCSV decodes CSV data with a header row into a slice of structs.
func ReadCSV[TCSVRow any](r io.Reader) ([]TCSVRow, error) {
	var rows []TCSVRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)
	logger.Debug("Reading CSV file", logging.F(logging.FieldFile, filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ReadCSV[TCSVRow](file)
	if err != nil {
		return nil, err
	}

	logger.Debug("Successfully read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// TransactionRow is the export layout of a stored transaction.
type TransactionRow struct {
	ExternalID    string `csv:"ExternalID"`
	Timestamp     string `csv:"Timestamp"`
	Direction     string `csv:"Direction"`
	Amount        string `csv:"Amount"`
	Merchant      string `csv:"Merchant"`
	RawMerchant   string `csv:"RawMerchant"`
	Bank          string `csv:"Bank"`
	Category      string `csv:"Category"`
	CategoryColor string `csv:"CategoryColor"`
	Confidence    string `csv:"Confidence"`
	SourceText    string `csv:"SourceText"`
	Excluded      bool   `csv:"ExcludedFromExpenses"`
}

// NewTransactionRow converts a transaction to its export row. Amounts carry
// two decimals, timestamps are RFC3339 in UTC.
func NewTransactionRow(tx models.ParsedTransaction) TransactionRow {
	return TransactionRow{
		ExternalID:    tx.ExternalID,
		Timestamp:     tx.Timestamp.UTC().Format(time.RFC3339),
		Direction:     tx.Direction(),
		Amount:        tx.Amount.StringFixed(2),
		Merchant:      tx.DisplayMerchant,
		RawMerchant:   tx.RawMerchant,
		Bank:          tx.BankName,
		Category:      tx.Category,
		CategoryColor: tx.CategoryColor,
		Confidence:    strconv.FormatFloat(tx.Confidence, 'f', 2, 64),
		SourceText:    tx.SourceText,
		Excluded:      tx.ExcludedFromExpenses,
	}
}

// WriteTransactions writes transactions as CSV to w using Delimiter.
func WriteTransactions(w io.Writer, transactions []models.ParsedTransaction) error {
	rows := make([]TransactionRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = NewTransactionRow(tx)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes transactions to a CSV file, creating the
// parent directory if needed.
func WriteTransactionsToCSV(transactions []models.ParsedTransaction, csvFile string, logger logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	logger = logging.OrDefault(logger)

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactions(file, transactions); err != nil {
		return err
	}

	logger.Info("Wrote transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))
	return nil
}
