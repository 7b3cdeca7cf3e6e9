package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		tx := models.ParsedTransaction{
			ExternalID:         id,
			Timestamp:          base.Add(time.Duration(i) * time.Hour),
			Amount:             decimal.RequireFromString("120.50"),
			IsDebit:            true,
			RawMerchant:        "SWIGGY",
			NormalizedMerchant: "swiggy",
			DisplayMerchant:    "Swiggy",
			BankName:           "HDFC Bank",
			Category:           models.CategoryFood,
			CategoryColor:      "#FF6B6B",
			Confidence:         0.9,
			SourceText:         "Rs.120.50 debited at SWIGGY",
		}
		_, err := st.InsertIfAbsent(context.Background(), tx)
		require.NoError(t, err)
	}
	return st
}

func TestExportCommand_Flags(t *testing.T) {
	assert.Equal(t, "export", Cmd.Use)
	outputFlag := Cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "0", Cmd.Flags().Lookup("limit").DefValue)
}

func TestExportTransactions_Stdout(t *testing.T) {
	var out bytes.Buffer
	err := exportTransactions(context.Background(), seededStore(t), "", 0, &out, logging.NewMockLogger())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ExternalID,"))
	assert.Contains(t, out.String(), "120.50")
	assert.Contains(t, out.String(), "Food & Dining")
}

func TestExportTransactions_Limit(t *testing.T) {
	var out bytes.Buffer
	err := exportTransactions(context.Background(), seededStore(t), "", 2, &out, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
}

func TestExportTransactions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "ledger.csv")
	var out bytes.Buffer
	logger := logging.NewMockLogger()

	err := exportTransactions(context.Background(), seededStore(t), path, 0, &out, logger)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Exported 3 transactions to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Swiggy")
}
