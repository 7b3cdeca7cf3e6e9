package pipeline

import (
	"context"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"
	"fjacquet/sms-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

func newPipeline(t *testing.T) (*Pipeline, *logging.MockLogger) {
	t.Helper()
	logger := logging.NewMockLogger()
	st := store.NewMemoryStore()
	require.NoError(t, store.ApplySeed(context.Background(), st, store.DefaultSeed(), logger))
	lib := patterns.Default()
	return New(lib, merchant.NewResolver(st, lib, logger), nil, logger), logger
}

func sms(id, sender, body string) models.RawMessage {
	return models.RawMessage{ExternalID: id, Sender: sender, Body: body, Timestamp: ts}
}

func TestProcess_AliasResolvedDebit(t *testing.T) {
	p, _ := newPipeline(t)

	tx, outcome := p.Process(context.Background(),
		sms("sms-1", "HDFCBK", "Rs.250.00 debited from your account for purchase at AMAZON on 01-01-24"))

	require.Equal(t, Accepted, outcome)
	assert.True(t, decimal.RequireFromString("250.00").Equal(tx.Amount))
	assert.True(t, tx.IsDebit)
	assert.Equal(t, "HDFC Bank", tx.BankName)
	assert.Equal(t, "AMAZON", tx.RawMerchant)
	assert.Equal(t, "amazon", tx.NormalizedMerchant)
	assert.Equal(t, "Amazon", tx.DisplayMerchant)
	assert.Equal(t, models.CategoryShopping, tx.Category)
	assert.Equal(t, "#45B7D1", tx.CategoryColor)
	assert.InDelta(t, 0.95, tx.Confidence, 1e-9)
	assert.Greater(t, tx.Confidence, 0.5)
	assert.Equal(t, "sms-1", tx.ExternalID)
	assert.Equal(t, ts, tx.Timestamp)
}

func TestProcess_ExcludedAliasMarksTransaction(t *testing.T) {
	logger := logging.NewMockLogger()
	st := store.NewMemoryStore()
	require.NoError(t, store.ApplySeed(context.Background(), st, store.DefaultSeed(), logger))
	require.NoError(t, st.AddAlias(context.Background(), models.MerchantAlias{
		Pattern: "zyxhold", CanonicalMerchant: "Own Savings", Category: models.CategoryTransfers,
		Confidence: 100, UserDefined: true, ExcludeFromExpenses: true,
	}))
	lib := patterns.Default()
	p := New(lib, merchant.NewResolver(st, lib, logger), nil, logger)

	tx, outcome := p.Process(context.Background(), sms("sms-9", "HDFCBK", "Rs 5000 debited at ZYXHOLD"))
	require.Equal(t, Accepted, outcome)
	assert.True(t, tx.ExcludedFromExpenses)
	assert.Equal(t, "Own Savings", tx.DisplayMerchant)

	tx, outcome = p.Process(context.Background(), sms("sms-10", "HDFCBK", "Rs 100 debited at AMAZON"))
	require.Equal(t, Accepted, outcome)
	assert.False(t, tx.ExcludedFromExpenses)
}

func TestProcess_KeywordCategoryAndPrettyName(t *testing.T) {
	p, _ := newPipeline(t)

	tx, outcome := p.Process(context.Background(),
		sms("sms-2", "AXISBK", "Spent Rs 1200 on card XX1234 at DMART MALL on 12-02"))

	require.Equal(t, Accepted, outcome)
	assert.Equal(t, "DMART MALL", tx.RawMerchant)
	assert.Equal(t, "dmart mall", tx.NormalizedMerchant)
	assert.Equal(t, "Dmart Mall", tx.DisplayMerchant)
	assert.Equal(t, models.CategoryGroceries, tx.Category)
	assert.Equal(t, "Axis Bank", tx.BankName)
}

func TestProcess_CreditFallsBackToBank(t *testing.T) {
	p, _ := newPipeline(t)

	tx, outcome := p.Process(context.Background(),
		sms("sms-3", "SBIINB", "Salary of Rs 50,000 credited to your account"))

	require.Equal(t, Accepted, outcome)
	assert.False(t, tx.IsDebit)
	assert.True(t, decimal.NewFromInt(50000).Equal(tx.Amount))
	assert.Equal(t, "State Bank of India", tx.RawMerchant)
	assert.Equal(t, "State Bank of India", tx.DisplayMerchant)
	assert.Equal(t, "state bank of india", tx.NormalizedMerchant)
}

func TestProcess_Rejections(t *testing.T) {
	p, logger := newPipeline(t)

	tests := []struct {
		name    string
		msg     models.RawMessage
		outcome Outcome
	}{
		{"otp", sms("1", "HDFCBK", "Your OTP is 482910, do not share"), RejectedOTP},
		{"sender", sms("2", "+919876543210", "Rs 500 debited"), RejectedSender},
		{"promotional", sms("3", "ICICIB", "Exclusive offer! Get flat 10% cashback"), RejectedPromotional},
		{"reminder", sms("4", "SBIINB", "Your EMI of Rs 5,000 is due on 05-02-24"), RejectedReminder},
		{"not financial", sms("5", "HDFCBK", "Your parcel is out for delivery"), NotFinancial},
		{"no amount", sms("6", "HDFCBK", "Your account has been debited"), NoAmount},
		{"sub-minimum amount", sms("7", "HDFCBK", "Rs.0.50 cashback credited"), NoAmount},
		{"missing external id", sms("", "HDFCBK", "Rs 100 debited at AMAZON"), Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, outcome := p.Process(context.Background(), tt.msg)
			assert.Equal(t, tt.outcome, outcome, outcome.String())
			assert.Equal(t, models.ParsedTransaction{}, tx)
		})
	}
	assert.Equal(t, len(tests), countEntries(logger, "Skipped message"))
}

func countEntries(logger *logging.MockLogger, msg string) int {
	n := 0
	for _, e := range logger.Entries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

func TestExplain_Trace(t *testing.T) {
	p, _ := newPipeline(t)

	tr := p.Explain(context.Background(),
		sms("sms-1", "HDFCBK", "Rs.250.00 debited from your account for purchase at AMAZON on 01-01-24"))

	require.Equal(t, Accepted, tr.Outcome)
	assert.NoError(t, tr.Err)
	assert.Equal(t, "currency_prefix", tr.Amount.Pattern)
	assert.Equal(t, "at", tr.Merchant.Pattern)
	assert.Equal(t, "Alias", tr.Resolution.Strategy)
	assert.Equal(t, "amazon", tr.Resolution.Alias)
	assert.True(t, tr.Score.DebitKeyword)
	assert.True(t, tr.Score.CurrencyMarker)
	assert.True(t, tr.Score.Merchant)
	assert.False(t, tr.Score.HighValue)

	tr = p.Explain(context.Background(), sms("x", "HDFCBK", "Your OTP is 1234"))
	assert.Equal(t, RejectedOTP, tr.Outcome)
	assert.Equal(t, "otp", tr.Decision.Keyword)
}

func TestProcess_Deterministic(t *testing.T) {
	p, _ := newPipeline(t)
	msg := sms("sms-9", "KOTAKB", "Rs 300 paid via PhonePe.")

	first, o1 := p.Process(context.Background(), msg)
	second, o2 := p.Process(context.Background(), msg)
	require.Equal(t, Accepted, o1)
	assert.Equal(t, o1, o2)
	assert.Equal(t, first, second)
}

func TestProcess_NilResolver(t *testing.T) {
	p := New(nil, nil, nil, logging.NewMockLogger())

	tx, outcome := p.Process(context.Background(), sms("1", "HDFCBK", "Rs 100 debited at AMAZON"))
	require.Equal(t, Accepted, outcome)
	assert.Equal(t, models.CategoryOther, tx.Category)
	assert.Equal(t, models.ColorNeutral, tx.CategoryColor)
	assert.Equal(t, "Amazon", tx.DisplayMerchant)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "no amount found", NoAmount.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
