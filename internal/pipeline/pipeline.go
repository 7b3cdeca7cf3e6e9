// Package pipeline turns one raw message into a classified transaction or an
// explicit rejection outcome.
package pipeline

import (
	"context"
	"strings"

	"fjacquet/sms-ledger/internal/extractor"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/patterns"
	"fjacquet/sms-ledger/internal/scoring"
	"fjacquet/sms-ledger/internal/smsfilter"
	"fjacquet/sms-ledger/internal/validation"

	"github.com/shopspring/decimal"
)

// Resolver attaches display name and category to a canonical merchant.
type Resolver interface {
	Resolve(ctx context.Context, canonical string) merchant.Resolution
}

// Trace records every intermediate decision taken for one message.
type Trace struct {
	Outcome        Outcome
	Decision       smsfilter.Decision
	Classification extractor.Classification
	Amount         extractor.AmountMatch
	// Merchant is the pattern match; empty when the merchant fell back to the sender.
	Merchant    extractor.MerchantMatch
	BankName    string
	Canonical   string
	Resolution  merchant.Resolution
	Score       scoring.Breakdown
	Transaction models.ParsedTransaction
	Err         error
}

// Pipeline is safe for concurrent use when its Resolver is.
type Pipeline struct {
	filter    *smsfilter.Filter
	extractor *extractor.Extractor
	scorer    *scoring.Scorer
	resolver  Resolver
	logger    logging.Logger
}

// New builds a pipeline over lib. A nil scorer uses the default high-value threshold.
func New(lib *patterns.Library, resolver Resolver, scorer *scoring.Scorer, logger logging.Logger) *Pipeline {
	if lib == nil {
		lib = patterns.Default()
	}
	if scorer == nil {
		scorer = scoring.New(lib, decimal.Zero)
	}
	return &Pipeline{
		filter:    smsfilter.New(lib),
		extractor: extractor.New(lib),
		scorer:    scorer,
		resolver:  resolver,
		logger:    logging.OrDefault(logger),
	}
}

// Process returns the transaction for msg when the outcome is Accepted, and
// the zero transaction otherwise.
func (p *Pipeline) Process(ctx context.Context, msg models.RawMessage) (models.ParsedTransaction, Outcome) {
	tr := p.Explain(ctx, msg)
	if tr.Outcome != Accepted {
		p.logger.Debug("Skipped message",
			logging.F(logging.FieldExternalID, msg.ExternalID),
			logging.F(logging.FieldOutcome, tr.Outcome.String()))
		return models.ParsedTransaction{}, tr.Outcome
	}
	return tr.Transaction, Accepted
}

// Explain runs msg through every stage and reports the decisions taken.
func (p *Pipeline) Explain(ctx context.Context, msg models.RawMessage) Trace {
	var tr Trace

	tr.Decision = p.filter.Check(msg)
	if !tr.Decision.Accepted() {
		tr.Outcome = fromVerdict(tr.Decision.Verdict)
		return tr
	}

	tr.Classification = p.extractor.Classify(strings.ToLower(msg.Body))
	if !tr.Classification.IsFinancial {
		tr.Outcome = NotFinancial
		return tr
	}

	amount, ok := p.extractor.MatchAmount(msg.Body)
	if !ok {
		tr.Outcome = NoAmount
		return tr
	}
	tr.Amount = amount

	tr.BankName = p.extractor.ResolveBankName(msg.Sender)
	raw := p.extractor.ExtractMerchant(msg.Body, msg.Sender)
	display := raw
	if m, ok := p.extractor.MatchMerchant(msg.Body); ok {
		tr.Merchant = m
		display = merchant.Prettify(raw)
	}

	tr.Canonical = merchant.Normalize(raw)
	if p.resolver != nil {
		tr.Resolution = p.resolver.Resolve(ctx, tr.Canonical)
	}
	if tr.Resolution.DisplayName != "" {
		display = tr.Resolution.DisplayName
	}

	tr.Score = p.scorer.Explain(msg.Body, amount.Value, raw)

	b := models.NewTransactionBuilder(msg.ExternalID).
		WithSource(msg.Body, msg.Timestamp).
		WithAmount(amount.Value)
	if tr.Classification.IsDebit {
		b = b.AsDebit()
	} else {
		b = b.AsCredit()
	}
	tx, err := b.WithMerchant(raw, tr.Canonical, display).
		WithBank(tr.BankName).
		WithCategory(tr.Resolution.Category, tr.Resolution.CategoryColor).
		WithConfidence(tr.Score.Score).
		ExcludedFromExpenses(tr.Resolution.ExcludeFromExpenses).
		Build()
	if err == nil {
		err = validation.ValidateTransaction(tx)
	}
	if err != nil {
		tr.Outcome = Invalid
		tr.Err = err
		return tr
	}

	tr.Transaction = tx
	tr.Outcome = Accepted
	return tr
}
