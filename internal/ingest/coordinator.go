// Package ingest scans a message source, classifies every candidate message
// and persists the resulting transactions idempotently while advancing the
// sync cursor.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"fjacquet/sms-ledger/internal/dateutils"
	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/pipeline"
	"fjacquet/sms-ledger/internal/source"

	"github.com/google/uuid"
)

// State is the coordinator lifecycle state.
type State int

const (
	Idle State = iota
	Scanning
	Persisting
	Completed
	Failed
	TimedOut
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Scanning:
		return "SCANNING"
	case Persisting:
		return "PERSISTING"
	case Completed:
		return "COMPLETED"
	case Failed:
		return "FAILED"
	case TimedOut:
		return "TIMED_OUT"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Config bounds one scan.
type Config struct {
	// DepthMonths is subtracted from the cursor timestamp (or now) to get the
	// start of the lookback window. Zero or less scans the whole history.
	DepthMonths int
	// MaxMessages caps the number of messages examined. Zero or less is unbounded.
	MaxMessages int
	// Timeout bounds the scanning phase. Zero or less disables it.
	Timeout time.Duration
	// ProgressInterval is the number of messages between progress reports.
	ProgressInterval int
}

// DefaultConfig returns the scan bounds used when none are configured.
func DefaultConfig() Config {
	return Config{
		DepthMonths:      6,
		MaxMessages:      5000,
		Timeout:          60 * time.Second,
		ProgressInterval: 100,
	}
}

// Processor classifies one message.
type Processor interface {
	Process(ctx context.Context, msg models.RawMessage) (models.ParsedTransaction, pipeline.Outcome)
}

// TransactionWriter is the slice of the store the coordinator writes to.
type TransactionWriter interface {
	InsertIfAbsent(ctx context.Context, tx models.ParsedTransaction) (bool, error)
}

// Result reports the outcome of one scan.
type Result struct {
	RunID string
	State State
	Since time.Time
	// Examined counts messages read from the source.
	Examined int
	// Classified counts transactions produced by the pipeline.
	Classified int
	Inserted   int
	// Duplicates counts records already stored or repeated within the batch.
	Duplicates int
	// Failed counts records whose write failed.
	Failed       int
	Skipped      map[pipeline.Outcome]int
	Transactions []models.ParsedTransaction
	TimedOut     bool
	Cancelled    bool
	Cursor       models.SyncCursor
	Duration     time.Duration
}

// Partial reports whether the scan stopped before the source was exhausted.
func (r Result) Partial() bool {
	return r.TimedOut || r.Cancelled
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProgressSink sets the receiver of progress reports.
func WithProgressSink(sink ProgressSink) Option {
	return func(c *Coordinator) {
		c.sink = sink
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// Coordinator runs scans. At most one scan runs at a time; concurrent calls
// to Run wait for the active scan to finish.
type Coordinator struct {
	source    source.Source
	writer    TransactionWriter
	processor Processor
	cfg       Config
	sink      ProgressSink
	logger    logging.Logger
	now       func() time.Time

	sem   chan struct{}
	mu    sync.RWMutex
	state State
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(src source.Source, writer TransactionWriter, processor Processor, cfg Config, logger logging.Logger, opts ...Option) *Coordinator {
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultConfig().ProgressInterval
	}
	c := &Coordinator{
		source:    src,
		writer:    writer,
		processor: processor,
		cfg:       cfg,
		logger:    logging.OrDefault(logger),
		now:       time.Now,
		sem:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the state of the current or last scan.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Since returns the start of the lookback window for cursor.
func (c *Coordinator) Since(cursor models.SyncCursor) time.Time {
	if c.cfg.DepthMonths <= 0 {
		return time.Time{}
	}
	anchor := cursor.LastTimestamp
	if anchor.IsZero() {
		anchor = c.now()
	}
	return dateutils.MonthsBefore(anchor, c.cfg.DepthMonths)
}

type item struct {
	msg models.RawMessage
	err error
}

// Run scans the source from the lookback window of cursor and returns the
// advanced cursor in the result. It returns an error only when the source
// cannot be read; the error is a *ingesterror.SourceError.
//
// A timeout or cancellation stops enumeration, persists what was classified
// so far and sets TimedOut or Cancelled. The cursor then moves only to the
// newest persisted record and keeps status IN_PROGRESS.
func (c *Coordinator) Run(ctx context.Context, cursor models.SyncCursor) (Result, error) {
	res := Result{
		RunID:   uuid.NewString(),
		Skipped: make(map[pipeline.Outcome]int),
		Cursor:  cursor,
	}

	if ctx.Err() != nil {
		res.State, res.Cancelled = Cancelled, true
		return res, nil
	}
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		res.State, res.Cancelled = Cancelled, true
		return res, nil
	}
	defer func() { <-c.sem }()

	start := c.now()
	log := c.logger.WithField(logging.FieldRunID, res.RunID)
	progress := newDispatcher(c.sink)
	defer progress.close()

	res.Since = c.Since(cursor)
	c.setState(Scanning)
	log.Info("Starting scan",
		logging.F(logging.FieldSource, c.source.Name()),
		logging.F(logging.FieldSince, res.Since),
		logging.F(logging.FieldTotal, c.cfg.MaxMessages))

	scanCtx, cancel := c.scanContext(ctx)
	defer cancel()

	var newest models.RawMessage
	exhausted := false
	seen := make(map[string]struct{})

	items := produce(scanCtx, c.source, res.Since, c.cfg.MaxMessages)
scan:
	for {
		select {
		case <-scanCtx.Done():
			break scan
		case next, ok := <-items:
			if !ok {
				exhausted = true
				break scan
			}
			if next.err != nil {
				if scanCtx.Err() != nil {
					break scan
				}
				return c.fail(log, res, next.err)
			}

			res.Examined++
			if res.Examined == 1 {
				newest = next.msg
			}
			c.classify(scanCtx, log, next.msg, seen, &res)

			if res.Examined%c.cfg.ProgressInterval == 0 {
				progress.emit(Progress{
					Processed: res.Examined,
					Total:     c.total(res.Examined),
					Status:    fmt.Sprintf("Scanned %d messages, %d transactions", res.Examined, res.Classified),
				})
			}
			if c.cfg.MaxMessages > 0 && res.Examined >= c.cfg.MaxMessages {
				exhausted = true
				break scan
			}
		}
	}

	if !exhausted {
		if errors.Is(ctx.Err(), context.Canceled) {
			res.Cancelled = true
		} else {
			res.TimedOut = true
		}
	}

	c.setState(Persisting)
	c.persist(context.WithoutCancel(ctx), log, &res)

	switch {
	case res.Partial():
		res.Cursor.Status = models.SyncInProgress
		res.State = TimedOut
		if res.Cancelled {
			res.State = Cancelled
		}
	default:
		res.Cursor = res.Cursor.Advance(newest.Timestamp, newest.ExternalID)
		res.Cursor.Status = models.SyncCompleted
		res.State = Completed
	}
	res.Cursor.TotalProcessed += res.Inserted
	res.Duration = c.now().Sub(start)
	c.setState(res.State)

	progress.emit(Progress{
		Processed: res.Examined,
		Total:     res.Examined,
		Status:    fmt.Sprintf("%s: %d new transactions", res.State, res.Inserted),
	})

	log.Info("Scan finished",
		logging.F(logging.FieldState, res.State.String()),
		logging.F(logging.FieldProcessed, res.Examined),
		logging.F(logging.FieldCount, res.Classified),
		logging.F(logging.FieldInserted, res.Inserted),
		logging.F(logging.FieldDuplicates, res.Duplicates),
		logging.F(logging.FieldFailed, res.Failed),
		logging.F(logging.FieldDuration, res.Duration.Milliseconds()))
	return res, nil
}

func (c *Coordinator) scanContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Coordinator) total(examined int) int {
	if c.cfg.MaxMessages > 0 {
		return c.cfg.MaxMessages
	}
	return examined
}

// produce opens the source and reads it on its own goroutine, so that a
// blocked Enumerate or Next cannot hold the scan past its deadline. An open
// failure is delivered as the first item.
func produce(ctx context.Context, src source.Source, since time.Time, max int) <-chan item {
	items := make(chan item)
	go func() {
		defer close(items)

		it, err := src.Enumerate(ctx, since, max)
		if err != nil {
			select {
			case items <- item{err: err}:
			case <-ctx.Done():
			}
			return
		}
		if it == nil {
			return
		}
		defer it.Close()

		for {
			msg, err := it.Next(ctx)
			if err == io.EOF {
				return
			}
			select {
			case items <- item{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return items
}

func (c *Coordinator) classify(ctx context.Context, log logging.Logger, msg models.RawMessage, seen map[string]struct{}, res *Result) {
	if _, dup := seen[msg.ExternalID]; dup && msg.ExternalID != "" {
		res.Duplicates++
		return
	}
	seen[msg.ExternalID] = struct{}{}

	tx, outcome := c.processor.Process(context.WithoutCancel(ctx), msg)
	if outcome != pipeline.Accepted {
		res.Skipped[outcome]++
		return
	}
	res.Classified++
	res.Transactions = append(res.Transactions, tx)
	log.Debug("Classified transaction",
		logging.F(logging.FieldExternalID, tx.ExternalID),
		logging.F(logging.FieldAmount, tx.Amount.String()),
		logging.F(logging.FieldMerchant, tx.DisplayMerchant),
		logging.F(logging.FieldCategory, tx.Category))
}

// persist writes every classified transaction. Failed writes are counted and
// logged; they never abort the batch.
func (c *Coordinator) persist(ctx context.Context, log logging.Logger, res *Result) {
	for _, tx := range res.Transactions {
		inserted, err := c.writer.InsertIfAbsent(ctx, tx)
		if err != nil {
			res.Failed++
			perr := &ingesterror.PersistenceError{ExternalID: tx.ExternalID, Op: "insert", Err: err}
			log.WithError(perr).Warn("Failed to persist transaction",
				logging.F(logging.FieldExternalID, tx.ExternalID))
			continue
		}
		if inserted {
			res.Inserted++
		} else {
			res.Duplicates++
		}
		if res.Partial() {
			res.Cursor = res.Cursor.Advance(tx.Timestamp, tx.ExternalID)
		}
	}
}

func (c *Coordinator) fail(log logging.Logger, res Result, err error) (Result, error) {
	var se *ingesterror.SourceError
	if !errors.As(err, &se) {
		se = &ingesterror.SourceError{
			Source: c.source.Name(),
			Op:     "enumerate",
			Kind:   ingesterror.SourceUnavailable,
			Err:    err,
		}
	}
	res.State = Failed
	res.Transactions = nil
	res.Cursor.Status = models.SyncFailed
	c.setState(Failed)
	log.WithError(se).Error("Scan failed", logging.F(logging.FieldSource, c.source.Name()))
	return res, se
}
