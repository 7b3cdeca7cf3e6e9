package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// CursorStore reads and writes the sync cursor.
type CursorStore interface {
	GetCursor(ctx context.Context) (models.SyncCursor, error)
	SetCursor(ctx context.Context, cursor models.SyncCursor) error
}

// Syncer owns cursor I/O around coordinator runs.
type Syncer struct {
	coordinator *Coordinator
	cursors     CursorStore
	logger      logging.Logger
	now         func() time.Time
	mu          sync.Mutex
}

// NewSyncer creates a Syncer.
func NewSyncer(coordinator *Coordinator, cursors CursorStore, logger logging.Logger) *Syncer {
	return &Syncer{
		coordinator: coordinator,
		cursors:     cursors,
		logger:      logging.OrDefault(logger),
		now:         time.Now,
	}
}

// Sync reads the stored cursor, runs one scan and stores the advanced cursor.
// On a source failure the stored cursor keeps its position with status FAILED.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync(ctx)
}

// FullResync resets the cursor to INITIAL, keeping the cumulative count, and
// syncs. Stored transactions are kept; rescanned messages count as duplicates.
func (s *Syncer) FullResync(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.cursors.GetCursor(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read sync cursor: %w", err)
	}
	reset := models.InitialCursor()
	reset.TotalProcessed = current.TotalProcessed
	reset.LastFullSync = s.now()
	if err := s.cursors.SetCursor(ctx, reset); err != nil {
		return Result{}, fmt.Errorf("failed to reset sync cursor: %w", err)
	}
	s.logger.Info("Reset sync cursor for full resync",
		logging.F(logging.FieldCount, reset.TotalProcessed))
	return s.sync(ctx)
}

func (s *Syncer) sync(ctx context.Context) (Result, error) {
	cursor, err := s.cursors.GetCursor(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read sync cursor: %w", err)
	}

	running := cursor
	running.Status = models.SyncInProgress
	if err := s.cursors.SetCursor(ctx, running); err != nil {
		return Result{}, fmt.Errorf("failed to mark sync in progress: %w", err)
	}

	res, runErr := s.coordinator.Run(ctx, cursor)
	if runErr != nil {
		res.Cursor = cursor
		res.Cursor.Status = models.SyncFailed
	}
	if err := s.cursors.SetCursor(context.WithoutCancel(ctx), res.Cursor); err != nil {
		if runErr != nil {
			return res, runErr
		}
		return res, fmt.Errorf("failed to store sync cursor: %w", err)
	}
	return res, runErr
}
