package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncer_SyncStoresCursor(t *testing.T) {
	f := newFixture(t)
	src := source.NewMemorySource(
		debit("a", 2*time.Hour, "AMAZON"),
		debit("b", time.Hour, "SWIGGY"),
	)
	s := NewSyncer(f.coordinator(src, DefaultConfig()), f.store, f.logger)
	ctx := context.Background()

	res, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)

	stored, err := f.store.GetCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Cursor, stored)
	assert.Equal(t, models.SyncCompleted, stored.Status)
	assert.Equal(t, "b", stored.LastExternalID)

	src.Add(debit("c", 30*time.Minute, "FLIPKART"))
	res, err = s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Duplicates)

	stored, _ = f.store.GetCursor(ctx)
	assert.Equal(t, 3, stored.TotalProcessed)
	assert.Equal(t, "c", stored.LastExternalID)
}

func TestSyncer_SourceFailureMarksCursorFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	previous := models.SyncCursor{LastTimestamp: now.Add(-time.Hour), LastExternalID: "p", TotalProcessed: 7, Status: models.SyncCompleted}
	require.NoError(t, f.store.SetCursor(ctx, previous))

	s := NewSyncer(f.coordinator(&failingSource{enumerateErr: errors.New("gone")}, DefaultConfig()), f.store, f.logger)
	_, err := s.Sync(ctx)
	require.Error(t, err)

	stored, err := f.store.GetCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, stored.Status)
	assert.Equal(t, previous.LastTimestamp, stored.LastTimestamp)
	assert.Equal(t, 7, stored.TotalProcessed)
}

func TestSyncer_FullResync(t *testing.T) {
	f := newFixture(t)
	src := source.NewMemorySource(debit("a", time.Hour, "AMAZON"))
	s := NewSyncer(f.coordinator(src, DefaultConfig()), f.store, f.logger)
	s.now = clock
	ctx := context.Background()

	_, err := s.Sync(ctx)
	require.NoError(t, err)

	res, err := s.FullResync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Duplicates)

	stored, err := f.store.GetCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, now, stored.LastFullSync)
	assert.Equal(t, 1, stored.TotalProcessed)
	assert.Equal(t, models.SyncCompleted, stored.Status)
	assert.True(t, f.logger.HasEntry("INFO", "Reset sync cursor for full resync"))
}

func TestSyncer_CursorReadError(t *testing.T) {
	f := newFixture(t)
	f.store.CursorError = errors.New("locked")
	s := NewSyncer(f.coordinator(source.NewMemorySource(), DefaultConfig()), f.store, f.logger)

	_, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sync cursor")

	_, err = s.FullResync(context.Background())
	require.Error(t, err)
}
