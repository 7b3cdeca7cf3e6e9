package models

import "time"

// SyncStatus is the lifecycle state recorded on the sync cursor.
type SyncStatus string

const (
	SyncInitial    SyncStatus = "INITIAL"
	SyncInProgress SyncStatus = "IN_PROGRESS"
	SyncCompleted  SyncStatus = "COMPLETED"
	SyncFailed     SyncStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncInitial, SyncInProgress, SyncCompleted, SyncFailed:
		return true
	}
	return false
}

// SyncCursor is the ingestion checkpoint. There is one per ingestion stream.
type SyncCursor struct {
	LastTimestamp  time.Time
	LastExternalID string
	TotalProcessed int
	LastFullSync   time.Time
	Status         SyncStatus
}

// InitialCursor returns the cursor of a stream that has never been scanned.
func InitialCursor() SyncCursor {
	return SyncCursor{Status: SyncInitial}
}

// IsInitial reports whether no message has ever been checkpointed.
func (c SyncCursor) IsInitial() bool {
	return c.LastTimestamp.IsZero()
}

// Advance returns a copy of c moved forward to (ts, externalID). The cursor
// never moves backwards: an older timestamp leaves position fields unchanged.
func (c SyncCursor) Advance(ts time.Time, externalID string) SyncCursor {
	if ts.IsZero() || ts.Before(c.LastTimestamp) {
		return c
	}
	if ts.Equal(c.LastTimestamp) && externalID <= c.LastExternalID {
		return c
	}
	c.LastTimestamp = ts
	c.LastExternalID = externalID
	return c
}
