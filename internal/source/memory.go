package source

import (
	"context"
	"sync"
	"time"

	"fjacquet/sms-ledger/internal/models"
)

// MemorySource serves a fixed set of messages.
type MemorySource struct {
	mu   sync.RWMutex
	msgs []models.RawMessage
}

// NewMemorySource creates a MemorySource holding msgs.
func NewMemorySource(msgs ...models.RawMessage) *MemorySource {
	return &MemorySource{msgs: append([]models.RawMessage(nil), msgs...)}
}

// Add appends messages to the source.
func (s *MemorySource) Add(msgs ...models.RawMessage) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msgs...)
	s.mu.Unlock()
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// Enumerate implements Source.
func (s *MemorySource) Enumerate(ctx context.Context, since time.Time, max int) (Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	msgs := window(s.msgs, since, max)
	s.mu.RUnlock()
	return &sliceIterator{msgs: msgs}, nil
}
