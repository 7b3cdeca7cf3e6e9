// Package source provides the message sources the coordinator scans: an
// in-memory source and a CSV inbox export.
package source

import (
	"context"
	"io"
	"sort"
	"time"

	"fjacquet/sms-ledger/internal/models"
)

// Source enumerates raw messages. Implementations return messages newest
// first and never mutate them.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Enumerate returns an iterator over messages with a timestamp at or
	// after since, capped at max messages when max > 0.
	Enumerate(ctx context.Context, since time.Time, max int) (Iterator, error)
}

// Iterator yields messages one at a time. Next returns io.EOF when exhausted.
type Iterator interface {
	Next(ctx context.Context) (models.RawMessage, error)
	Close() error
}

// sliceIterator iterates over a prepared slice.
type sliceIterator struct {
	msgs []models.RawMessage
	pos  int
}

func (it *sliceIterator) Next(ctx context.Context) (models.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return models.RawMessage{}, err
	}
	if it.pos >= len(it.msgs) {
		return models.RawMessage{}, io.EOF
	}
	msg := it.msgs[it.pos]
	it.pos++
	return msg, nil
}

func (it *sliceIterator) Close() error { return nil }

// window filters msgs to the lookback window, orders them newest first and
// applies the cap. The input slice is not modified.
func window(msgs []models.RawMessage, since time.Time, max int) []models.RawMessage {
	out := make([]models.RawMessage, 0, len(msgs))
	for _, m := range msgs {
		if !since.IsZero() && m.Timestamp.Before(since) {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ExternalID > out[j].ExternalID
	})

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Collect drains it into a slice.
func Collect(ctx context.Context, it Iterator) ([]models.RawMessage, error) {
	var out []models.RawMessage
	for {
		msg, err := it.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, msg)
	}
}
