// Package ingesterror defines the error taxonomy of the ingestion pipeline.
// Per-message extraction failures are not errors and never appear here.
package ingesterror

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrSourceUnavailable = errors.New("message source unavailable")
	ErrPermissionDenied  = errors.New("message source permission denied")
	ErrMalformedSource   = errors.New("message source malformed")
)

// SourceKind classifies a source-access failure.
type SourceKind int

const (
	SourceUnavailable SourceKind = iota
	SourcePermissionDenied
	SourceMalformed
)

func (k SourceKind) String() string {
	switch k {
	case SourcePermissionDenied:
		return "permission denied"
	case SourceMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

func (k SourceKind) sentinel() error {
	switch k {
	case SourcePermissionDenied:
		return ErrPermissionDenied
	case SourceMalformed:
		return ErrMalformedSource
	default:
		return ErrSourceUnavailable
	}
}

// SourceError is fatal for a whole scan: the message source could not be read.
type SourceError struct {
	Source string
	Op     string
	Kind   SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %s (%s): %v", e.Source, e.Op, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error kind.
func (e *SourceError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// PersistenceError is a failed write of one record. It is logged and counted,
// never fatal for the batch.
type PersistenceError struct {
	ExternalID string
	Op         string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s for %s: %v", e.Op, e.ExternalID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationError represents a record that violates a ledger invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// Reason returns a human readable reason for err suitable for a hard-failure report.
func Reason(err error) string {
	var se *SourceError
	if errors.As(err, &se) {
		return fmt.Sprintf("message source %s", se.Kind)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
