// Package eventstore defines the append-only event log contract. The log is
// the canonical state of the system; aggregates are transient folds over it.
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/bank/pkg/domain/events"
)

var (
	// ErrConcurrencyConflict is returned by Append when the stream tail does
	// not match the expected sequence. The caller may reload and retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrStorage wraps I/O failures of the underlying store. The log is
	// unchanged when Append fails with it.
	ErrStorage = errors.New("storage error")
)

// Record is one committed event. (AggregateID, Sequence) is unique;
// GlobalOffset is assigned at commit and strictly increases across all
// aggregates.
type Record struct {
	GlobalOffset  uint64
	AggregateID   string
	AggregateType string
	Sequence      int64
	Type          string
	Payload       []byte
	Timestamp     time.Time
}

// Decode deserializes the record payload into its domain event.
func (r Record) Decode() (events.Event, error) {
	return events.Unmarshal(r.Type, r.Payload)
}

// Store is the append-only per-aggregate ordered event log.
type Store interface {
	// Append atomically persists evts with sequences expectedSequence,
	// expectedSequence+1, ... and returns the assigned sequences. The first
	// sequence of an empty stream is 0. Append returns
	// ErrConcurrencyConflict when the stream tail is not
	// expectedSequence-1, and an error wrapping ErrStorage on I/O failure.
	// It returns only after the records are durable.
	Append(ctx context.Context, aggregateID, aggregateType string, expectedSequence int64, evts []events.Event) ([]int64, error)

	// ReadStream returns every record of one aggregate in ascending
	// sequence. An unknown aggregate id yields an empty slice.
	ReadStream(ctx context.Context, aggregateID string) ([]Record, error)

	// Subscribe delivers every record with GlobalOffset > fromGlobalOffset
	// exactly once in commit order. The channel is closed when ctx is
	// cancelled. Restartable from any offset.
	Subscribe(ctx context.Context, fromGlobalOffset uint64) (<-chan Record, error)

	// LatestOffset returns the global offset of the most recent commit, or
	// zero for an empty log.
	LatestOffset(ctx context.Context) (uint64, error)
}
