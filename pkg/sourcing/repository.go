// Package sourcing wires a pure decide/evolve aggregate to the event store:
// load replays the stream into state, decide produces new events, append
// persists them with optimistic concurrency.
package sourcing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/eventstore"
)

// ErrConflict is returned when optimistic concurrency retries are exhausted.
var ErrConflict = errors.New("conflict: concurrent writes on aggregate")

// DefaultMaxRetries bounds reload-and-retry cycles on concurrency conflicts.
const DefaultMaxRetries = 3

// Aggregate describes a decide/evolve pair over state S.
type Aggregate[S any] struct {
	// Type is the aggregate type discriminator stored on event records.
	Type string
	// Decide validates a command against state and returns resulting events.
	Decide func(S, commands.Command) ([]events.Event, error)
	// Evolve folds one event into state. Must be total over persisted events.
	Evolve func(S, events.Event) S
}

// Repository loads an aggregate by replaying its stream, applies a command
// and appends the produced events.
type Repository[S any] struct {
	store      eventstore.Store
	agg        Aggregate[S]
	maxRetries int
	logger     *slog.Logger
}

// NewRepository builds a Repository for one aggregate type.
func NewRepository[S any](store eventstore.Store, agg Aggregate[S], logger *slog.Logger) *Repository[S] {
	return &Repository[S]{
		store:      store,
		agg:        agg,
		maxRetries: DefaultMaxRetries,
		logger:     logger.With("aggregate", agg.Type),
	}
}

// Load replays the stream of id into state. It returns the state and the
// tail sequence, or -1 for an empty stream.
func (r *Repository[S]) Load(ctx context.Context, id string) (S, int64, error) {
	var state S
	records, err := r.store.ReadStream(ctx, id)
	if err != nil {
		return state, -1, fmt.Errorf("read stream %s: %w", id, err)
	}
	tail := int64(-1)
	for _, record := range records {
		evt, err := record.Decode()
		if err != nil {
			return state, -1, fmt.Errorf("replay %s seq %d: %w", id, record.Sequence, err)
		}
		state = r.agg.Evolve(state, evt)
		tail = record.Sequence
	}
	return state, tail, nil
}

// Execute loads the aggregate, runs Decide and appends the resulting events.
// On a concurrency conflict it reloads and retries up to the configured
// limit, then fails with ErrConflict. Decision errors are returned as-is and
// append nothing.
func (r *Repository[S]) Execute(ctx context.Context, cmd commands.Command) ([]events.Event, error) {
	id := cmd.AggregateID()
	for attempt := 0; ; attempt++ {
		state, tail, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		newEvents, err := r.agg.Decide(state, cmd)
		if err != nil {
			return nil, err
		}
		if len(newEvents) == 0 {
			return nil, nil
		}
		if _, err = r.store.Append(ctx, id, r.agg.Type, tail+1, newEvents); err != nil {
			if errors.Is(err, eventstore.ErrConcurrencyConflict) && attempt < r.maxRetries {
				r.logger.Warn("append conflict, retrying",
					"command", cmd.CommandType(), "id", id, "attempt", attempt+1)
				continue
			}
			if errors.Is(err, eventstore.ErrConcurrencyConflict) {
				return nil, fmt.Errorf("%w: %s on %s", ErrConflict, cmd.CommandType(), id)
			}
			return nil, fmt.Errorf("append %s: %w", id, err)
		}
		return newEvents, nil
	}
}
