// Package commandbus routes commands to the aggregate repositories and
// enforces at-most-one-writer-per-aggregate.
//
// Commands targeting the same aggregate id run strictly serially; commands
// on different ids run concurrently (up to stripe collisions). Each stripe
// bounds its in-flight commands, so a slow aggregate backs pressure onto its
// own callers instead of growing an unbounded queue.
package commandbus

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/amirasaad/bank/pkg/commands"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/amirasaad/bank/pkg/sourcing"
)

var (
	// ErrOverloaded is returned when a stripe's queue is full.
	ErrOverloaded = errors.New("command bus overloaded")

	// ErrTimeout is returned when the command's deadline expires before the
	// events are appended. A durable append is always reported as success.
	ErrTimeout = errors.New("command timed out")

	// ErrCanceled is returned when the caller cancels the context before
	// the events are appended.
	ErrCanceled = errors.New("command canceled")

	// ErrUnroutable is returned for a command type no aggregate handles.
	ErrUnroutable = errors.New("no handler for command")
)

const (
	// stripeCount is the number of lock stripes over aggregate ids.
	stripeCount = 64
	// DefaultQueueDepth is how many commands may wait per stripe beyond the
	// one currently running.
	DefaultQueueDepth = 16
)

// Bus accepts commands and completes when their events are durable.
type Bus interface {
	// Dispatch runs cmd and returns the events it appended. Decision errors
	// come back unwrapped for errors.Is checks.
	Dispatch(ctx context.Context, cmd commands.Command) ([]events.Event, error)
}

type stripe struct {
	slots chan struct{} // capacity 1 + queue depth; bounds in-flight commands
	mu    chan struct{} // capacity 1; serializes execution
}

// InProcess is the single-process Bus implementation.
type InProcess struct {
	customers *sourcing.Repository[customer.State]
	accounts  *sourcing.Repository[account.State]
	stripes   [stripeCount]stripe
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New builds an in-process bus over the two aggregate repositories.
// metrics may be nil.
func New(
	customers *sourcing.Repository[customer.State],
	accounts *sourcing.Repository[account.State],
	logger *slog.Logger,
	m *metrics.Metrics,
) *InProcess {
	b := &InProcess{
		customers: customers,
		accounts:  accounts,
		logger:    logger.With("component", "commandbus"),
		metrics:   m,
	}
	for i := range b.stripes {
		b.stripes[i] = stripe{
			slots: make(chan struct{}, 1+DefaultQueueDepth),
			mu:    make(chan struct{}, 1),
		}
	}
	return b
}

// Dispatch validates cmd, serializes on the aggregate's stripe and executes
// it against the owning repository.
func (b *InProcess) Dispatch(ctx context.Context, cmd commands.Command) ([]events.Event, error) {
	if err := commands.Validate(cmd); err != nil {
		b.count(cmd, "invalid")
		return nil, err
	}

	s := &b.stripes[stripeIndex(cmd.AggregateID())]
	select {
	case s.slots <- struct{}{}:
	default:
		b.count(cmd, "overloaded")
		return nil, fmt.Errorf("%w: %s on %s", ErrOverloaded, cmd.CommandType(), cmd.AggregateID())
	}
	defer func() { <-s.slots }()

	select {
	case s.mu <- struct{}{}:
	case <-ctx.Done():
		return nil, b.abort(ctx.Err(), cmd)
	}
	defer func() { <-s.mu }()

	evts, err := b.route(ctx, cmd)
	switch {
	case err == nil:
		b.count(cmd, "ok")
		if b.metrics != nil {
			b.metrics.EventsAppended.Add(float64(len(evts)))
		}
		b.logger.Info("command handled",
			"command", cmd.CommandType(), "id", cmd.AggregateID(), "events", len(evts))
		return evts, nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// The append did not complete; a completed append returns nil above.
		return nil, b.abort(err, cmd)
	default:
		b.count(cmd, "error")
		b.logger.Warn("command failed",
			"command", cmd.CommandType(), "id", cmd.AggregateID(), "error", err)
		return nil, err
	}
}

func (b *InProcess) route(ctx context.Context, cmd commands.Command) ([]events.Event, error) {
	switch cmd.(type) {
	case commands.CreateCustomer, commands.UpdateCustomer, commands.DeleteCustomer:
		return b.customers.Execute(ctx, cmd)
	case commands.CreateAccount, commands.CreditAccount, commands.DebitAccount,
		commands.ActivateAccount, commands.SuspendAccount:
		return b.accounts.Execute(ctx, cmd)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnroutable, cmd.CommandType())
	}
}

// abort maps a context error to the bus sentinel: an expired deadline is a
// timeout, an explicit cancellation is not.
func (b *InProcess) abort(cause error, cmd commands.Command) error {
	sentinel, outcome := ErrTimeout, "timeout"
	if errors.Is(cause, context.Canceled) {
		sentinel, outcome = ErrCanceled, "canceled"
	}
	b.count(cmd, outcome)
	return fmt.Errorf("%w: %s on %s", sentinel, cmd.CommandType(), cmd.AggregateID())
}

func (b *InProcess) count(cmd commands.Command, outcome string) {
	if b.metrics != nil {
		b.metrics.CommandsDispatched.WithLabelValues(cmd.CommandType(), outcome).Inc()
	}
}

func stripeIndex(aggregateID string) int {
	h := fnv.New32a()
	h.Write([]byte(aggregateID)) //nolint:errcheck
	return int(h.Sum32() % stripeCount)
}

var _ Bus = (*InProcess)(nil)
