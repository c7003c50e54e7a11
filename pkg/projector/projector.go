// Package projector consumes the event log and maintains the denormalized
// read model (customers, accounts, operations).
//
// Each event is applied inside one unit of work together with the checkpoint
// advance, so a crash never loses or double-applies an update: the
// subscription resumes from the last committed checkpoint. Operation row ids
// are derived from (aggregateId, sequence), which keeps re-projection from
// offset zero row-for-row identical to the first run.
package projector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/events"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/eventstore"
	"github.com/amirasaad/bank/pkg/metrics"
	"github.com/amirasaad/bank/pkg/repository"
)

// DefaultName is the checkpoint row name of the ledger projection.
const DefaultName = "ledger-projection"

// ErrPaused is wrapped around the invariant violation that stopped the
// subscription. The projector does not advance past the offending event;
// resuming after operator intervention re-delivers it.
var ErrPaused = errors.New("projector paused")

// operationNamespace seeds deterministic operation row ids.
var operationNamespace = uuid.MustParse("9f2c1d9e-5a57-4b62-a0a3-7b8f3f1f4c11")

// OperationID derives the operation row id for the event at (aggregateID,
// sequence). Deterministic, so replay inserts the same id and a unique key
// collision is impossible.
func OperationID(aggregateID string, sequence int64) string {
	return uuid.NewSHA1(operationNamespace, fmt.Appendf(nil, "%s:%d", aggregateID, sequence)).String()
}

// Projector is the single logical consumer of the event log.
type Projector struct {
	name    string
	store   eventstore.Store
	uow     repository.UnitOfWork
	logger  *slog.Logger
	metrics *metrics.Metrics

	maxBackoff time.Duration

	mu  sync.Mutex
	err error
}

// New builds a projector over the store and read-model unit of work.
// m may be nil.
func New(store eventstore.Store, uow repository.UnitOfWork, logger *slog.Logger, m *metrics.Metrics) *Projector {
	return &Projector{
		name:       DefaultName,
		store:      store,
		uow:        uow,
		logger:     logger.With("component", "projector", "name", DefaultName),
		metrics:    m,
		maxBackoff: 30 * time.Second,
	}
}

// Err returns the invariant violation that paused the projector, or nil
// while it is healthy. Operator-facing.
func (p *Projector) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Run subscribes from the last committed checkpoint and applies events until
// ctx is cancelled or an invariant violation pauses the subscription.
// Transient storage errors are retried with exponential backoff and never
// drop an event.
func (p *Projector) Run(ctx context.Context) error {
	checkpoints, err := p.uow.Checkpoints()
	if err != nil {
		return err
	}
	from, err := checkpoints.Get(ctx, p.name)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	ch, err := p.store.Subscribe(ctx, from)
	if err != nil {
		return fmt.Errorf("subscribe from %d: %w", from, err)
	}
	p.logger.Info("projection started", "from", from)

	for record := range ch {
		if err := p.project(ctx, record); err != nil {
			return err
		}
		p.observeLag(ctx, record.GlobalOffset)
	}
	return ctx.Err()
}

// project applies one record, retrying transient failures. A domain
// invariant violation pauses the projector.
func (p *Projector) project(ctx context.Context, record eventstore.Record) error {
	evt, err := record.Decode()
	if err != nil {
		// An undecodable record can never be applied; retrying is pointless.
		paused := fmt.Errorf("%w at offset %d: %w", ErrPaused, record.GlobalOffset, err)
		p.mu.Lock()
		p.err = paused
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.ProjectorPauses.Inc()
		}
		return paused
	}

	backoff := 100 * time.Millisecond
	for {
		err := p.apply(ctx, record, evt)
		if err == nil {
			if p.metrics != nil {
				p.metrics.EventsProjected.WithLabelValues(record.Type).Inc()
			}
			return nil
		}
		if domain.IsDomain(err) {
			paused := fmt.Errorf("%w at offset %d (%s seq %d): %w",
				ErrPaused, record.GlobalOffset, record.AggregateID, record.Sequence, err)
			p.mu.Lock()
			p.err = paused
			p.mu.Unlock()
			if p.metrics != nil {
				p.metrics.ProjectorPauses.Inc()
			}
			p.logger.Error("projection paused on invariant violation",
				"offset", record.GlobalOffset, "type", record.Type, "error", err)
			return paused
		}
		p.logger.Warn("projection retry on storage error",
			"offset", record.GlobalOffset, "type", record.Type,
			"backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		if backoff *= 2; backoff > p.maxBackoff {
			backoff = p.maxBackoff
		}
	}
}

// apply runs the read-model mutation for one record and the checkpoint
// advance in a single transaction.
func (p *Projector) apply(ctx context.Context, record eventstore.Record, evt events.Event) error {
	return p.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := p.applyEvent(ctx, uow, record, evt); err != nil {
			return err
		}
		checkpoints, err := uow.Checkpoints()
		if err != nil {
			return err
		}
		return checkpoints.Set(ctx, p.name, record.GlobalOffset)
	})
}

func (p *Projector) applyEvent(ctx context.Context, uow repository.UnitOfWork, record eventstore.Record, evt events.Event) error {
	switch e := evt.(type) {
	case events.CustomerCreated:
		return p.onCustomerCreated(ctx, uow, e)
	case events.CustomerUpdated:
		return p.onCustomerUpdated(ctx, uow, e)
	case events.CustomerDeleted:
		return p.onCustomerDeleted(ctx, uow, e)
	case events.AccountCreated:
		return p.onAccountCreated(ctx, uow, e)
	case events.AccountActivated:
		return p.onStatusChanged(ctx, uow, e.ID, domain.StatusActivated, e.LastUpdate)
	case events.AccountSuspended:
		return p.onStatusChanged(ctx, uow, e.ID, domain.StatusSuspended, e.LastUpdate)
	case events.AccountCredited:
		return p.onAccountCredited(ctx, uow, record, e)
	case events.AccountDebited:
		return p.onAccountDebited(ctx, uow, record, e)
	default:
		p.logger.Warn("unhandled event type", "type", record.Type)
		return nil
	}
}

func (p *Projector) onCustomerCreated(ctx context.Context, uow repository.UnitOfWork, e events.CustomerCreated) error {
	customers, err := uow.Customers()
	if err != nil {
		return err
	}
	existing, err := customers.GetByNIC(ctx, e.NIC)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: nic %q held by customer %s", domain.ErrNicAlreadyExists, e.NIC, existing.ID)
	}
	return customers.Create(ctx, dto.Customer{
		ID:           e.ID,
		NIC:          e.NIC,
		Firstname:    e.Firstname,
		Name:         e.Name,
		PlaceOfBirth: e.PlaceOfBirth,
		DateOfBirth:  e.DateOfBirth,
		Nationality:  e.Nationality,
		Sex:          e.Sex,
		Creation:     e.Creation,
	})
}

func (p *Projector) onCustomerUpdated(ctx context.Context, uow repository.UnitOfWork, e events.CustomerUpdated) error {
	customers, err := uow.Customers()
	if err != nil {
		return err
	}
	holder, err := customers.GetByNIC(ctx, e.NIC)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != e.ID {
		return fmt.Errorf("%w: nic %q held by customer %s", domain.ErrNicAlreadyExists, e.NIC, holder.ID)
	}
	row, err := customers.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("%w: id %q", domain.ErrCustomerNotFound, e.ID)
	}
	lastUpdate := e.LastUpdate
	return customers.Update(ctx, dto.Customer{
		ID:           e.ID,
		NIC:          e.NIC,
		Firstname:    e.Firstname,
		Name:         e.Name,
		PlaceOfBirth: e.PlaceOfBirth,
		DateOfBirth:  e.DateOfBirth,
		Nationality:  e.Nationality,
		Sex:          e.Sex,
		Creation:     row.Creation,
		LastUpdate:   &lastUpdate,
	})
}

// onCustomerDeleted hard-deletes the row and cascades to the customer's
// account and its journal.
func (p *Projector) onCustomerDeleted(ctx context.Context, uow repository.UnitOfWork, e events.CustomerDeleted) error {
	customers, err := uow.Customers()
	if err != nil {
		return err
	}
	accounts, err := uow.Accounts()
	if err != nil {
		return err
	}
	operations, err := uow.Operations()
	if err != nil {
		return err
	}
	acct, err := accounts.GetByCustomer(ctx, e.ID)
	if err != nil {
		return err
	}
	if acct != nil {
		if err := operations.DeleteByAccount(ctx, acct.ID); err != nil {
			return err
		}
		if err := accounts.DeleteByCustomer(ctx, e.ID); err != nil {
			return err
		}
	}
	return customers.Delete(ctx, e.ID)
}

func (p *Projector) onAccountCreated(ctx context.Context, uow repository.UnitOfWork, e events.AccountCreated) error {
	customers, err := uow.Customers()
	if err != nil {
		return err
	}
	accounts, err := uow.Accounts()
	if err != nil {
		return err
	}
	owner, err := customers.Get(ctx, e.CustomerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return fmt.Errorf("%w: id %q", domain.ErrCustomerNotFound, e.CustomerID)
	}
	existing, err := accounts.GetByCustomer(ctx, e.CustomerID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: customer %s owns account %s", domain.ErrCustomerAlreadyHasAccount, e.CustomerID, existing.ID)
	}
	return accounts.Create(ctx, dto.Account{
		ID:         e.ID,
		Balance:    e.Balance,
		Status:     e.Status,
		Creation:   e.Creation,
		CustomerID: e.CustomerID,
	})
}

func (p *Projector) onStatusChanged(ctx context.Context, uow repository.UnitOfWork, id string, status domain.AccountStatus, at time.Time) error {
	accounts, err := uow.Accounts()
	if err != nil {
		return err
	}
	row, err := accounts.Get(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("%w: id %q", domain.ErrAccountNotFound, id)
	}
	return accounts.Update(ctx, id, repository.AccountUpdate{
		Balance:    row.Balance,
		Status:     status,
		LastUpdate: at,
	})
}

func (p *Projector) onAccountCredited(ctx context.Context, uow repository.UnitOfWork, record eventstore.Record, e events.AccountCredited) error {
	accounts, err := uow.Accounts()
	if err != nil {
		return err
	}
	operations, err := uow.Operations()
	if err != nil {
		return err
	}
	row, err := accounts.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("%w: id %q", domain.ErrAccountNotFound, e.ID)
	}
	if row.Status != domain.StatusActivated {
		return fmt.Errorf("%w: status %s", domain.ErrAccountNotActivated, row.Status)
	}
	if err := accounts.Update(ctx, e.ID, repository.AccountUpdate{
		Balance:    row.Balance.Add(e.Amount),
		Status:     row.Status,
		LastUpdate: e.LastUpdate,
	}); err != nil {
		return err
	}
	return operations.Create(ctx, dto.Operation{
		ID:          OperationID(record.AggregateID, record.Sequence),
		Type:        domain.OperationCredit,
		Amount:      e.Amount,
		DateTime:    e.LastUpdate,
		Description: e.Description,
		AccountID:   e.ID,
	})
}

// onAccountDebited re-checks status and balance against the read model's own
// snapshot. The write side may have emitted against a zero balance; the
// projection is where that debit is finally rejected.
func (p *Projector) onAccountDebited(ctx context.Context, uow repository.UnitOfWork, record eventstore.Record, e events.AccountDebited) error {
	accounts, err := uow.Accounts()
	if err != nil {
		return err
	}
	operations, err := uow.Operations()
	if err != nil {
		return err
	}
	row, err := accounts.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("%w: id %q", domain.ErrAccountNotFound, e.ID)
	}
	if row.Status != domain.StatusActivated {
		return fmt.Errorf("%w: status %s", domain.ErrAccountNotActivated, row.Status)
	}
	if row.Balance.LessThan(e.Amount) {
		return fmt.Errorf("%w: balance %s, debit %s", domain.ErrInsufficientBalance, row.Balance, e.Amount)
	}
	if err := accounts.Update(ctx, e.ID, repository.AccountUpdate{
		Balance:    row.Balance.Sub(e.Amount),
		Status:     row.Status,
		LastUpdate: e.LastUpdate,
	}); err != nil {
		return err
	}
	return operations.Create(ctx, dto.Operation{
		ID:          OperationID(record.AggregateID, record.Sequence),
		Type:        domain.OperationDebit,
		Amount:      e.Amount,
		DateTime:    e.LastUpdate,
		Description: e.Description,
		AccountID:   e.ID,
	})
}

func (p *Projector) observeLag(ctx context.Context, projected uint64) {
	if p.metrics == nil {
		return
	}
	latest, err := p.store.LatestOffset(ctx)
	if err != nil {
		return
	}
	p.metrics.ProjectorLag.Set(float64(latest - projected))
}
