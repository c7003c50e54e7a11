// Package repository defines the read-model repository contracts and the
// unit of work over them.
//
// Read-model rows are owned by the projector: only projector code mutates
// them, and always inside a UnitOfWork so the row change and the checkpoint
// advance commit together. Query handlers only read.
package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/money"
)

// CustomerRepository accesses customer rows.
type CustomerRepository interface {
	// Get returns the row or nil when absent.
	Get(ctx context.Context, id string) (*dto.Customer, error)
	// GetByNIC returns the row holding nic, or nil.
	GetByNIC(ctx context.Context, nic string) (*dto.Customer, error)
	// List returns all customer rows.
	List(ctx context.Context) ([]dto.Customer, error)
	// Search returns rows whose name, firstname or nic contains keyword,
	// ordered by firstname descending, plus the total row count.
	Search(ctx context.Context, keyword string, page, size int) ([]dto.Customer, int64, error)
	Create(ctx context.Context, c dto.Customer) error
	Update(ctx context.Context, c dto.Customer) error
	Delete(ctx context.Context, id string) error
}

// AccountUpdate carries the mutable account row fields.
type AccountUpdate struct {
	Balance    money.Money
	Status     domain.AccountStatus
	LastUpdate time.Time
}

// AccountRepository accesses account rows.
type AccountRepository interface {
	// Get returns the row or nil when absent.
	Get(ctx context.Context, id string) (*dto.Account, error)
	// GetByCustomer returns the customer's account row, or nil.
	GetByCustomer(ctx context.Context, customerID string) (*dto.Account, error)
	// List returns all account rows.
	List(ctx context.Context) ([]dto.Account, error)
	Create(ctx context.Context, a dto.Account) error
	Update(ctx context.Context, id string, update AccountUpdate) error
	DeleteByCustomer(ctx context.Context, customerID string) error
}

// OperationRepository accesses the per-account operation journal.
type OperationRepository interface {
	// Get returns the row or nil when absent.
	Get(ctx context.Context, id string) (*dto.Operation, error)
	// ListByAccount returns one page ordered by dateTime descending, plus
	// the total row count for the account.
	ListByAccount(ctx context.Context, accountID string, page, size int) ([]dto.Operation, int64, error)
	Create(ctx context.Context, o dto.Operation) error
	DeleteByAccount(ctx context.Context, accountID string) error
}

// CheckpointRepository persists projector offsets next to the read model.
type CheckpointRepository interface {
	// Get returns the last committed offset for name, or zero if the
	// projector has never run.
	Get(ctx context.Context, name string) (uint64, error)
	Set(ctx context.Context, name string, offset uint64) error
}

// Provider hands out repositories bound to one database session.
type Provider interface {
	Customers() (CustomerRepository, error)
	Accounts() (AccountRepository, error)
	Operations() (OperationRepository, error)
	Checkpoints() (CheckpointRepository, error)
}

// UnitOfWork runs work in a transaction boundary. Repositories obtained from
// the UnitOfWork passed to fn share the transaction, so a read-model write
// and its checkpoint advance are atomic.
type UnitOfWork interface {
	Provider
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}
