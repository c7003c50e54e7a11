package repository

import (
	"context"

	"gorm.io/gorm"

	repo "github.com/amirasaad/bank/pkg/repository"
)

// UoW provides transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the transaction, so
// the projector's read-model write and checkpoint advance commit together.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW over the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// session is the transaction when inside Do, the base connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Do runs fn in a transaction boundary. If fn returns an error the
// transaction is rolled back.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// Customers implements repository.Provider.
func (u *UoW) Customers() (repo.CustomerRepository, error) {
	return NewCustomerRepository(u.session()), nil
}

// Accounts implements repository.Provider.
func (u *UoW) Accounts() (repo.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// Operations implements repository.Provider.
func (u *UoW) Operations() (repo.OperationRepository, error) {
	return NewOperationRepository(u.session()), nil
}

// Checkpoints implements repository.Provider.
func (u *UoW) Checkpoints() (repo.CheckpointRepository, error) {
	return NewCheckpointRepository(u.session()), nil
}

var _ repo.UnitOfWork = (*UoW)(nil)
