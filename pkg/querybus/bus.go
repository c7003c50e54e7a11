// Package querybus routes query records to the read-model repositories.
// Handlers are stateless and read-only; they never touch the event store.
package querybus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/queries"
	"github.com/amirasaad/bank/pkg/repository"
)

// DefaultPageSize is used when a paged query does not set a size.
const DefaultPageSize = 10

// Bus serves the read-side queries over a repository provider.
type Bus struct {
	repos  repository.Provider
	logger *slog.Logger
}

// New builds a query bus over the given provider.
func New(repos repository.Provider, logger *slog.Logger) *Bus {
	return &Bus{repos: repos, logger: logger.With("component", "querybus")}
}

// GetAccountByID returns the account row or nil.
func (b *Bus) GetAccountByID(ctx context.Context, q queries.GetAccountByID) (*dto.Account, error) {
	accounts, err := b.repos.Accounts()
	if err != nil {
		return nil, err
	}
	return accounts.Get(ctx, q.ID)
}

// GetAccountByCustomerID returns the customer's account row or nil.
func (b *Bus) GetAccountByCustomerID(ctx context.Context, q queries.GetAccountByCustomerID) (*dto.Account, error) {
	accounts, err := b.repos.Accounts()
	if err != nil {
		return nil, err
	}
	return accounts.GetByCustomer(ctx, q.CustomerID)
}

// GetAllAccounts returns every account row.
func (b *Bus) GetAllAccounts(ctx context.Context, _ queries.GetAllAccounts) ([]dto.Account, error) {
	accounts, err := b.repos.Accounts()
	if err != nil {
		return nil, err
	}
	return accounts.List(ctx)
}

// GetOperationByID returns the operation row or nil.
func (b *Bus) GetOperationByID(ctx context.Context, q queries.GetOperationByID) (*dto.Operation, error) {
	operations, err := b.repos.Operations()
	if err != nil {
		return nil, err
	}
	return operations.Get(ctx, q.ID)
}

// GetOperationsByAccountID returns one page of the account's journal,
// ordered by dateTime descending.
func (b *Bus) GetOperationsByAccountID(ctx context.Context, q queries.GetOperationsByAccountID) (*dto.OperationPage, error) {
	operations, err := b.repos.Operations()
	if err != nil {
		return nil, err
	}
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	rows, total, err := operations.ListByAccount(ctx, q.AccountID, q.Page, size)
	if err != nil {
		return nil, err
	}
	return &dto.OperationPage{
		Operations: rows,
		Page:       q.Page,
		Size:       size,
		TotalPages: totalPages(total, size),
	}, nil
}

// GetCustomerByID returns the customer row or domain.ErrCustomerNotFound.
func (b *Bus) GetCustomerByID(ctx context.Context, q queries.GetCustomerByID) (*dto.Customer, error) {
	customers, err := b.repos.Customers()
	if err != nil {
		return nil, err
	}
	row, err := customers.Get(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: id %q", domain.ErrCustomerNotFound, q.ID)
	}
	return row, nil
}

// SearchCustomers returns one page of customers matching the keyword.
func (b *Bus) SearchCustomers(ctx context.Context, q queries.SearchCustomers) (*dto.CustomerPage, error) {
	customers, err := b.repos.Customers()
	if err != nil {
		return nil, err
	}
	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	rows, total, err := customers.Search(ctx, q.Keyword, q.Page, size)
	if err != nil {
		return nil, err
	}
	b.logger.Info("customers searched", "keyword", q.Keyword, "found", len(rows))
	return &dto.CustomerPage{
		Customers:  rows,
		Page:       q.Page,
		Size:       size,
		TotalPages: totalPages(total, size),
	}, nil
}

// GetAllCustomers returns every customer row.
func (b *Bus) GetAllCustomers(ctx context.Context, _ queries.GetAllCustomers) ([]dto.Customer, error) {
	customers, err := b.repos.Customers()
	if err != nil {
		return nil, err
	}
	return customers.List(ctx)
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return pages
}
