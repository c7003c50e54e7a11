package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/money"
	repo "github.com/amirasaad/bank/pkg/repository"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository builds an account repository over db.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id string) (*dto.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return accountToDTO(&row), nil
}

func (r *accountRepository) GetByCustomer(ctx context.Context, customerID string) (*dto.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).First(&row, "customer_id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by customer %s: %w", customerID, err)
	}
	return accountToDTO(&row), nil
}

func (r *accountRepository) List(ctx context.Context) ([]dto.Account, error) {
	var rows []Account
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	result := make([]dto.Account, len(rows))
	for i := range rows {
		result[i] = *accountToDTO(&rows[i])
	}
	return result, nil
}

func (r *accountRepository) Create(ctx context.Context, a dto.Account) error {
	row := Account{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Balance:    a.Balance.Minor(),
		Status:     string(a.Status),
		Creation:   a.Creation,
		LastUpdate: a.LastUpdate,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create account %s: %w", a.ID, err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, id string, update repo.AccountUpdate) error {
	result := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(map[string]any{
		"balance":     update.Balance.Minor(),
		"status":      string(update.Status),
		"last_update": update.LastUpdate,
	})
	if result.Error != nil {
		return fmt.Errorf("update account %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrAccountNotFound, id)
	}
	return nil
}

func (r *accountRepository) DeleteByCustomer(ctx context.Context, customerID string) error {
	if err := r.db.WithContext(ctx).Delete(&Account{}, "customer_id = ?", customerID).Error; err != nil {
		return fmt.Errorf("delete account of customer %s: %w", customerID, err)
	}
	return nil
}

func accountToDTO(row *Account) *dto.Account {
	return &dto.Account{
		ID:         row.ID,
		Balance:    money.FromMinor(row.Balance),
		Status:     domain.AccountStatus(row.Status),
		Creation:   row.Creation,
		LastUpdate: row.LastUpdate,
		CustomerID: row.CustomerID,
	}
}
