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

type operationRepository struct {
	db *gorm.DB
}

// NewOperationRepository builds an operation repository over db.
func NewOperationRepository(db *gorm.DB) repo.OperationRepository {
	return &operationRepository{db: db}
}

func (r *operationRepository) Get(ctx context.Context, id string) (*dto.Operation, error) {
	var row Operation
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get operation %s: %w", id, err)
	}
	return operationToDTO(&row), nil
}

func (r *operationRepository) ListByAccount(ctx context.Context, accountID string, page, size int) ([]dto.Operation, int64, error) {
	query := r.db.WithContext(ctx).Model(&Operation{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count operations: %w", err)
	}
	var rows []Operation
	if err := query.
		Order("date_time DESC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list operations of %s: %w", accountID, err)
	}
	result := make([]dto.Operation, len(rows))
	for i := range rows {
		result[i] = *operationToDTO(&rows[i])
	}
	return result, total, nil
}

func (r *operationRepository) Create(ctx context.Context, o dto.Operation) error {
	row := Operation{
		ID:          o.ID,
		AccountID:   o.AccountID,
		Type:        string(o.Type),
		Amount:      o.Amount.Minor(),
		DateTime:    o.DateTime,
		Description: o.Description,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create operation %s: %w", o.ID, err)
	}
	return nil
}

func (r *operationRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	if err := r.db.WithContext(ctx).Delete(&Operation{}, "account_id = ?", accountID).Error; err != nil {
		return fmt.Errorf("delete operations of %s: %w", accountID, err)
	}
	return nil
}

func operationToDTO(row *Operation) *dto.Operation {
	return &dto.Operation{
		ID:          row.ID,
		Type:        domain.OperationType(row.Type),
		Amount:      money.FromMinor(row.Amount),
		DateTime:    row.DateTime,
		Description: row.Description,
		AccountID:   row.AccountID,
	}
}
