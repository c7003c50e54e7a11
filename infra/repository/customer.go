package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/dto"
	repo "github.com/amirasaad/bank/pkg/repository"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository builds a customer repository over db.
func NewCustomerRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Get(ctx context.Context, id string) (*dto.Customer, error) {
	var row Customer
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return customerToDTO(&row), nil
}

func (r *customerRepository) GetByNIC(ctx context.Context, nic string) (*dto.Customer, error) {
	var row Customer
	err := r.db.WithContext(ctx).First(&row, "nic = ?", nic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer by nic: %w", err)
	}
	return customerToDTO(&row), nil
}

func (r *customerRepository) List(ctx context.Context) ([]dto.Customer, error) {
	var rows []Customer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	result := make([]dto.Customer, len(rows))
	for i := range rows {
		result[i] = *customerToDTO(&rows[i])
	}
	return result, nil
}

func (r *customerRepository) Search(ctx context.Context, keyword string, page, size int) ([]dto.Customer, int64, error) {
	kw := "%" + keyword + "%"
	query := r.db.WithContext(ctx).Model(&Customer{}).
		Where("name LIKE ? OR firstname LIKE ? OR nic LIKE ?", kw, kw, kw)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	var rows []Customer
	if err := query.
		Order("firstname DESC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("search customers: %w", err)
	}
	result := make([]dto.Customer, len(rows))
	for i := range rows {
		result[i] = *customerToDTO(&rows[i])
	}
	return result, total, nil
}

func (r *customerRepository) Create(ctx context.Context, c dto.Customer) error {
	row := customerFromDTO(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create customer %s: %w", c.ID, err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c dto.Customer) error {
	row := customerFromDTO(c)
	result := r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", c.ID).Updates(map[string]any{
		"nic":            row.NIC,
		"firstname":      row.Firstname,
		"name":           row.Name,
		"place_of_birth": row.PlaceOfBirth,
		"date_of_birth":  row.DateOfBirth,
		"nationality":    row.Nationality,
		"sex":            row.Sex,
		"last_update":    row.LastUpdate,
	})
	if result.Error != nil {
		return fmt.Errorf("update customer %s: %w", c.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrCustomerNotFound, c.ID)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&Customer{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

func customerToDTO(row *Customer) *dto.Customer {
	return &dto.Customer{
		ID:           row.ID,
		NIC:          row.NIC,
		Firstname:    row.Firstname,
		Name:         row.Name,
		PlaceOfBirth: row.PlaceOfBirth,
		DateOfBirth:  row.DateOfBirth,
		Nationality:  row.Nationality,
		Sex:          domain.Sex(row.Sex),
		Creation:     row.Creation,
		LastUpdate:   row.LastUpdate,
	}
}

func customerFromDTO(c dto.Customer) Customer {
	return Customer{
		ID:           c.ID,
		NIC:          c.NIC,
		Firstname:    c.Firstname,
		Name:         c.Name,
		PlaceOfBirth: c.PlaceOfBirth,
		DateOfBirth:  c.DateOfBirth,
		Nationality:  c.Nationality,
		Sex:          string(c.Sex),
		Creation:     c.Creation,
		LastUpdate:   c.LastUpdate,
	}
}
