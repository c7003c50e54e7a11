package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	repo "github.com/amirasaad/bank/pkg/repository"
)

type checkpointRepository struct {
	db *gorm.DB
}

// NewCheckpointRepository builds a checkpoint repository over db.
func NewCheckpointRepository(db *gorm.DB) repo.CheckpointRepository {
	return &checkpointRepository{db: db}
}

func (r *checkpointRepository) Get(ctx context.Context, name string) (uint64, error) {
	var row Checkpoint
	err := r.db.WithContext(ctx).First(&row, "projector_name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get checkpoint %s: %w", name, err)
	}
	return row.LastGlobalOffset, nil
}

func (r *checkpointRepository) Set(ctx context.Context, name string, offset uint64) error {
	row := Checkpoint{ProjectorName: name, LastGlobalOffset: offset}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "projector_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_global_offset"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("set checkpoint %s: %w", name, err)
	}
	return nil
}
