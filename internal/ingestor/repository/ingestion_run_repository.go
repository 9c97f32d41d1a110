package repository

import (
	"context"
	"errors"

	"equity-ingestor/internal/entity"

	"gorm.io/gorm"
)

// IngestionRunRepository persists per-run summaries for observability.
type IngestionRunRepository interface {
	Create(ctx context.Context, run *entity.IngestionRun) error
	FindLatest(ctx context.Context) (*entity.IngestionRun, error)
	FindRecent(ctx context.Context, limit int) ([]entity.IngestionRun, error)
}

type ingestionRunRepository struct {
	db *gorm.DB
}

// NewIngestionRunRepository creates a new instance of IngestionRunRepository.
func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

func (r *ingestionRunRepository) Create(ctx context.Context, run *entity.IngestionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *ingestionRunRepository) FindLatest(ctx context.Context) (*entity.IngestionRun, error) {
	var run entity.IngestionRun
	err := r.db.WithContext(ctx).Order("id DESC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *ingestionRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.IngestionRun, error) {
	var runs []entity.IngestionRun
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
