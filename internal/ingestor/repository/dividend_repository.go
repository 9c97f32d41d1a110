package repository

import (
	"context"

	"equity-ingestor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DividendRepository reads and writes dividend events under the
// (ticker_id, ex_date) natural key. Stored amounts are never updated: a
// provider correction for an already-seen ex-date is skipped, keeping the
// first value (append-only store).
type DividendRepository interface {
	Exists(ctx context.Context, tickerID uint, exDate string) (bool, error)
	CreateIgnoreConflict(ctx context.Context, events []entity.DividendEvent) (int64, error)
}

type dividendRepository struct {
	db *gorm.DB
}

// NewDividendRepository creates a new instance of DividendRepository.
func NewDividendRepository(db *gorm.DB) DividendRepository {
	return &dividendRepository{db: db}
}

func (r *dividendRepository) Exists(ctx context.Context, tickerID uint, exDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DividendEvent{}).
		Where("ticker_id = ? AND ex_date = ?", tickerID, exDate).
		Count(&count).Error
	return count > 0, err
}

func (r *dividendRepository) CreateIgnoreConflict(ctx context.Context, events []entity.DividendEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker_id"}, {Name: "ex_date"}},
			DoNothing: true,
		}).
		Create(&events)
	return tx.RowsAffected, tx.Error
}

// DividendFrequencyRepository stores the optional cadence annotations that
// some provider API versions attach to dividend events.
type DividendFrequencyRepository interface {
	Exists(ctx context.Context, tickerID uint, exDate string) (bool, error)
	CreateIgnoreConflict(ctx context.Context, frequencies []entity.DividendFrequency) (int64, error)
}

type dividendFrequencyRepository struct {
	db *gorm.DB
}

// NewDividendFrequencyRepository creates a new instance of DividendFrequencyRepository.
func NewDividendFrequencyRepository(db *gorm.DB) DividendFrequencyRepository {
	return &dividendFrequencyRepository{db: db}
}

func (r *dividendFrequencyRepository) Exists(ctx context.Context, tickerID uint, exDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DividendFrequency{}).
		Where("ticker_id = ? AND ex_date = ?", tickerID, exDate).
		Count(&count).Error
	return count > 0, err
}

func (r *dividendFrequencyRepository) CreateIgnoreConflict(ctx context.Context, frequencies []entity.DividendFrequency) (int64, error) {
	if len(frequencies) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker_id"}, {Name: "ex_date"}},
			DoNothing: true,
		}).
		Create(&frequencies)
	return tx.RowsAffected, tx.Error
}
