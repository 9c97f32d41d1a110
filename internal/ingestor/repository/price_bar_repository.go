package repository

import (
	"context"

	"equity-ingestor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceBarRepository reads and writes price bars under the
// (ticker_id, trading_date) natural key.
type PriceBarRepository interface {
	Exists(ctx context.Context, tickerID uint, tradingDate string) (bool, error)
	CreateIgnoreConflict(ctx context.Context, bars []entity.PriceBar) (int64, error)
}

type priceBarRepository struct {
	db *gorm.DB
}

// NewPriceBarRepository creates a new instance of PriceBarRepository.
func NewPriceBarRepository(db *gorm.DB) PriceBarRepository {
	return &priceBarRepository{db: db}
}

func (r *priceBarRepository) Exists(ctx context.Context, tickerID uint, tradingDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PriceBar{}).
		Where("ticker_id = ? AND trading_date = ?", tickerID, tradingDate).
		Count(&count).Error
	return count > 0, err
}

// CreateIgnoreConflict inserts bars, skipping any whose natural key is
// already present, and returns the number of rows actually written.
func (r *priceBarRepository) CreateIgnoreConflict(ctx context.Context, bars []entity.PriceBar) (int64, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker_id"}, {Name: "trading_date"}},
			DoNothing: true,
		}).
		Create(&bars)
	return tx.RowsAffected, tx.Error
}
