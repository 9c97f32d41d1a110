package repository

import (
	"context"

	"equity-ingestor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsiderTransactionRepository reads and writes insider filings under the
// (ticker_id, filing_date, transaction_date, transaction_code) natural key.
type InsiderTransactionRepository interface {
	Exists(ctx context.Context, tickerID uint, filingDate, transactionDate, transactionCode string) (bool, error)
	CreateIgnoreConflict(ctx context.Context, transactions []entity.InsiderTransaction) (int64, error)
}

type insiderTransactionRepository struct {
	db *gorm.DB
}

// NewInsiderTransactionRepository creates a new instance of InsiderTransactionRepository.
func NewInsiderTransactionRepository(db *gorm.DB) InsiderTransactionRepository {
	return &insiderTransactionRepository{db: db}
}

func (r *insiderTransactionRepository) Exists(ctx context.Context, tickerID uint, filingDate, transactionDate, transactionCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.InsiderTransaction{}).
		Where("ticker_id = ? AND filing_date = ? AND transaction_date = ? AND transaction_code = ?",
			tickerID, filingDate, transactionDate, transactionCode).
		Count(&count).Error
	return count > 0, err
}

func (r *insiderTransactionRepository) CreateIgnoreConflict(ctx context.Context, transactions []entity.InsiderTransaction) (int64, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "ticker_id"}, {Name: "filing_date"},
				{Name: "transaction_date"}, {Name: "transaction_code"},
			},
			DoNothing: true,
		}).
		Create(&transactions)
	return tx.RowsAffected, tx.Error
}
