package repository

import (
	"context"
	"strings"
	"time"

	"equity-ingestor/internal/entity"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TickersRepository resolves ticker symbols to stable internal identifiers.
// Symbols are case-normalized; rows are created lazily and never deleted.
type TickersRepository interface {
	GetOrCreate(ctx context.Context, symbol string) (*entity.Ticker, error)
	GetAll(ctx context.Context) ([]entity.Ticker, error)
}

type tickersRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewTickersRepository creates a new instance of TickersRepository.
func NewTickersRepository(db *gorm.DB) TickersRepository {
	return &tickersRepository{
		db:    db,
		cache: cache.New(30*time.Minute, time.Hour),
	}
}

// GetOrCreate returns the ticker row for a symbol, inserting it on first
// reference. The ID is cached per process; ticker rows are immutable so the
// cache can never go stale.
func (r *tickersRepository) GetOrCreate(ctx context.Context, symbol string) (*entity.Ticker, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))

	if cached, found := r.cache.Get(normalized); found {
		ticker := cached.(entity.Ticker)
		return &ticker, nil
	}

	ticker := entity.Ticker{Symbol: normalized}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoNothing: true,
		}).
		Create(&ticker).Error
	if err != nil {
		return nil, err
	}

	// On conflict the insert is a no-op and leaves ID zero; fetch the
	// existing row.
	if ticker.ID == 0 {
		if err := r.db.WithContext(ctx).Where("symbol = ?", normalized).First(&ticker).Error; err != nil {
			return nil, err
		}
	}

	r.cache.Set(normalized, ticker, cache.DefaultExpiration)
	return &ticker, nil
}

// GetAll returns every tracked ticker.
func (r *tickersRepository) GetAll(ctx context.Context) ([]entity.Ticker, error) {
	var tickers []entity.Ticker
	if err := r.db.WithContext(ctx).Order("symbol").Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}
