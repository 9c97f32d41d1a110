package repository

import (
	"context"
	"errors"

	"equity-ingestor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository reads and writes news articles (globally unique by URL) and
// their per-ticker sentiment scores.
type NewsRepository interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	FindByURL(ctx context.Context, url string) (*entity.NewsItem, error)
	CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error)
	SentimentExists(ctx context.Context, newsItemID, tickerID uint) (bool, error)
	SentimentExistsByURL(ctx context.Context, url string, tickerID uint) (bool, error)
	CreateSentimentsIgnoreConflict(ctx context.Context, scores []entity.SentimentScore) (int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.NewsItem{}).
		Where("url = ?", url).
		Count(&count).Error
	return count > 0, err
}

// FindByURL returns the persisted article for a URL, or nil when absent.
func (r *newsRepository) FindByURL(ctx context.Context, url string) (*entity.NewsItem, error) {
	var item entity.NewsItem
	err := r.db.WithContext(ctx).Where("url = ?", url).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateIgnoreConflict inserts the article unless its URL is already stored.
// It reports whether a new row was written; either way item.ID carries the
// persisted identity afterwards.
func (r *newsRepository) CreateIgnoreConflict(ctx context.Context, item *entity.NewsItem) (bool, error) {
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoNothing: true,
		}).
		Create(item)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		existing, err := r.FindByURL(ctx, item.URL)
		if err != nil {
			return false, err
		}
		if existing != nil {
			item.ID = existing.ID
		}
		return false, nil
	}

	return true, nil
}

func (r *newsRepository) SentimentExists(ctx context.Context, newsItemID, tickerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.SentimentScore{}).
		Where("news_item_id = ? AND ticker_id = ?", newsItemID, tickerID).
		Count(&count).Error
	return count > 0, err
}

// SentimentExistsByURL resolves the article by URL first, for gate checks
// that happen before the news row has a persisted ID.
func (r *newsRepository) SentimentExistsByURL(ctx context.Context, url string, tickerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.SentimentScore{}).
		Joins("JOIN news_items ON news_items.id = sentiment_scores.news_item_id").
		Where("news_items.url = ? AND sentiment_scores.ticker_id = ?", url, tickerID).
		Count(&count).Error
	return count > 0, err
}

func (r *newsRepository) CreateSentimentsIgnoreConflict(ctx context.Context, scores []entity.SentimentScore) (int64, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "news_item_id"}, {Name: "ticker_id"}},
			DoNothing: true,
		}).
		Create(&scores)
	return tx.RowsAffected, tx.Error
}
