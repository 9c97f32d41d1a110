package repository

import (
	"context"
	"path/filepath"
	"testing"

	"equity-ingestor/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Ticker{},
		&entity.PriceBar{},
		&entity.DividendEvent{},
		&entity.DividendFrequency{},
		&entity.InsiderTransaction{},
		&entity.NewsItem{},
		&entity.SentimentScore{},
		&entity.IngestionRun{},
	))
	return db
}

func TestTickersRepositoryGetOrCreate(t *testing.T) {
	repo := NewTickersRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.GetOrCreate(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", created.Symbol)
	assert.NotZero(t, created.ID)

	// Same symbol in any casing resolves to the same row.
	again, err := repo.GetOrCreate(ctx, " AAPL ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPriceBarRepositoryCreateIgnoreConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceBarRepository(db)
	ctx := context.Background()

	bars := []entity.PriceBar{
		{TickerID: 1, TradingDate: "2024-01-02", Close: 185.6},
		{TickerID: 1, TradingDate: "2024-01-03", Close: 184.3},
	}
	written, err := repo.CreateIgnoreConflict(ctx, bars)
	require.NoError(t, err)
	assert.Equal(t, int64(2), written)

	// A re-fetch of an overlapping window writes only the new date.
	overlap := []entity.PriceBar{
		{TickerID: 1, TradingDate: "2024-01-03", Close: 999.0},
		{TickerID: 1, TradingDate: "2024-01-04", Close: 183.1},
	}
	written, err = repo.CreateIgnoreConflict(ctx, overlap)
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	exists, err := repo.Exists(ctx, 1, "2024-01-03")
	require.NoError(t, err)
	assert.True(t, exists)

	// First write wins: the overlapping close was not updated.
	var stored entity.PriceBar
	require.NoError(t, db.Where("ticker_id = ? AND trading_date = ?", 1, "2024-01-03").First(&stored).Error)
	assert.Equal(t, 184.3, stored.Close)
}

func TestDividendRepositoryFirstWriteWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewDividendRepository(db)
	ctx := context.Background()

	written, err := repo.CreateIgnoreConflict(ctx, []entity.DividendEvent{
		{TickerID: 1, ExDate: "2024-01-02", Amount: 0.22},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	// A provider correction for the same ex-date is skipped.
	written, err = repo.CreateIgnoreConflict(ctx, []entity.DividendEvent{
		{TickerID: 1, ExDate: "2024-01-02", Amount: 0.23},
	})
	require.NoError(t, err)
	assert.Zero(t, written)

	var stored entity.DividendEvent
	require.NoError(t, db.Where("ticker_id = ? AND ex_date = ?", 1, "2024-01-02").First(&stored).Error)
	assert.Equal(t, 0.22, stored.Amount)
}

func TestInsiderTransactionRepositoryNaturalKey(t *testing.T) {
	repo := NewInsiderTransactionRepository(newTestDB(t))
	ctx := context.Background()

	tx := entity.InsiderTransaction{
		TickerID: 1, FilerName: "Jane Doe",
		FilingDate: "2024-02-01", TransactionDate: "2024-01-30", TransactionCode: "S",
	}
	written, err := repo.CreateIgnoreConflict(ctx, []entity.InsiderTransaction{tx})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	// Same filing under a respelled name hits the same key.
	respelled := tx
	respelled.FilerName = "DOE JANE"
	written, err = repo.CreateIgnoreConflict(ctx, []entity.InsiderTransaction{respelled})
	require.NoError(t, err)
	assert.Zero(t, written)

	exists, err := repo.Exists(ctx, 1, "2024-02-01", "2024-01-30", "S")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNewsRepositoryCreateIgnoreConflict(t *testing.T) {
	repo := NewNewsRepository(newTestDB(t))
	ctx := context.Background()

	item := &entity.NewsItem{URL: "https://example.com/a", Title: "Apple ships"}
	created, err := repo.CreateIgnoreConflict(ctx, item)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, item.ID)

	// The same URL from another ticker's sweep resolves to the stored ID.
	dup := &entity.NewsItem{URL: "https://example.com/a", Title: "Apple ships"}
	created, err = repo.CreateIgnoreConflict(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, dup.ID)

	exists, err := repo.ExistsByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByURL(ctx, "https://example.com/missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestNewsRepositorySentimentScores(t *testing.T) {
	repo := NewNewsRepository(newTestDB(t))
	ctx := context.Background()

	item := &entity.NewsItem{URL: "https://example.com/a", Title: "Apple ships"}
	_, err := repo.CreateIgnoreConflict(ctx, item)
	require.NoError(t, err)

	written, err := repo.CreateSentimentsIgnoreConflict(ctx, []entity.SentimentScore{
		{NewsItemID: item.ID, TickerID: 1, Score: 0.6},
		{NewsItemID: item.ID, TickerID: 2, Score: 0.4},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), written)

	// Re-inserting one of the pairs is a no-op.
	written, err = repo.CreateSentimentsIgnoreConflict(ctx, []entity.SentimentScore{
		{NewsItemID: item.ID, TickerID: 1, Score: 0.9},
	})
	require.NoError(t, err)
	assert.Zero(t, written)

	exists, err := repo.SentimentExists(ctx, item.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SentimentExistsByURL(ctx, "https://example.com/a", 2)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SentimentExistsByURL(ctx, "https://example.com/a", 3)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIngestionRunRepository(t *testing.T) {
	repo := NewIngestionRunRepository(newTestDB(t))
	ctx := context.Background()

	latest, err := repo.FindLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, repo.Create(ctx, &entity.IngestionRun{Status: entity.RunStatusCompleted, Summary: "{}"}))
	require.NoError(t, repo.Create(ctx, &entity.IngestionRun{Status: entity.RunStatusPartial, Summary: "{}"}))

	latest, err = repo.FindLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, entity.RunStatusPartial, latest.Status)

	recent, err := repo.FindRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, entity.RunStatusPartial, recent[0].Status)
}
