package service

import (
	"path/filepath"
	"testing"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testRepos struct {
	db        *gorm.DB
	tickers   repository.TickersRepository
	priceBars repository.PriceBarRepository
	dividends repository.DividendRepository
	freqs     repository.DividendFrequencyRepository
	insiders  repository.InsiderTransactionRepository
	news      repository.NewsRepository
	runs      repository.IngestionRunRepository
}

func newTestRepos(t *testing.T) *testRepos {
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
	return &testRepos{
		db:        db,
		tickers:   repository.NewTickersRepository(db),
		priceBars: repository.NewPriceBarRepository(db),
		dividends: repository.NewDividendRepository(db),
		freqs:     repository.NewDividendFrequencyRepository(db),
		insiders:  repository.NewInsiderTransactionRepository(db),
		news:      repository.NewNewsRepository(db),
		runs:      repository.NewIngestionRunRepository(db),
	}
}

func (r *testRepos) newGate(t *testing.T) *DedupGate {
	t.Helper()
	return NewDedupGate(r.priceBars, r.dividends, r.freqs, r.insiders, r.news, testLogger(t))
}

func (r *testRepos) newWriter(t *testing.T) *PersistenceWriter {
	t.Helper()
	return NewPersistenceWriter(r.priceBars, r.dividends, r.freqs, r.insiders, r.news, testLogger(t))
}

func (r *testRepos) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, r.db.Model(model).Count(&count).Error)
	return count
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}
