package adapter

import (
	"context"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"
)

const (
	// unknownValue substitutes missing optional provider fields; rows missing
	// a required key field are dropped instead.
	unknownValue = "Unknown"
)

// FinnhubInsiderAdapter maps Finnhub insider filing rows onto
// InsiderTransaction records.
type FinnhubInsiderAdapter struct {
	repo repository.FinnhubRepository
	log  *logger.Logger
}

// NewFinnhubInsiderAdapter creates a new instance of FinnhubInsiderAdapter.
func NewFinnhubInsiderAdapter(repo repository.FinnhubRepository, log *logger.Logger) *FinnhubInsiderAdapter {
	return &FinnhubInsiderAdapter{repo: repo, log: log}
}

func (a *FinnhubInsiderAdapter) Name() string {
	return "finnhub"
}

func (a *FinnhubInsiderAdapter) Kind() entity.DataKind {
	return entity.KindInsiderTransaction
}

func (a *FinnhubInsiderAdapter) Fetch(ctx context.Context, ticker *entity.Ticker, limit int) ([]entity.Record, error) {
	rows, err := a.repo.GetInsiderTransactions(ctx, ticker.Symbol, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	records := make([]entity.Record, 0, limit)

	for _, row := range rows {
		if len(records) >= limit {
			break
		}

		// Filing date is part of the natural key; a row without one cannot
		// be deduplicated and is dropped, not defaulted.
		if row.FilingDate == "" {
			a.log.WarnContext(ctx, "Dropping insider row without filing date",
				logger.StringField("symbol", ticker.Symbol),
				logger.StringField("filer", row.Name))
			continue
		}

		tx := &entity.InsiderTransaction{
			TickerID:         ticker.ID,
			FilerName:        defaultString(row.Name, unknownValue),
			FilingDate:       row.FilingDate,
			TransactionDate:  defaultString(row.TransactionDate, unknownValue),
			TransactionCode:  defaultString(row.TransactionCode, unknownValue),
			ShareCount:       row.Share,
			ShareChange:      row.Change,
			TransactionPrice: row.TransactionPrice,
		}

		key := tx.NaturalKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, tx)
	}

	return records, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
