package adapter

import (
	"context"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"
	"equity-ingestor/pkg/utils"
)

// YahooPriceAdapter maps the Yahoo Finance chart response onto PriceBar
// records.
type YahooPriceAdapter struct {
	repo repository.YahooFinanceRepository
	log  *logger.Logger
}

// NewYahooPriceAdapter creates a new instance of YahooPriceAdapter.
func NewYahooPriceAdapter(repo repository.YahooFinanceRepository, log *logger.Logger) *YahooPriceAdapter {
	return &YahooPriceAdapter{repo: repo, log: log}
}

func (a *YahooPriceAdapter) Name() string {
	return "yahoo_finance"
}

func (a *YahooPriceAdapter) Kind() entity.DataKind {
	return entity.KindPriceBar
}

func (a *YahooPriceAdapter) Fetch(ctx context.Context, ticker *entity.Ticker, limit int) ([]entity.Record, error) {
	chart, err := a.repo.GetDailyChart(ctx, ticker.Symbol, false)
	if err != nil {
		return nil, err
	}

	if len(chart.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := chart.Indicators.Quote[0]

	seen := make(map[string]struct{})
	records := make([]entity.Record, 0, limit)

	for i, ts := range chart.Timestamp {
		if len(records) >= limit {
			break
		}

		open := quoteValue(quote.Open, i)
		closePrice := quoteValue(quote.Close, i)
		high := quoteValue(quote.High, i)
		low := quoteValue(quote.Low, i)

		// A session with no quote at all (halted or provider gap) has no
		// usable bar; drop it rather than store zeros.
		if open == nil && closePrice == nil && high == nil && low == nil {
			a.log.WarnContext(ctx, "Dropping price row without quote values",
				logger.StringField("symbol", ticker.Symbol),
				logger.StringField("trading_date", utils.CanonicalDateFromUnix(ts)))
			continue
		}

		bar := &entity.PriceBar{
			TickerID:    ticker.ID,
			TradingDate: utils.CanonicalDateFromUnix(ts),
			Open:        deref(open),
			Close:       deref(closePrice),
			High:        deref(high),
			Low:         deref(low),
		}

		key := bar.NaturalKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, bar)
	}

	return records, nil
}

func quoteValue(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
