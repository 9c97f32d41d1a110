package adapter

import (
	"context"
	"sort"
	"strconv"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"
	"equity-ingestor/pkg/utils"
)

// YahooDividendAdapter maps the chart API's dividend events onto
// DividendEvent records, with a paired DividendFrequency record whenever the
// payload carries cadence metadata.
type YahooDividendAdapter struct {
	repo repository.YahooFinanceRepository
	log  *logger.Logger
}

// NewYahooDividendAdapter creates a new instance of YahooDividendAdapter.
func NewYahooDividendAdapter(repo repository.YahooFinanceRepository, log *logger.Logger) *YahooDividendAdapter {
	return &YahooDividendAdapter{repo: repo, log: log}
}

func (a *YahooDividendAdapter) Name() string {
	return "yahoo_finance"
}

func (a *YahooDividendAdapter) Kind() entity.DataKind {
	return entity.KindDividendEvent
}

func (a *YahooDividendAdapter) Fetch(ctx context.Context, ticker *entity.Ticker, limit int) ([]entity.Record, error) {
	chart, err := a.repo.GetDailyChart(ctx, ticker.Symbol, true)
	if err != nil {
		return nil, err
	}

	if chart.Events == nil || len(chart.Events.Dividends) == 0 {
		return nil, nil
	}

	// The dividends map is keyed by ex-date timestamp; sort for a stable
	// yield order before applying the limit.
	keys := make([]string, 0, len(chart.Events.Dividends))
	for k := range chart.Events.Dividends {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]struct{})
	records := make([]entity.Record, 0, limit)
	produced := 0

	for _, k := range keys {
		if produced >= limit {
			break
		}
		div := chart.Events.Dividends[k]

		ts := div.Date
		if ts == 0 {
			// Older API versions only carry the date in the map key.
			parsed, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				a.log.WarnContext(ctx, "Dropping dividend row without ex-date",
					logger.StringField("symbol", ticker.Symbol))
				continue
			}
			ts = parsed
		}

		event := &entity.DividendEvent{
			TickerID: ticker.ID,
			ExDate:   utils.CanonicalDateFromUnix(ts),
			Amount:   div.Amount,
		}

		key := event.NaturalKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, event)
		produced++

		if div.Frequency != "" || div.Class != "" {
			records = append(records, &entity.DividendFrequency{
				TickerID:      ticker.ID,
				ExDate:        event.ExDate,
				Periodicity:   div.Frequency,
				DividendClass: div.Class,
			})
		}
	}

	return records, nil
}
