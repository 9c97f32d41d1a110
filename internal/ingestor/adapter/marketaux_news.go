package adapter

import (
	"context"
	"strings"
	"time"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/dto"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"
)

// MarketauxNewsAdapter maps Marketaux articles onto NewsItem records plus one
// SentimentScore per (article, ticker) pair. It owns the page loop: the
// provider paginates with unstable sort order, so the in-call seen-set is
// what actually terminates a sweep against a misbehaving endpoint.
type MarketauxNewsAdapter struct {
	repo repository.MarketauxRepository
	log  *logger.Logger
}

// NewMarketauxNewsAdapter creates a new instance of MarketauxNewsAdapter.
func NewMarketauxNewsAdapter(repo repository.MarketauxRepository, log *logger.Logger) *MarketauxNewsAdapter {
	return &MarketauxNewsAdapter{repo: repo, log: log}
}

func (a *MarketauxNewsAdapter) Name() string {
	return "marketaux"
}

func (a *MarketauxNewsAdapter) Kind() entity.DataKind {
	return entity.KindNewsItem
}

func (a *MarketauxNewsAdapter) Fetch(ctx context.Context, ticker *entity.Ticker, limit int) ([]entity.Record, error) {
	seen := make(map[string]struct{})
	records := make([]entity.Record, 0, limit)
	articles := 0

	for page := 1; articles < limit; page++ {
		pageData, err := a.repo.GetNewsPage(ctx, ticker.Symbol, page)
		if err != nil {
			return nil, err
		}
		if len(pageData) == 0 {
			break
		}

		grew := false
		for _, article := range pageData {
			if articles >= limit {
				break
			}

			if article.URL == "" {
				a.log.WarnContext(ctx, "Dropping article without URL",
					logger.StringField("symbol", ticker.Symbol),
					logger.StringField("title", article.Title))
				continue
			}

			item := &entity.NewsItem{
				URL:         article.URL,
				Title:       article.Title,
				Source:      article.Source,
				Topics:      entitySymbols(article.Entities),
				PublishedAt: parsePublishedAt(article.PublishedAt),
			}

			key := item.NaturalKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			grew = true
			records = append(records, item)
			articles++

			score := &entity.SentimentScore{
				TickerID: ticker.ID,
				Score:    sentimentFor(ticker.Symbol, article.Entities),
				NewsURL:  article.URL,
			}
			scoreKey := score.NaturalKey()
			if _, ok := seen[scoreKey]; !ok {
				seen[scoreKey] = struct{}{}
				records = append(records, score)
			}
		}

		// A full page of already-seen rows means the provider is re-serving
		// the same window; stop instead of paging forever.
		if !grew {
			break
		}
	}

	return records, nil
}

// sentimentFor returns the provider's sentiment for the requested symbol,
// falling back to the average across all tagged entities when the symbol has
// no dedicated score. Values are clamped to [-1, 1].
func sentimentFor(symbol string, entities []dto.MarketauxEntity) float64 {
	var sum float64
	var count int
	for _, e := range entities {
		if strings.EqualFold(e.Symbol, symbol) {
			return clampScore(e.SentimentScore)
		}
		sum += e.SentimentScore
		count++
	}
	if count == 0 {
		return 0
	}
	return clampScore(sum / float64(count))
}

func clampScore(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func entitySymbols(entities []dto.MarketauxEntity) string {
	symbols := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Symbol != "" {
			symbols = append(symbols, e.Symbol)
		}
	}
	return strings.Join(symbols, ", ")
}

func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
