package service

import (
	"context"
	"errors"
	"strings"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/dto"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TickerBatch collects everything admitted for one ticker across all kinds;
// it is flushed as one unit once every kind has been attempted.
type TickerBatch struct {
	Ticker              *entity.Ticker
	PriceBars           []entity.PriceBar
	DividendEvents      []entity.DividendEvent
	DividendFrequencies []entity.DividendFrequency
	InsiderTransactions []entity.InsiderTransaction
	NewsItems           []entity.NewsItem
	SentimentScores     []entity.SentimentScore
}

// NewTickerBatch creates an empty batch for a ticker.
func NewTickerBatch(ticker *entity.Ticker) *TickerBatch {
	return &TickerBatch{Ticker: ticker}
}

// Add routes an admitted record into its kind's slice.
func (b *TickerBatch) Add(rec entity.Record) {
	switch r := rec.(type) {
	case *entity.PriceBar:
		b.PriceBars = append(b.PriceBars, *r)
	case *entity.DividendEvent:
		b.DividendEvents = append(b.DividendEvents, *r)
	case *entity.DividendFrequency:
		b.DividendFrequencies = append(b.DividendFrequencies, *r)
	case *entity.InsiderTransaction:
		b.InsiderTransactions = append(b.InsiderTransactions, *r)
	case *entity.NewsItem:
		b.NewsItems = append(b.NewsItems, *r)
	case *entity.SentimentScore:
		b.SentimentScores = append(b.SentimentScores, *r)
	}
}

// PersistenceWriter commits ticker batches under an insert-if-absent
// discipline. Each kind is written in its own statement so one kind's
// failure never blocks the kinds that already succeeded, and the natural-key
// unique constraints make repeated partial writes safe to retry.
type PersistenceWriter struct {
	priceBars   repository.PriceBarRepository
	dividends   repository.DividendRepository
	frequencies repository.DividendFrequencyRepository
	insiders    repository.InsiderTransactionRepository
	news        repository.NewsRepository
	log         *logger.Logger
}

// NewPersistenceWriter creates a new instance of PersistenceWriter.
func NewPersistenceWriter(
	priceBars repository.PriceBarRepository,
	dividends repository.DividendRepository,
	frequencies repository.DividendFrequencyRepository,
	insiders repository.InsiderTransactionRepository,
	news repository.NewsRepository,
	log *logger.Logger,
) *PersistenceWriter {
	return &PersistenceWriter{
		priceBars:   priceBars,
		dividends:   dividends,
		frequencies: frequencies,
		insiders:    insiders,
		news:        news,
		log:         log,
	}
}

// Write flushes one ticker's batch, recording per-kind persisted/skipped
// counts into the summary. Write errors mark the kind FAILED and move on.
func (w *PersistenceWriter) Write(ctx context.Context, batch *TickerBatch, summary *dto.TickerSummary) {
	w.writeKind(ctx, summary.Kind(entity.KindPriceBar), len(batch.PriceBars), func() (int64, error) {
		return w.priceBars.CreateIgnoreConflict(ctx, batch.PriceBars)
	})
	w.writeKind(ctx, summary.Kind(entity.KindDividendEvent), len(batch.DividendEvents), func() (int64, error) {
		return w.dividends.CreateIgnoreConflict(ctx, batch.DividendEvents)
	})
	w.writeKind(ctx, summary.Kind(entity.KindDividendFrequency), len(batch.DividendFrequencies), func() (int64, error) {
		return w.frequencies.CreateIgnoreConflict(ctx, batch.DividendFrequencies)
	})
	w.writeKind(ctx, summary.Kind(entity.KindInsiderTransaction), len(batch.InsiderTransactions), func() (int64, error) {
		return w.insiders.CreateIgnoreConflict(ctx, batch.InsiderTransactions)
	})
	w.writeNews(ctx, batch, summary)
}

func (w *PersistenceWriter) writeKind(ctx context.Context, kc *dto.KindCount, total int, write func() (int64, error)) {
	if total == 0 {
		return
	}

	written, err := write()
	if err != nil {
		if !isUniqueViolation(err) {
			kc.Status = entity.KindStatusFailed
			kc.Error = err.Error()
			w.log.ErrorContext(ctx, "Failed to persist batch", logger.ErrorField(err))
			return
		}
		// A constraint violation means the row is already present; the
		// gate was bypassed but the store held the line. Count as skipped.
		written = 0
	}

	kc.Persisted += int(written)
	kc.Skipped += total - int(written)
}

// writeNews persists articles before their dependent sentiment rows; a
// sentiment row is only written once its article has a persisted identity.
func (w *PersistenceWriter) writeNews(ctx context.Context, batch *TickerBatch, summary *dto.TickerSummary) {
	newsCount := summary.Kind(entity.KindNewsItem)
	idByURL := make(map[string]uint, len(batch.NewsItems))

	for i := range batch.NewsItems {
		item := &batch.NewsItems[i]
		created, err := w.news.CreateIgnoreConflict(ctx, item)
		if err != nil {
			if !isUniqueViolation(err) {
				newsCount.Status = entity.KindStatusFailed
				newsCount.Error = err.Error()
				w.log.ErrorContext(ctx, "Failed to persist news item",
					logger.StringField("url", item.URL), logger.ErrorField(err))
				continue
			}
			created = false
		}
		if item.ID != 0 {
			idByURL[item.URL] = item.ID
		}
		if created {
			newsCount.Persisted++
		} else {
			newsCount.Skipped++
		}
	}

	if len(batch.SentimentScores) == 0 {
		return
	}

	sentimentCount := summary.Kind(entity.KindSentimentScore)
	resolved := make([]entity.SentimentScore, 0, len(batch.SentimentScores))
	for _, score := range batch.SentimentScores {
		id, ok := idByURL[score.NewsURL]
		if !ok {
			existing, err := w.news.FindByURL(ctx, score.NewsURL)
			if err != nil || existing == nil {
				w.log.WarnContext(ctx, "Dropping sentiment score without persisted article",
					logger.StringField("url", score.NewsURL))
				sentimentCount.Skipped++
				continue
			}
			id = existing.ID
		}
		score.NewsItemID = id
		resolved = append(resolved, score)
	}

	written, err := w.news.CreateSentimentsIgnoreConflict(ctx, resolved)
	if err != nil {
		if !isUniqueViolation(err) {
			sentimentCount.Status = entity.KindStatusFailed
			sentimentCount.Error = err.Error()
			w.log.ErrorContext(ctx, "Failed to persist sentiment scores", logger.ErrorField(err))
			return
		}
		written = 0
	}
	sentimentCount.Persisted += int(written)
	sentimentCount.Skipped += len(resolved) - int(written)
}

// isUniqueViolation reports whether err is a natural-key constraint
// violation, across the Postgres and sqlite drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
