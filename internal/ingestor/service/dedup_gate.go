package service

import (
	"context"
	"fmt"
	"sync"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/logger"
)

// DedupGate decides whether a canonical record may proceed to persistence.
//
// Two tiers: an in-run set of already-admitted natural keys, then a point
// lookup against the store. A key is added to the in-run tier the moment its
// record is admitted — before the batched write lands — so a second
// occurrence later in the same run is rejected even while the first is still
// unflushed. One gate instance spans one pipeline execution.
type DedupGate struct {
	mu   sync.Mutex
	seen map[string]struct{}

	priceBars   repository.PriceBarRepository
	dividends   repository.DividendRepository
	frequencies repository.DividendFrequencyRepository
	insiders    repository.InsiderTransactionRepository
	news        repository.NewsRepository
	log         *logger.Logger
}

// NewDedupGate creates a gate with an empty in-run tier.
func NewDedupGate(
	priceBars repository.PriceBarRepository,
	dividends repository.DividendRepository,
	frequencies repository.DividendFrequencyRepository,
	insiders repository.InsiderTransactionRepository,
	news repository.NewsRepository,
	log *logger.Logger,
) *DedupGate {
	return &DedupGate{
		seen:        make(map[string]struct{}),
		priceBars:   priceBars,
		dividends:   dividends,
		frequencies: frequencies,
		insiders:    insiders,
		news:        news,
		log:         log,
	}
}

// Admit reports whether the record's natural key has been seen neither in
// this run nor in the store. The lock is held across the store lookup so
// concurrent admits of the same key cannot both succeed.
func (g *DedupGate) Admit(ctx context.Context, rec entity.Record) (bool, error) {
	key := rec.NaturalKey()

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		return false, nil
	}

	exists, err := g.existsInStore(ctx, rec)
	if err != nil {
		return false, err
	}

	// Persisted keys are cached in the in-run tier too, saving repeat
	// lookups when a provider re-serves the same window.
	g.seen[key] = struct{}{}
	return !exists, nil
}

// SeenCount returns the size of the in-run tier.
func (g *DedupGate) SeenCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

func (g *DedupGate) existsInStore(ctx context.Context, rec entity.Record) (bool, error) {
	switch r := rec.(type) {
	case *entity.PriceBar:
		return g.priceBars.Exists(ctx, r.TickerID, r.TradingDate)
	case *entity.DividendEvent:
		return g.dividends.Exists(ctx, r.TickerID, r.ExDate)
	case *entity.DividendFrequency:
		return g.frequencies.Exists(ctx, r.TickerID, r.ExDate)
	case *entity.InsiderTransaction:
		return g.insiders.Exists(ctx, r.TickerID, r.FilingDate, r.TransactionDate, r.TransactionCode)
	case *entity.NewsItem:
		return g.news.ExistsByURL(ctx, r.URL)
	case *entity.SentimentScore:
		return g.news.SentimentExistsByURL(ctx, r.NewsURL, r.TickerID)
	default:
		return false, fmt.Errorf("unsupported record kind: %s", rec.Kind())
	}
}
