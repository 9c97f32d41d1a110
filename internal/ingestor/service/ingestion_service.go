package service

import (
	"context"
	"encoding/json"
	"time"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/adapter"
	"equity-ingestor/internal/ingestor/config"
	"equity-ingestor/internal/ingestor/dto"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/pkg/common"
	"equity-ingestor/pkg/logger"
	"equity-ingestor/pkg/telegram"

	"github.com/redis/go-redis/v9"
)

// IngestionService orchestrates one pipeline execution: for each ticker it
// invokes every provider adapter in a fixed kind order, routes the output
// through the dedup gate, and hands survivors to the persistence writer.
type IngestionService interface {
	Run(ctx context.Context) (*dto.RunSummary, error)
}

// NewIngestionService creates a new IngestionService. redisClient and
// notifier are optional; when nil the corresponding summary publication is
// skipped.
func NewIngestionService(
	cfg *config.Config,
	log *logger.Logger,
	adapters []adapter.ProviderAdapter,
	tickersRepo repository.TickersRepository,
	priceBarRepo repository.PriceBarRepository,
	dividendRepo repository.DividendRepository,
	frequencyRepo repository.DividendFrequencyRepository,
	insiderRepo repository.InsiderTransactionRepository,
	newsRepo repository.NewsRepository,
	runRepo repository.IngestionRunRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
) IngestionService {
	return &ingestionService{
		cfg:           cfg,
		log:           log,
		adapters:      adapters,
		tickersRepo:   tickersRepo,
		priceBarRepo:  priceBarRepo,
		dividendRepo:  dividendRepo,
		frequencyRepo: frequencyRepo,
		insiderRepo:   insiderRepo,
		newsRepo:      newsRepo,
		runRepo:       runRepo,
		redisClient:   redisClient,
		notifier:      notifier,
		writer:        NewPersistenceWriter(priceBarRepo, dividendRepo, frequencyRepo, insiderRepo, newsRepo, log),
	}
}

type ingestionService struct {
	cfg           *config.Config
	log           *logger.Logger
	adapters      []adapter.ProviderAdapter
	tickersRepo   repository.TickersRepository
	priceBarRepo  repository.PriceBarRepository
	dividendRepo  repository.DividendRepository
	frequencyRepo repository.DividendFrequencyRepository
	insiderRepo   repository.InsiderTransactionRepository
	newsRepo      repository.NewsRepository
	runRepo       repository.IngestionRunRepository
	redisClient   *redis.Client
	notifier      telegram.Notifier
	writer        *PersistenceWriter
}

// Run executes one full ingestion pass. Provider failures are contained at
// the (ticker, kind) level and surface only as FAILED statuses in the
// returned summary; the error return is reserved for summary bookkeeping
// problems.
func (s *ingestionService) Run(ctx context.Context) (*dto.RunSummary, error) {
	// The in-run dedup tier lives exactly as long as one execution.
	gate := NewDedupGate(s.priceBarRepo, s.dividendRepo, s.frequencyRepo, s.insiderRepo, s.newsRepo, s.log)

	summary := &dto.RunSummary{StartedAt: time.Now().UTC()}

	for _, symbol := range s.tickerSymbols() {
		summary.Tickers = append(summary.Tickers, s.ingestTicker(ctx, symbol, gate))
	}

	summary.FinishedAt = time.Now().UTC()

	s.log.Info("Ingestion run finished",
		logger.StringField("status", summary.Status()),
		logger.IntField("fetched", summary.TotalFetched()),
		logger.IntField("admitted", summary.TotalAdmitted()),
		logger.IntField("failed_kinds", summary.FailedKinds()))

	s.recordRun(ctx, summary)
	return summary, nil
}

// ingestTicker walks one ticker through the per-kind fetch cycle, the gate,
// and a single persistence pass.
func (s *ingestionService) ingestTicker(ctx context.Context, symbol string, gate *DedupGate) *dto.TickerSummary {
	ts := dto.NewTickerSummary(symbol)

	ticker, err := s.tickersRepo.GetOrCreate(ctx, symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to resolve ticker",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		for _, kind := range entity.FetchKinds {
			kc := ts.Kind(kind)
			kc.Status = entity.KindStatusFailed
			kc.Error = err.Error()
		}
		return ts
	}

	batch := NewTickerBatch(ticker)

	for _, ad := range s.adapters {
		kc := ts.Kind(ad.Kind())

		records, err := ad.Fetch(ctx, ticker, s.cfg.Ingestion.LimitFor(ad.Kind()))
		if err != nil {
			// One provider outage must not abort the remaining kinds.
			kc.Status = entity.KindStatusFailed
			kc.Error = err.Error()
			s.log.ErrorContext(ctx, "Provider fetch failed",
				logger.StringField("symbol", symbol),
				logger.StringField("provider", ad.Name()),
				logger.StringField("kind", string(ad.Kind())),
				logger.ErrorField(err))
			continue
		}
		kc.Status = entity.KindStatusFetched

		for _, rec := range records {
			rkc := ts.Kind(rec.Kind())
			if rkc.Status == entity.KindStatusPending {
				rkc.Status = entity.KindStatusFetched
			}
			rkc.Fetched++

			admitted, err := gate.Admit(ctx, rec)
			if err != nil {
				rkc.Status = entity.KindStatusFailed
				rkc.Error = err.Error()
				s.log.ErrorContext(ctx, "Dedup lookup failed",
					logger.StringField("symbol", symbol), logger.ErrorField(err))
				continue
			}
			if !admitted {
				rkc.Skipped++
				continue
			}
			rkc.Admitted++
			batch.Add(rec)
		}
	}

	s.writer.Write(ctx, batch, ts)

	for kind, kc := range ts.Kinds {
		s.log.Info("Ticker kind ingested",
			logger.StringField("symbol", symbol),
			logger.StringField("kind", string(kind)),
			logger.IntField("fetched", kc.Fetched),
			logger.IntField("admitted", kc.Admitted),
			logger.IntField("persisted", kc.Persisted),
			logger.StringField("status", kc.Status))
	}

	return ts
}

func (s *ingestionService) tickerSymbols() []string {
	if len(s.cfg.Ingestion.Tickers) > 0 {
		return s.cfg.Ingestion.Tickers
	}
	return []string{"AAPL", "GOOGL", "MSFT", "TSLA"}
}

// recordRun persists the summary and publishes it to the optional
// observability sinks. All of this is best-effort; a sink failure never
// fails the run.
func (s *ingestionService) recordRun(ctx context.Context, summary *dto.RunSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		s.log.Error("Failed to marshal run summary", logger.ErrorField(err))
		return
	}

	run := &entity.IngestionRun{
		Status:     summary.Status(),
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Summary:    string(payload),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.log.Error("Failed to persist ingestion run", logger.ErrorField(err))
	}

	if s.redisClient != nil {
		err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: common.RedisStreamIngestionRunCompleted,
			MaxLen: common.RedisStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"status":  summary.Status(),
				"summary": string(payload),
			},
		}).Err()
		if err != nil {
			s.log.Error("Failed to publish run summary to stream", logger.ErrorField(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendMessage(telegram.FormatRunSummary(summary)); err != nil {
			s.log.Error("Failed to send run summary notification", logger.ErrorField(err))
		}
	}
}
