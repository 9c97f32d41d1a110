package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/config"
	"equity-ingestor/internal/ingestor/dto"
	"equity-ingestor/pkg/logger"

	"golang.org/x/time/rate"
)

// YahooFinanceRepository calls the Yahoo Finance v8 chart API for daily
// bars and dividend events.
type YahooFinanceRepository interface {
	GetDailyChart(ctx context.Context, symbol string, withDividends bool) (*dto.YahooChartResult, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a chart API client with a per-credential
// request limiter.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	maxPerMinute := cfg.YahooFinance.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &yahooFinanceRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: requestTimeout(cfg)},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) GetDailyChart(ctx context.Context, symbol string, withDividends bool) (*dto.YahooChartResult, error) {
	kind := entity.KindPriceBar
	if withDividends {
		kind = entity.KindDividendEvent
	}

	chartRange := r.cfg.YahooFinance.Range
	if chartRange == "" {
		chartRange = "6mo"
	}

	params := url.Values{}
	params.Set("range", chartRange)
	params.Set("interval", "1d")
	if withDividends {
		params.Set("events", "div")
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), params.Encode())

	body, err := r.sendRequest(ctx, kind, endpoint)
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, dto.NewProviderError("yahoo_finance", kind, fmt.Errorf("failed to decode chart response: %w", err))
	}

	// Yahoo reports symbol-level failures inside a 200 body.
	if response.Chart.Error != nil {
		return nil, dto.NewProviderStatusError("yahoo_finance", kind, http.StatusOK,
			fmt.Errorf("chart error %s: %s", response.Chart.Error.Code, response.Chart.Error.Description))
	}

	if len(response.Chart.Result) == 0 {
		return nil, dto.NewProviderError("yahoo_finance", kind, fmt.Errorf("empty chart result for %s", symbol))
	}

	return &response.Chart.Result[0], nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, kind entity.DataKind, endpoint string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, dto.NewProviderError("yahoo_finance", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dto.NewProviderError("yahoo_finance", kind, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API",
			logger.StringField("url", endpoint), logger.ErrorField(err))
		return nil, dto.NewProviderError("yahoo_finance", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API",
			logger.StringField("url", endpoint), logger.IntField("status_code", resp.StatusCode))
		return nil, dto.NewProviderStatusError("yahoo_finance", kind, resp.StatusCode,
			fmt.Errorf("unexpected status"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dto.NewProviderError("yahoo_finance", kind, err)
	}

	return body, nil
}

// requestTimeout parses the shared provider timeout; a fetch exceeding it is
// treated identically to any other provider failure.
func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Ingestion.RequestTimeout != "" {
		if d, err := time.ParseDuration(cfg.Ingestion.RequestTimeout); err == nil {
			return d
		}
	}
	return 10 * time.Second
}
