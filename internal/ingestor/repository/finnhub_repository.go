package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/config"
	"equity-ingestor/internal/ingestor/dto"
	"equity-ingestor/pkg/logger"

	"golang.org/x/time/rate"
)

// FinnhubRepository calls the Finnhub insider-transactions endpoint.
type FinnhubRepository interface {
	GetInsiderTransactions(ctx context.Context, symbol string, limit int) ([]dto.FinnhubInsiderRow, error)
}

type finnhubRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFinnhubRepository creates a Finnhub client with a per-credential
// request limiter.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) FinnhubRepository {
	maxPerMinute := cfg.Finnhub.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &finnhubRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: requestTimeout(cfg)},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *finnhubRepository) GetInsiderTransactions(ctx context.Context, symbol string, limit int) ([]dto.FinnhubInsiderRow, error) {
	const kind = entity.KindInsiderTransaction

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", r.cfg.Finnhub.APIKey)
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/api/v1/stock/insider-transactions?%s",
		r.cfg.Finnhub.BaseURL, params.Encode())

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, dto.NewProviderError("finnhub", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dto.NewProviderError("finnhub", kind, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Finnhub API",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, dto.NewProviderError("finnhub", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Finnhub API",
			logger.StringField("symbol", symbol), logger.IntField("status_code", resp.StatusCode))
		return nil, dto.NewProviderStatusError("finnhub", kind, resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dto.NewProviderError("finnhub", kind, err)
	}

	var response dto.FinnhubInsiderResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, dto.NewProviderError("finnhub", kind, fmt.Errorf("failed to decode insider response: %w", err))
	}

	// Finnhub embeds auth and quota failures in a 200 body.
	if response.Error != "" {
		return nil, dto.NewProviderStatusError("finnhub", kind, http.StatusOK, fmt.Errorf("%s", response.Error))
	}

	return response.Data, nil
}
