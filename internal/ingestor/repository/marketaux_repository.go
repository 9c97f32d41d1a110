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

// MarketauxRepository calls the Marketaux news API one page at a time; the
// news adapter drives the page loop.
type MarketauxRepository interface {
	GetNewsPage(ctx context.Context, symbol string, page int) ([]dto.MarketauxArticle, error)
}

type marketauxRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewMarketauxRepository creates a Marketaux client with a per-credential
// request limiter.
func NewMarketauxRepository(cfg *config.Config, log *logger.Logger) MarketauxRepository {
	maxPerMinute := cfg.Marketaux.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &marketauxRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: requestTimeout(cfg)},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *marketauxRepository) GetNewsPage(ctx context.Context, symbol string, page int) ([]dto.MarketauxArticle, error) {
	const kind = entity.KindNewsItem

	pageSize := r.cfg.Marketaux.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	params := url.Values{}
	params.Set("api_token", r.cfg.Marketaux.APIToken)
	params.Set("symbols", symbol)
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("language", "en")
	params.Set("filter_entities", "true")
	params.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/v1/news/all?%s", r.cfg.Marketaux.BaseURL, params.Encode())

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, dto.NewProviderError("marketaux", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, dto.NewProviderError("marketaux", kind, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Marketaux API",
			logger.StringField("symbol", symbol), logger.IntField("page", page), logger.ErrorField(err))
		return nil, dto.NewProviderError("marketaux", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Marketaux API",
			logger.StringField("symbol", symbol), logger.IntField("status_code", resp.StatusCode))
		return nil, dto.NewProviderStatusError("marketaux", kind, resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dto.NewProviderError("marketaux", kind, err)
	}

	var response dto.MarketauxNewsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, dto.NewProviderError("marketaux", kind, fmt.Errorf("failed to decode news response: %w", err))
	}

	// Marketaux reports quota and auth failures inside a 200 body.
	if response.Error != nil {
		return nil, dto.NewProviderStatusError("marketaux", kind, http.StatusOK,
			fmt.Errorf("api error %s: %s", response.Error.Code, response.Error.Message))
	}

	return response.Data, nil
}
