package config

import (
	"equity-ingestor/pkg/config"

	"equity-ingestor/internal/entity"
)

// Ingestion holds pipeline-level settings: the tracked ticker list and the
// per-kind row limits applied to every provider fetch.
type Ingestion struct {
	Tickers         []string `mapstructure:"tickers"`
	PriceBarLimit   int      `mapstructure:"price_bar_limit"`
	DividendLimit   int      `mapstructure:"dividend_limit"`
	InsiderLimit    int      `mapstructure:"insider_limit"`
	NewsLimit       int      `mapstructure:"news_limit"`
	CronSchedule    string   `mapstructure:"cron_schedule"`
	RequestTimeout  string   `mapstructure:"request_timeout"`
}

// LimitFor returns the configured row limit for a fetch kind, falling back to
// the defaults the pipeline has always used.
func (i Ingestion) LimitFor(kind entity.DataKind) int {
	switch kind {
	case entity.KindPriceBar:
		if i.PriceBarLimit > 0 {
			return i.PriceBarLimit
		}
		return 7
	case entity.KindDividendEvent:
		if i.DividendLimit > 0 {
			return i.DividendLimit
		}
		return 25
	case entity.KindInsiderTransaction:
		if i.InsiderLimit > 0 {
			return i.InsiderLimit
		}
		return 7
	case entity.KindNewsItem:
		if i.NewsLimit > 0 {
			return i.NewsLimit
		}
		return 25
	default:
		return 25
	}
}

// YahooFinance holds the configuration for the Yahoo Finance chart API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	Range               string `mapstructure:"range"`
}

// Finnhub holds the configuration for the Finnhub API.
type Finnhub struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Marketaux holds the configuration for the Marketaux news API.
type Marketaux struct {
	BaseURL             string `mapstructure:"base_url"`
	APIToken            string `mapstructure:"api_token"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	PageSize            int    `mapstructure:"page_size"`
}

// Telegram holds configuration for the post-run summary notification.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the ingestion service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Ingestion    Ingestion       `mapstructure:"ingestion"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Finnhub      Finnhub         `mapstructure:"finnhub"`
	Marketaux    Marketaux       `mapstructure:"marketaux"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the ingestion service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
