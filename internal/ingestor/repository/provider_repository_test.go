package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"equity-ingestor/internal/ingestor/config"
	"equity-ingestor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func providerConfig(baseURL string) *config.Config {
	return &config.Config{
		Ingestion:    config.Ingestion{RequestTimeout: "2s"},
		YahooFinance: config.YahooFinance{BaseURL: baseURL, MaxRequestPerMinute: 6000, Range: "6mo"},
		Finnhub:      config.Finnhub{BaseURL: baseURL, APIKey: "test-key", MaxRequestPerMinute: 6000},
		Marketaux:    config.Marketaux{BaseURL: baseURL, APIToken: "test-token", MaxRequestPerMinute: 6000, PageSize: 3},
	}
}

func TestYahooFinanceRepositoryGetDailyChart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "6mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Empty(t, r.URL.Query().Get("events"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[{
			"meta":{"currency":"USD","symbol":"AAPL"},
			"timestamp":[1704153600],
			"indicators":{"quote":[{"open":[185.0],"close":[185.6],"high":[186.1],"low":[184.9]}]}
		}],"error":null}}`))
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(providerConfig(server.URL), testLogger(t))
	result, err := repo.GetDailyChart(context.Background(), "AAPL", false)
	require.NoError(t, err)
	require.Len(t, result.Timestamp, 1)
	require.Len(t, result.Indicators.Quote, 1)
	assert.Equal(t, 185.6, *result.Indicators.Quote[0].Close[0])
}

func TestYahooFinanceRepositoryRequestsDividendEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "div", r.URL.Query().Get("events"))
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[],
			"indicators":{"quote":[{}]},
			"events":{"dividends":{"1704153600":{"amount":0.22,"date":1704153600}}}
		}],"error":null}}`))
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(providerConfig(server.URL), testLogger(t))
	result, err := repo.GetDailyChart(context.Background(), "AAPL", true)
	require.NoError(t, err)
	require.NotNil(t, result.Events)
	assert.Equal(t, 0.22, result.Events.Dividends["1704153600"].Amount)
}

func TestYahooFinanceRepositoryEmbeddedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(providerConfig(server.URL), testLogger(t))
	_, err := repo.GetDailyChart(context.Background(), "NOPE", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestYahooFinanceRepositoryHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewYahooFinanceRepository(providerConfig(server.URL), testLogger(t))
	_, err := repo.GetDailyChart(context.Background(), "AAPL", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFinnhubRepositoryGetInsiderTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stock/insider-transactions", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		assert.Equal(t, "7", r.URL.Query().Get("limit"))

		w.Write([]byte(`{"symbol":"AAPL","data":[
			{"name":"Jane Doe","share":1200,"change":-300,"filingDate":"2024-02-01",
			 "transactionDate":"2024-01-30","transactionCode":"S","transactionPrice":187.5}
		]}`))
	}))
	defer server.Close()

	repo := NewFinnhubRepository(providerConfig(server.URL), testLogger(t))
	rows, err := repo.GetInsiderTransactions(context.Background(), "AAPL", 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Name)
	assert.Equal(t, int64(-300), rows[0].Change)
	assert.Equal(t, "2024-02-01", rows[0].FilingDate)
}

func TestFinnhubRepositoryEmbeddedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":"Invalid API key."}`))
	}))
	defer server.Close()

	repo := NewFinnhubRepository(providerConfig(server.URL), testLogger(t))
	_, err := repo.GetInsiderTransactions(context.Background(), "AAPL", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestMarketauxRepositoryGetNewsPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/news/all", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("api_token"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "true", r.URL.Query().Get("filter_entities"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		w.Write([]byte(`{"meta":{"found":10,"returned":1,"limit":3,"page":2},"data":[
			{"uuid":"u1","title":"Apple ships","url":"https://example.com/a",
			 "source":"example.com","published_at":"2024-03-01T09:30:00Z",
			 "entities":[{"symbol":"AAPL","sentiment_score":0.61}]}
		]}`))
	}))
	defer server.Close()

	repo := NewMarketauxRepository(providerConfig(server.URL), testLogger(t))
	articles, err := repo.GetNewsPage(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://example.com/a", articles[0].URL)
	require.Len(t, articles[0].Entities, 1)
	assert.Equal(t, 0.61, articles[0].Entities[0].SentimentScore)
}

func TestMarketauxRepositoryEmbeddedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":{"code":"usage_limit_reached","message":"You have reached your usage limit."}}`))
	}))
	defer server.Close()

	repo := NewMarketauxRepository(providerConfig(server.URL), testLogger(t))
	_, err := repo.GetNewsPage(context.Background(), "AAPL", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage_limit_reached")
}
