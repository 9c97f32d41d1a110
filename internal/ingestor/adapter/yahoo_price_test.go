package adapter

import (
	"context"
	"errors"
	"testing"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeYahooRepo struct {
	result *dto.YahooChartResult
	err    error
	calls  int
}

func (f *fakeYahooRepo) GetDailyChart(_ context.Context, _ string, _ bool) (*dto.YahooChartResult, error) {
	f.calls++
	return f.result, f.err
}

func chartResult(timestamps []int64, quote dto.YahooQuote) *dto.YahooChartResult {
	return &dto.YahooChartResult{
		Timestamp:  timestamps,
		Indicators: dto.YahooIndicators{Quote: []dto.YahooQuote{quote}},
	}
}

func TestYahooPriceAdapterMapsBars(t *testing.T) {
	// 2024-01-02 and 2024-01-03 UTC.
	repo := &fakeYahooRepo{result: chartResult(
		[]int64{1704153600, 1704240000},
		dto.YahooQuote{
			Open:  []*float64{fp(185.0), fp(184.2)},
			Close: []*float64{fp(185.6), fp(184.3)},
			High:  []*float64{fp(186.1), fp(185.0)},
			Low:   []*float64{fp(184.9), fp(183.9)},
		},
	)}
	adapter := NewYahooPriceAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 1, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)

	bar, ok := records[0].(*entity.PriceBar)
	require.True(t, ok)
	assert.Equal(t, uint(1), bar.TickerID)
	assert.Equal(t, "2024-01-02", bar.TradingDate)
	assert.Equal(t, 185.0, bar.Open)
	assert.Equal(t, 185.6, bar.Close)
	assert.Equal(t, 186.1, bar.High)
	assert.Equal(t, 184.9, bar.Low)

	second := records[1].(*entity.PriceBar)
	assert.Equal(t, "2024-01-03", second.TradingDate)
}

func TestYahooPriceAdapterAppliesLimit(t *testing.T) {
	timestamps := make([]int64, 10)
	opens := make([]*float64, 10)
	for i := range timestamps {
		timestamps[i] = 1704153600 + int64(i)*86400
		opens[i] = fp(100 + float64(i))
	}
	repo := &fakeYahooRepo{result: chartResult(timestamps, dto.YahooQuote{Open: opens})}
	adapter := NewYahooPriceAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 1, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestYahooPriceAdapterDropsQuotelessSessions(t *testing.T) {
	repo := &fakeYahooRepo{result: chartResult(
		[]int64{1704153600, 1704240000, 1704326400},
		dto.YahooQuote{
			Open:  []*float64{fp(185.0), nil, fp(183.0)},
			Close: []*float64{fp(185.6), nil, fp(183.4)},
			High:  []*float64{fp(186.1), nil, fp(184.0)},
			Low:   []*float64{fp(184.9), nil, fp(182.8)},
		},
	)}
	adapter := NewYahooPriceAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 1, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-02", records[0].(*entity.PriceBar).TradingDate)
	assert.Equal(t, "2024-01-04", records[1].(*entity.PriceBar).TradingDate)
}

func TestYahooPriceAdapterDedupesRepeatedTimestamps(t *testing.T) {
	repo := &fakeYahooRepo{result: chartResult(
		[]int64{1704153600, 1704153600},
		dto.YahooQuote{
			Open:  []*float64{fp(185.0), fp(185.0)},
			Close: []*float64{fp(185.6), fp(185.6)},
			High:  []*float64{fp(186.1), fp(186.1)},
			Low:   []*float64{fp(184.9), fp(184.9)},
		},
	)}
	adapter := NewYahooPriceAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 1, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestYahooPriceAdapterPropagatesProviderError(t *testing.T) {
	repo := &fakeYahooRepo{err: errors.New("boom")}
	adapter := NewYahooPriceAdapter(repo, testLogger(t))

	_, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 1, Symbol: "AAPL"}, 7)
	assert.Error(t, err)
}
