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

type fakeFinnhubRepo struct {
	rows []dto.FinnhubInsiderRow
	err  error
}

func (f *fakeFinnhubRepo) GetInsiderTransactions(_ context.Context, _ string, _ int) ([]dto.FinnhubInsiderRow, error) {
	return f.rows, f.err
}

func TestFinnhubInsiderAdapterMapsRows(t *testing.T) {
	repo := &fakeFinnhubRepo{rows: []dto.FinnhubInsiderRow{
		{
			Name:             "Jane Doe",
			Share:            1200,
			Change:           -300,
			FilingDate:       "2024-02-01",
			TransactionDate:  "2024-01-30",
			TransactionCode:  "S",
			TransactionPrice: 187.5,
		},
	}}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)

	tx := records[0].(*entity.InsiderTransaction)
	assert.Equal(t, uint(2), tx.TickerID)
	assert.Equal(t, "Jane Doe", tx.FilerName)
	assert.Equal(t, "2024-02-01", tx.FilingDate)
	assert.Equal(t, "2024-01-30", tx.TransactionDate)
	assert.Equal(t, "S", tx.TransactionCode)
	assert.Equal(t, int64(1200), tx.ShareCount)
	assert.Equal(t, int64(-300), tx.ShareChange)
	assert.Equal(t, 187.5, tx.TransactionPrice)
}

func TestFinnhubInsiderAdapterDefaultsOptionalFields(t *testing.T) {
	repo := &fakeFinnhubRepo{rows: []dto.FinnhubInsiderRow{
		{FilingDate: "2024-02-01"},
	}}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)

	tx := records[0].(*entity.InsiderTransaction)
	assert.Equal(t, "Unknown", tx.FilerName)
	assert.Equal(t, "Unknown", tx.TransactionDate)
	assert.Equal(t, "Unknown", tx.TransactionCode)
	assert.Zero(t, tx.ShareCount)
	assert.Zero(t, tx.ShareChange)
	assert.Zero(t, tx.TransactionPrice)
}

func TestFinnhubInsiderAdapterDropsRowWithoutFilingDate(t *testing.T) {
	repo := &fakeFinnhubRepo{rows: []dto.FinnhubInsiderRow{
		{Name: "Jane Doe", TransactionDate: "2024-01-30", TransactionCode: "S"},
		{Name: "John Roe", FilingDate: "2024-02-01", TransactionDate: "2024-01-30", TransactionCode: "P"},
	}}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "John Roe", records[0].(*entity.InsiderTransaction).FilerName)
}

func TestFinnhubInsiderAdapterCollapsesDuplicateFilings(t *testing.T) {
	row := dto.FinnhubInsiderRow{
		Name: "Jane Doe", FilingDate: "2024-02-01",
		TransactionDate: "2024-01-30", TransactionCode: "S",
	}
	// The same logical filing under a different name spelling collapses too:
	// the filer name is not part of the identity.
	respelled := row
	respelled.Name = "DOE JANE"

	repo := &fakeFinnhubRepo{rows: []dto.FinnhubInsiderRow{row, row, respelled}}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFinnhubInsiderAdapterAppliesLimit(t *testing.T) {
	rows := make([]dto.FinnhubInsiderRow, 10)
	for i := range rows {
		rows[i] = dto.FinnhubInsiderRow{
			Name:            "Jane Doe",
			FilingDate:      "2024-02-01",
			TransactionDate: "2024-01-30",
			TransactionCode: itoa(int64(i)),
		}
	}
	repo := &fakeFinnhubRepo{rows: rows}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	records, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	require.NoError(t, err)
	assert.Len(t, records, 7)
}

func TestFinnhubInsiderAdapterPropagatesProviderError(t *testing.T) {
	repo := &fakeFinnhubRepo{err: errors.New("quota exceeded")}
	adapter := NewFinnhubInsiderAdapter(repo, testLogger(t))

	_, err := adapter.Fetch(context.Background(), &entity.Ticker{ID: 2, Symbol: "AAPL"}, 7)
	assert.Error(t, err)
}
