package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
)

// Generator issues read-only aggregate queries against the persisted tables.
// The pipeline keeps those tables append-only and natural-key-unique, so
// every aggregate here is stable and re-computable at any time.
type Generator struct {
	db *gorm.DB
}

// NewGenerator creates a new Generator.
func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{db: db}
}

// ClosingPriceStats is the per-ticker average/min/max of closing prices.
type ClosingPriceStats struct {
	Symbol   string  `json:"symbol"`
	AvgClose float64 `json:"avg_close"`
	MinClose float64 `json:"min_close"`
	MaxClose float64 `json:"max_close"`
}

// DividendTotal is the per-ticker sum of dividend amounts.
type DividendTotal struct {
	Symbol string  `json:"symbol"`
	Total  float64 `json:"total"`
}

// InsiderActivity is the per-ticker count of insider filings.
type InsiderActivity struct {
	Symbol string `json:"symbol"`
	Count  int64  `json:"count"`
}

// SentimentAverage is the per-ticker mean sentiment across all scored news.
type SentimentAverage struct {
	Symbol string  `json:"symbol"`
	Avg    float64 `json:"avg_sentiment"`
}

// PriceExtreme marks the dates of a ticker's lowest and highest close.
type PriceExtreme struct {
	Symbol  string  `json:"symbol"`
	MinDate string  `json:"min_date"`
	Min     float64 `json:"min"`
	MaxDate string  `json:"max_date"`
	Max     float64 `json:"max"`
}

// Summary bundles every aggregate for the JSON report endpoint.
type Summary struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	ClosingPrices   []ClosingPriceStats `json:"closing_prices"`
	DividendTotals  []DividendTotal     `json:"dividend_totals"`
	InsiderActivity []InsiderActivity   `json:"insider_activity"`
	Sentiment       []SentimentAverage  `json:"sentiment"`
	PriceExtremes   []PriceExtreme      `json:"price_extremes"`
}

// ClosingPrices returns closing price statistics grouped by ticker.
func (g *Generator) ClosingPrices(ctx context.Context) ([]ClosingPriceStats, error) {
	var stats []ClosingPriceStats
	err := g.db.WithContext(ctx).Raw(`
		SELECT t.symbol, AVG(p.close) AS avg_close, MIN(p.close) AS min_close, MAX(p.close) AS max_close
		FROM price_bars p
		JOIN tickers t ON p.ticker_id = t.id
		GROUP BY t.symbol
		ORDER BY t.symbol`).Scan(&stats).Error
	return stats, err
}

// DividendTotals returns total dividends per ticker, including tickers that
// have never paid one.
func (g *Generator) DividendTotals(ctx context.Context) ([]DividendTotal, error) {
	var totals []DividendTotal
	err := g.db.WithContext(ctx).Raw(`
		SELECT t.symbol, COALESCE(SUM(d.amount), 0) AS total
		FROM tickers t
		LEFT JOIN dividend_events d ON d.ticker_id = t.id
		GROUP BY t.symbol
		ORDER BY t.symbol`).Scan(&totals).Error
	return totals, err
}

// InsiderCounts returns the number of insider filings per ticker.
func (g *Generator) InsiderCounts(ctx context.Context) ([]InsiderActivity, error) {
	var counts []InsiderActivity
	err := g.db.WithContext(ctx).Raw(`
		SELECT t.symbol, COUNT(i.id) AS count
		FROM insider_transactions i
		JOIN tickers t ON i.ticker_id = t.id
		GROUP BY t.symbol
		ORDER BY t.symbol`).Scan(&counts).Error
	return counts, err
}

// SentimentAverages returns the mean sentiment score per ticker.
func (g *Generator) SentimentAverages(ctx context.Context) ([]SentimentAverage, error) {
	var averages []SentimentAverage
	err := g.db.WithContext(ctx).Raw(`
		SELECT t.symbol, AVG(s.score) AS avg
		FROM sentiment_scores s
		JOIN tickers t ON s.ticker_id = t.id
		GROUP BY t.symbol
		ORDER BY t.symbol`).Scan(&averages).Error
	return averages, err
}

// PriceExtremes returns, per ticker, the dates on which the lowest and
// highest closes were recorded. Canonical date strings sort lexicographically
// so no date parsing is needed.
func (g *Generator) PriceExtremes(ctx context.Context) ([]PriceExtreme, error) {
	var rows []struct {
		Symbol      string
		TradingDate string
		Close       float64
	}
	err := g.db.WithContext(ctx).Raw(`
		SELECT t.symbol, p.trading_date, p.close
		FROM price_bars p
		JOIN tickers t ON p.ticker_id = t.id
		ORDER BY t.symbol, p.trading_date`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var extremes []PriceExtreme
	var current *PriceExtreme
	for _, row := range rows {
		if current == nil || current.Symbol != row.Symbol {
			extremes = append(extremes, PriceExtreme{
				Symbol: row.Symbol,
				Min:    row.Close, MinDate: row.TradingDate,
				Max: row.Close, MaxDate: row.TradingDate,
			})
			current = &extremes[len(extremes)-1]
			continue
		}
		if row.Close < current.Min {
			current.Min = row.Close
			current.MinDate = row.TradingDate
		}
		if row.Close > current.Max {
			current.Max = row.Close
			current.MaxDate = row.TradingDate
		}
	}
	return extremes, nil
}

// Generate collects every aggregate into one summary.
func (g *Generator) Generate(ctx context.Context) (*Summary, error) {
	closing, err := g.ClosingPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("closing prices: %w", err)
	}
	dividends, err := g.DividendTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dividend totals: %w", err)
	}
	insiders, err := g.InsiderCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("insider counts: %w", err)
	}
	sentiment, err := g.SentimentAverages(ctx)
	if err != nil {
		return nil, fmt.Errorf("sentiment averages: %w", err)
	}
	extremes, err := g.PriceExtremes(ctx)
	if err != nil {
		return nil, fmt.Errorf("price extremes: %w", err)
	}

	return &Summary{
		GeneratedAt:     time.Now().UTC(),
		ClosingPrices:   closing,
		DividendTotals:  dividends,
		InsiderActivity: insiders,
		Sentiment:       sentiment,
		PriceExtremes:   extremes,
	}, nil
}

// WriteText renders the summary as the plain-text analysis report.
func (g *Generator) WriteText(ctx context.Context, w io.Writer) error {
	summary, err := g.Generate(ctx)
	if err != nil {
		return err
	}

	line := func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	line("==================================================")
	line("EQUITY DATA ANALYSIS REPORT")
	line("==================================================")
	line("Generated on: %s", summary.GeneratedAt.Format("2006-01-02 15:04:05"))
	line("")

	line("### Average Closing Prices ###")
	for _, s := range summary.ClosingPrices {
		line(" - %s: Avg=$%.2f, Min=$%.2f, Max=$%.2f", s.Symbol, s.AvgClose, s.MinClose, s.MaxClose)
	}
	line("")

	line("### Total Dividends per Ticker ###")
	for _, d := range summary.DividendTotals {
		line(" - %s: $%.2f", d.Symbol, d.Total)
	}
	line("")

	line("### Total Insider Transactions per Ticker ###")
	for _, i := range summary.InsiderActivity {
		line(" - %s: %d transactions", i.Symbol, i.Count)
	}
	line("")

	line("### Average Sentiment per Ticker ###")
	for _, s := range summary.Sentiment {
		line(" - %s: Sentiment Score = %.2f", s.Symbol, s.Avg)
	}
	line("")

	line("### Closing Price Extremes ###")
	for _, e := range summary.PriceExtremes {
		line(" - %s: Min=$%.2f on %s, Max=$%.2f on %s", e.Symbol, e.Min, e.MinDate, e.Max, e.MaxDate)
	}
	line("")

	line("==================================================")
	line("End of Report")
	line("==================================================")
	return nil
}
