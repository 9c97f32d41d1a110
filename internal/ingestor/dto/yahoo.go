package dto

// YahooChartResponse is the envelope returned by the Yahoo Finance v8 chart
// endpoint. A failed symbol still comes back as HTTP 200 with Chart.Error set,
// so callers must inspect the payload, not just the status code.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooAPIError     `json:"error"`
}

type YahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type YahooChartResult struct {
	Meta       YahooChartMeta  `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
	Events     *YahooEvents    `json:"events,omitempty"`
}

type YahooChartMeta struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
}

type YahooIndicators struct {
	Quote []YahooQuote `json:"quote"`
}

// YahooQuote carries parallel arrays aligned with the result's Timestamp
// slice. Individual positions may be null for halted sessions.
type YahooQuote struct {
	Open  []*float64 `json:"open"`
	Close []*float64 `json:"close"`
	High  []*float64 `json:"high"`
	Low   []*float64 `json:"low"`
}

type YahooEvents struct {
	Dividends map[string]YahooDividend `json:"dividends"`
}

// YahooDividend is one dividend event keyed by its ex-date timestamp.
// Frequency and Class only appear on some provider API versions.
type YahooDividend struct {
	Amount    float64 `json:"amount"`
	Date      int64   `json:"date"`
	Frequency string  `json:"frequency,omitempty"`
	Class     string  `json:"class,omitempty"`
}
