package entity

// DataKind identifies one canonical record kind in the store.
type DataKind string

const (
	KindPriceBar           DataKind = "price_bar"
	KindDividendEvent      DataKind = "dividend_event"
	KindDividendFrequency  DataKind = "dividend_frequency"
	KindInsiderTransaction DataKind = "insider_transaction"
	KindNewsItem           DataKind = "news_item"
	KindSentimentScore     DataKind = "sentiment_score"
)

// FetchKinds is the fixed order in which the orchestrator cycles provider
// fetches for each ticker. Dividend frequencies and sentiment scores ride
// along with the dividend and news fetches respectively.
var FetchKinds = []DataKind{
	KindPriceBar,
	KindDividendEvent,
	KindInsiderTransaction,
	KindNewsItem,
}

// Record is implemented by every canonical row the pipeline can admit.
// NaturalKey returns the minimal identity used for deduplication; two records
// with equal natural keys describe the same logical fact.
type Record interface {
	Kind() DataKind
	NaturalKey() string
}
