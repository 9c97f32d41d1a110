package dto

// MarketauxNewsResponse is one page of /v1/news/all. Error arrives embedded
// in a 200 body when the token is invalid or the plan quota is exhausted.
type MarketauxNewsResponse struct {
	Meta  MarketauxMeta      `json:"meta"`
	Data  []MarketauxArticle `json:"data"`
	Error *MarketauxAPIError `json:"error,omitempty"`
}

type MarketauxMeta struct {
	Found    int `json:"found"`
	Returned int `json:"returned"`
	Limit    int `json:"limit"`
	Page     int `json:"page"`
}

type MarketauxAPIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MarketauxArticle is one raw article row with per-entity sentiment.
type MarketauxArticle struct {
	UUID        string            `json:"uuid"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	PublishedAt string            `json:"published_at"`
	Entities    []MarketauxEntity `json:"entities"`
}

type MarketauxEntity struct {
	Symbol         string  `json:"symbol"`
	SentimentScore float64 `json:"sentiment_score"`
}
