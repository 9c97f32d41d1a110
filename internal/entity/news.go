package entity

import (
	"fmt"
	"time"
)

// NewsItem is a provider-level article, globally unique by URL regardless of
// how many tickers it mentions.
type NewsItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	URL         string     `gorm:"uniqueIndex;not null" json:"url"`
	Title       string     `gorm:"not null" json:"title"`
	Source      string     `json:"source"`
	Topics      string     `json:"topics"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`

	SentimentScores []SentimentScore `gorm:"foreignKey:NewsItemID" json:"sentiment_scores,omitempty"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_items"
}

func (n *NewsItem) Kind() DataKind {
	return KindNewsItem
}

func (n *NewsItem) NaturalKey() string {
	return fmt.Sprintf("news_item|%s", n.URL)
}

// SentimentScore links one NewsItem to one ticker with a scalar sentiment in
// [-1, 1]. NewsURL carries the article identity until the NewsItem row has a
// persisted ID; the writer resolves it before insert.
type SentimentScore struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NewsItemID uint      `gorm:"not null;uniqueIndex:idx_sentiment_scores_news_ticker" json:"news_item_id"`
	TickerID   uint      `gorm:"not null;uniqueIndex:idx_sentiment_scores_news_ticker" json:"ticker_id"`
	Score      float64   `gorm:"not null" json:"score"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	NewsURL string `gorm:"-" json:"-"`
}

// TableName specifies the table name for the SentimentScore model.
func (SentimentScore) TableName() string {
	return "sentiment_scores"
}

func (s *SentimentScore) Kind() DataKind {
	return KindSentimentScore
}

func (s *SentimentScore) NaturalKey() string {
	return fmt.Sprintf("sentiment_score|%s|%d", s.NewsURL, s.TickerID)
}
