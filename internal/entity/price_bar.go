package entity

import (
	"fmt"
	"time"
)

// PriceBar is one trading session for a ticker. Bars are immutable once
// stored; a re-fetch of the same date never alters an existing row.
type PriceBar struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TickerID    uint      `gorm:"not null;uniqueIndex:idx_price_bars_ticker_date" json:"ticker_id"`
	TradingDate string    `gorm:"not null;uniqueIndex:idx_price_bars_ticker_date" json:"trading_date"`
	Open        float64   `json:"open"`
	Close       float64   `json:"close"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PriceBar model.
func (PriceBar) TableName() string {
	return "price_bars"
}

func (p *PriceBar) Kind() DataKind {
	return KindPriceBar
}

func (p *PriceBar) NaturalKey() string {
	return fmt.Sprintf("price_bar|%d|%s", p.TickerID, p.TradingDate)
}
