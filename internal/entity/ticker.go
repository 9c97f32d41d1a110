package entity

import "time"

// Ticker is a tracked equity symbol. Rows are created lazily on first
// reference by any adapter and never deleted by the pipeline.
type Ticker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"uniqueIndex;not null" json:"symbol"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Ticker model.
func (Ticker) TableName() string {
	return "tickers"
}
