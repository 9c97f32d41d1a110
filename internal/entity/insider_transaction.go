package entity

import (
	"fmt"
	"time"
)

// InsiderTransaction is one insider filing row for a ticker.
//
// The natural key is (ticker, filing_date, transaction_date, transaction_code).
// Filer name is deliberately excluded: providers repeat the same filing under
// slightly different name spellings, so keying on the name would re-admit the
// same logical filing. A filer appearing twice in one filing collapses to one
// row, which is an accepted precision loss.
type InsiderTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TickerID         uint      `gorm:"not null;uniqueIndex:idx_insider_transactions_key" json:"ticker_id"`
	FilerName        string    `gorm:"not null" json:"filer_name"`
	FilingDate       string    `gorm:"not null;uniqueIndex:idx_insider_transactions_key" json:"filing_date"`
	TransactionDate  string    `gorm:"not null;uniqueIndex:idx_insider_transactions_key" json:"transaction_date"`
	TransactionCode  string    `gorm:"not null;uniqueIndex:idx_insider_transactions_key" json:"transaction_code"`
	ShareCount       int64     `json:"share_count"`
	ShareChange      int64     `json:"share_change"`
	TransactionPrice float64   `json:"transaction_price"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the InsiderTransaction model.
func (InsiderTransaction) TableName() string {
	return "insider_transactions"
}

func (t *InsiderTransaction) Kind() DataKind {
	return KindInsiderTransaction
}

func (t *InsiderTransaction) NaturalKey() string {
	return fmt.Sprintf("insider_transaction|%d|%s|%s|%s",
		t.TickerID, t.FilingDate, t.TransactionDate, t.TransactionCode)
}
