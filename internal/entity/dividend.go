package entity

import (
	"fmt"
	"time"
)

// DividendEvent is one dividend payout for a ticker. Amount is in fractional
// currency units (e.g. 0.22 dollars); the unit is fixed store-wide because
// the reporting layer sums this column across providers.
type DividendEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TickerID  uint      `gorm:"not null;uniqueIndex:idx_dividend_events_ticker_ex_date" json:"ticker_id"`
	ExDate    string    `gorm:"not null;uniqueIndex:idx_dividend_events_ticker_ex_date" json:"ex_date"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the DividendEvent model.
func (DividendEvent) TableName() string {
	return "dividend_events"
}

func (d *DividendEvent) Kind() DataKind {
	return KindDividendEvent
}

func (d *DividendEvent) NaturalKey() string {
	return fmt.Sprintf("dividend_event|%d|%s", d.TickerID, d.ExDate)
}

// DividendFrequency annotates a DividendEvent with cadence metadata when the
// provider supplies it. Rows are only emitted for payloads that carry the
// optional frequency fields.
type DividendFrequency struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TickerID      uint      `gorm:"not null;uniqueIndex:idx_dividend_frequencies_ticker_ex_date" json:"ticker_id"`
	ExDate        string    `gorm:"not null;uniqueIndex:idx_dividend_frequencies_ticker_ex_date" json:"ex_date"`
	Periodicity   string    `json:"periodicity"`
	DividendClass string    `json:"dividend_class"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the DividendFrequency model.
func (DividendFrequency) TableName() string {
	return "dividend_frequencies"
}

func (d *DividendFrequency) Kind() DataKind {
	return KindDividendFrequency
}

func (d *DividendFrequency) NaturalKey() string {
	return fmt.Sprintf("dividend_frequency|%d|%s", d.TickerID, d.ExDate)
}
