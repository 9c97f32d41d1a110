package entity

import "time"

// Per-kind statuses as a ticker moves through the pipeline.
const (
	KindStatusPending = "PENDING"
	KindStatusFetched = "FETCHED"
	KindStatusFailed  = "FAILED"
)

// Run statuses.
const (
	RunStatusCompleted = "COMPLETED"
	RunStatusPartial   = "PARTIAL"
)

// IngestionRun persists one pipeline execution's summary so the HTTP layer
// and report command can show run history.
type IngestionRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Status     string    `gorm:"not null" json:"status"`
	StartedAt  time.Time `gorm:"not null" json:"started_at"`
	FinishedAt time.Time `gorm:"not null" json:"finished_at"`
	Summary    string    `gorm:"type:text" json:"summary"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the IngestionRun model.
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
