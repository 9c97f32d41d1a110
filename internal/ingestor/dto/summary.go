package dto

import (
	"time"

	"equity-ingestor/internal/entity"
)

// KindCount tracks what happened to one record kind for one ticker during a
// run: how many rows the provider produced, how many survived the dedup gate,
// and how many actually landed in storage.
type KindCount struct {
	Fetched   int    `json:"fetched"`
	Admitted  int    `json:"admitted"`
	Persisted int    `json:"persisted"`
	Skipped   int    `json:"skipped"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// TickerSummary aggregates per-kind counts for one ticker.
type TickerSummary struct {
	Symbol string                         `json:"symbol"`
	Kinds  map[entity.DataKind]*KindCount `json:"kinds"`
}

// NewTickerSummary creates a summary with every kind in PENDING state.
func NewTickerSummary(symbol string) *TickerSummary {
	return &TickerSummary{
		Symbol: symbol,
		Kinds:  make(map[entity.DataKind]*KindCount),
	}
}

// Kind returns the counter for a kind, creating it on first use.
func (t *TickerSummary) Kind(kind entity.DataKind) *KindCount {
	kc, ok := t.Kinds[kind]
	if !ok {
		kc = &KindCount{Status: entity.KindStatusPending}
		t.Kinds[kind] = kc
	}
	return kc
}

// RunSummary is the orchestrator's user-visible output: per-ticker, per-kind
// counts of records fetched vs. newly admitted. Partial failures surface here
// as FAILED kind statuses, never as an error returned to the caller.
type RunSummary struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Tickers    []*TickerSummary `json:"tickers"`
}

// Status reports COMPLETED when every attempted kind succeeded, PARTIAL
// otherwise.
func (r *RunSummary) Status() string {
	for _, ts := range r.Tickers {
		for _, kc := range ts.Kinds {
			if kc.Status == entity.KindStatusFailed {
				return entity.RunStatusPartial
			}
		}
	}
	return entity.RunStatusCompleted
}

// TotalAdmitted sums newly admitted records across all tickers and kinds.
func (r *RunSummary) TotalAdmitted() int {
	total := 0
	for _, ts := range r.Tickers {
		for _, kc := range ts.Kinds {
			total += kc.Admitted
		}
	}
	return total
}

// TotalFetched sums fetched records across all tickers and kinds.
func (r *RunSummary) TotalFetched() int {
	total := 0
	for _, ts := range r.Tickers {
		for _, kc := range ts.Kinds {
			total += kc.Fetched
		}
	}
	return total
}

// FailedKinds counts (ticker, kind) pairs that ended in FAILED state.
func (r *RunSummary) FailedKinds() int {
	failed := 0
	for _, ts := range r.Tickers {
		for _, kc := range ts.Kinds {
			if kc.Status == entity.KindStatusFailed {
				failed++
			}
		}
	}
	return failed
}
