package adapter

import (
	"context"

	"equity-ingestor/internal/entity"
)

// ProviderAdapter knows how to call one external API for one data kind,
// paginate it, and map its rows onto canonical records.
//
// Fetch keeps requesting provider pages until limit canonical records have
// been produced, the provider returns an empty page, or the provider signals
// an error (including error payloads embedded in a 200 response). Every
// implementation tracks an in-call seen-set of natural keys so a single
// paginated sweep never yields the same logical record twice, even when the
// provider repeats rows across pages.
//
// Records with a missing optional field get documented defaults; records
// missing a required key field are dropped and logged, never defaulted.
type ProviderAdapter interface {
	Name() string
	Kind() entity.DataKind
	Fetch(ctx context.Context, ticker *entity.Ticker, limit int) ([]entity.Record, error)
}
