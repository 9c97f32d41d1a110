package telegram

import (
	"fmt"
	"sort"
	"strings"

	"equity-ingestor/internal/entity"
	"equity-ingestor/internal/ingestor/dto"
)

// FormatRunSummary renders a run summary as a Telegram Markdown message.
func FormatRunSummary(summary *dto.RunSummary) string {
	var b strings.Builder

	icon := "✅"
	if summary.Status() == entity.RunStatusPartial {
		icon = "⚠️"
	}
	b.WriteString(fmt.Sprintf("%s *Ingestion Run %s*\n", icon, summary.Status()))
	b.WriteString(fmt.Sprintf("_%s → %s_\n\n",
		summary.StartedAt.Format("2006-01-02 15:04:05"),
		summary.FinishedAt.Format("15:04:05")))

	for _, ts := range summary.Tickers {
		b.WriteString(fmt.Sprintf("*%s*\n", ts.Symbol))

		kinds := make([]string, 0, len(ts.Kinds))
		for kind := range ts.Kinds {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)

		for _, kind := range kinds {
			kc := ts.Kinds[entity.DataKind(kind)]
			if kc.Status == entity.KindStatusFailed {
				b.WriteString(fmt.Sprintf("  ❌ %s: %s\n", kind, kc.Error))
				continue
			}
			b.WriteString(fmt.Sprintf("  • %s: %d fetched, %d new\n", kind, kc.Fetched, kc.Admitted))
		}
	}

	b.WriteString(fmt.Sprintf("\nTotal new records: %d", summary.TotalAdmitted()))
	if failed := summary.FailedKinds(); failed > 0 {
		b.WriteString(fmt.Sprintf(" (%d fetches failed)", failed))
	}

	return b.String()
}
