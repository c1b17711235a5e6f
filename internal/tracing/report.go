package tracing

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// OperationStats is the aggregated duration for one operation name and its
// share of the request's total duration.
type OperationStats struct {
	DurationMs float64 `json:"duration_ms"`
	Percent    float64 `json:"percent"`
}

// SpanDetail is one span in the chronological detail listing of a report.
type SpanDetail struct {
	Name       string   `json:"name"`
	DurationMs float64  `json:"duration_ms"`
	Status     Status   `json:"status"`
	Metadata   Metadata `json:"metadata,omitempty"`
}

// Report is the JSON-serializable summary of one finalized trace, suitable
// for embedding in an API response or a log line.
type Report struct {
	RequestID       string                    `json:"request_id"`
	TotalDurationMs float64                   `json:"total_duration_ms"`
	Breakdown       map[string]OperationStats `json:"breakdown"`
	Operations      []SpanDetail              `json:"operations,omitempty"`
}

type RankedOperation struct {
	Name  string
	Stats OperationStats
}

// Summarize aggregates a finalized trace into its per-operation breakdown.
// Spans sharing a name are summed. Percentages are left at zero when the
// total duration is zero. Note that summed span durations may exceed the
// total when spans nest; the breakdown never assumes spans are disjoint.
func Summarize(ft *FinalizedTrace) *Report {
	report := &Report{
		RequestID:       ft.RequestID,
		TotalDurationMs: ft.TotalDurationMs(),
		Breakdown:       make(map[string]OperationStats),
	}
	for i := range ft.Spans {
		span := &ft.Spans[i]
		stats := report.Breakdown[span.Name]
		stats.DurationMs = math.Round((stats.DurationMs+span.DurationMs())*100) / 100
		report.Breakdown[span.Name] = stats
		report.Operations = append(report.Operations, SpanDetail{
			Name:       span.Name,
			DurationMs: span.DurationMs(),
			Status:     span.Status,
			Metadata:   span.Metadata,
		})
	}
	if report.TotalDurationMs > 0 {
		for name, stats := range report.Breakdown {
			stats.Percent = math.Round(stats.DurationMs/report.TotalDurationMs*100*10) / 10
			report.Breakdown[name] = stats
		}
	}
	return report
}

// Ranked returns the breakdown sorted descending by duration. Ties keep the
// order in which the operations first appeared in the trace.
func (r *Report) Ranked() []RankedOperation {
	var ranked []RankedOperation
	seen := make(map[string]bool)
	for _, op := range r.Operations {
		if seen[op.Name] {
			continue
		}
		seen[op.Name] = true
		ranked = append(ranked, RankedOperation{Name: op.Name, Stats: r.Breakdown[op.Name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Stats.DurationMs > ranked[j].Stats.DurationMs
	})
	return ranked
}

// WriteSummary renders the report as a fixed-width console table followed by
// the chronological span listing, for command-line diagnostic use. The first
// write error stops the rendering and is returned.
func (r *Report) WriteSummary(w io.Writer) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	divider := strings.Repeat("=", 60)
	printf("\n%s\n", divider)
	printf("PERFORMANCE TRACE SUMMARY - Request %s\n", r.RequestID)
	printf("%s\n", divider)
	printf("Total Duration: %.2fms\n", r.TotalDurationMs)

	printf("\nBreakdown by Operation:\n")
	printf("%-30s | %-15s | %s\n", "Operation", "Duration (ms)", "%")
	printf("%s\n", strings.Repeat("-", 55))
	for _, op := range r.Ranked() {
		printf("%-30s | %-15.2f | %.1f%%\n", op.Name, op.Stats.DurationMs, op.Stats.Percent)
	}

	printf("\nDetailed Timeline:\n")
	for _, op := range r.Operations {
		metadataSuffix := ""
		if len(op.Metadata) > 0 {
			encoded, marshalErr := json.Marshal(op.Metadata)
			if marshalErr == nil {
				metadataSuffix = fmt.Sprintf(" | %s", encoded)
			}
		}
		statusSuffix := ""
		if op.Status == StatusFailed {
			statusSuffix = " [failed]"
		}
		printf("  %s: %.2fms%s%s\n", op.Name, op.DurationMs, statusSuffix, metadataSuffix)
	}
	printf("%s\n\n", divider)
	return err
}
