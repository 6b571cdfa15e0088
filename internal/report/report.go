// Package report serializes the dump document and prints the
// human-readable summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tracedump/tracedump/internal/domain"
	apperrors "github.com/tracedump/tracedump/internal/pkg/errors"
)

// previewLength bounds the per-trace content preview in the summary.
const previewLength = 150

// WriteFile serializes the dump as UTF-8 JSON with 2-space indentation.
// A write failure does not affect the in-memory document; the caller
// logs the Serialization error and carries on.
func WriteFile(dump *domain.Dump, path string) error {
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return apperrors.Serialization("failed to encode dump document").WithError(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Serialization("failed to write " + path).WithError(err)
	}
	return nil
}

// PrintSummary writes the fixed-format textual summary of a dump.
func PrintSummary(w io.Writer, dump *domain.Dump) {
	meta := dump.Metadata

	switch {
	case meta.ExperimentID != "":
		fmt.Fprintf(w, "\n=== Experiment Trace Dump Summary ===\n")
		fmt.Fprintf(w, "Experiment ID: %s\n", meta.ExperimentID)
		if meta.ExperimentName != "" {
			fmt.Fprintf(w, "Experiment Name: %s\n", meta.ExperimentName)
		}
	case len(dump.LangGraphTraces) > 0 || meta.TotalLangGraphTraces > 0:
		fmt.Fprintf(w, "\n=== LangGraph Trace Dump Summary ===\n")
	default:
		fmt.Fprintf(w, "\n=== Trace Dump Summary ===\n")
	}

	fmt.Fprintf(w, "Tracking URL: %s\n", meta.TrackingURL)
	fmt.Fprintf(w, "Dump timestamp: %s\n", meta.DumpTimestamp.Format("2006-01-02T15:04:05Z07:00"))
	if meta.TotalExperiments > 0 {
		fmt.Fprintf(w, "Total experiments: %d\n", meta.TotalExperiments)
	}
	fmt.Fprintf(w, "Total runs: %d\n", meta.TotalRuns)
	fmt.Fprintf(w, "Total traces found: %d\n", totalTraces(meta))

	printBreakdown(w, dump)
}

func totalTraces(meta domain.DumpMetadata) int {
	if meta.TotalLangGraphTraces > 0 {
		return meta.TotalLangGraphTraces
	}
	return meta.TotalTraces
}

// printBreakdown lists every run with at least one trace, with a one-line
// preview per trace.
func printBreakdown(w io.Writer, dump *domain.Dump) {
	runs := dump.RunDumps()

	any := false
	for _, run := range runs {
		if len(run.Traces) > 0 {
			any = true
			break
		}
	}
	if !any {
		return
	}

	fmt.Fprintf(w, "\nTrace breakdown by run:\n")
	for _, run := range runs {
		if len(run.Traces) == 0 {
			continue
		}
		name := run.RunInfo.Info.RunName
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(w, "  - %s (%s): %d traces\n", name, run.RunInfo.Info.RunID, len(run.Traces))
		for _, trace := range run.Traces {
			fmt.Fprintf(w, "      [%s] %s: %s\n", trace.Source, trace.TraceID, preview(trace.Content))
		}
	}
}

// preview flattens trace content to a single line of at most
// previewLength characters.
func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	if len(flat) > previewLength {
		return flat[:previewLength] + "..."
	}
	return flat
}
