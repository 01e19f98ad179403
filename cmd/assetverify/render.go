package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// writeReport prints a report as JSON or as the emoji summary.
// total is the number of steps a complete run would record.
func writeReport(w io.Writer, title string, report *entities.Report, total int, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "🔍 %s %s", title, report.Repository)
	if report.File != "" {
		_, _ = fmt.Fprintf(w, " (%s@%s)", report.File, report.Branch)
	} else if report.Branch != "" {
		_, _ = fmt.Fprintf(w, " (branch %s)", report.Branch)
	}
	_, _ = fmt.Fprint(w, "\n\n")

	for i, step := range report.Steps {
		_, _ = fmt.Fprintf(w, "%s [%d/%d] %s: %s\n", statusIcon(step.Status), i+1, total, step.Step, step.Message)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, rule)
	if report.Passed {
		_, _ = fmt.Fprintf(w, "✅ All checks passed (%d/%d)\n", report.PassedCount(), total)
		if report.MatchedPattern != "" {
			_, _ = fmt.Fprintf(w, "Matched commit pattern: %s\n", report.MatchedPattern)
		}
	} else {
		_, _ = fmt.Fprintf(w, "❌ Failed: %d of %d checks passed\n", report.PassedCount(), total)
	}
	_, _ = fmt.Fprintln(w, rule)
	return nil
}

func statusIcon(s entities.StepStatus) string {
	switch s {
	case entities.StatusPass:
		return "✅"
	case entities.StatusSkip:
		return "⏭️ "
	default:
		return "❌"
	}
}
