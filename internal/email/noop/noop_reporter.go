package noop

import (
	"context"
	"log"

	"supplierx/internal/domain"
	"supplierx/internal/port"
)

type noopReporter struct{}

// NewNoopReporter creates a RunReporter that writes run summaries to the log.
func NewNoopReporter() port.RunReporter {
	return &noopReporter{}
}

func (r *noopReporter) ReportRun(_ context.Context, summary domain.RunSummary) error {
	log.Printf("[NOOP REPORT] run %s: %d attempted, %d succeeded, %d failed",
		summary.RunID, summary.Attempted, summary.Succeeded, summary.Failed)
	for _, e := range summary.Errors {
		log.Printf("[NOOP REPORT] run %s: %s (%s): %s", summary.RunID, e.Filename, e.Kind, e.Message)
	}
	return nil
}
