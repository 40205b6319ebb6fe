package port

import (
	"context"

	"supplierx/internal/domain"
)

// RunReporter delivers the summary of a finished batch run to the operator.
type RunReporter interface {
	ReportRun(ctx context.Context, summary domain.RunSummary) error
}
