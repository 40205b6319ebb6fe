package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplierx/internal/domain"
)

// MockRunReporter is a mock implementation of port.RunReporter.
type MockRunReporter struct {
	mock.Mock
}

func (m *MockRunReporter) ReportRun(ctx context.Context, summary domain.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
