package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplierx/internal/domain"
	"supplierx/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, results domain.BatchResult) (*service.ExportResult, error) {
	args := m.Called(ctx, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockExportService) ExportCSV(ctx context.Context, results domain.BatchResult) (*service.ExportResult, error) {
	args := m.Called(ctx, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
