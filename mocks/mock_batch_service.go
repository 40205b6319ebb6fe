package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplierx/internal/domain"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) RunBatch(ctx context.Context, cfg domain.RunConfig) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}
