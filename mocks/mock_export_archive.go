package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplierx/internal/port"
)

// MockExportArchive is a mock implementation of port.ExportArchive.
type MockExportArchive struct {
	mock.Mock
}

func (m *MockExportArchive) Put(ctx context.Context, obj port.ExportObject) (*port.ArchivedExport, error) {
	args := m.Called(ctx, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchivedExport), args.Error(1)
}
