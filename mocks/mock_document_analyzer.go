package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockDocumentAnalyzer is a mock implementation of port.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) AnalyzeTables(ctx context.Context, document []byte) (json.RawMessage, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockDocumentAnalyzer) AnalyzeText(ctx context.Context, document []byte) (string, error) {
	args := m.Called(ctx, document)
	return args.String(0), args.Error(1)
}
