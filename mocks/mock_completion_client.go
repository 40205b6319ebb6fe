package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCompletionClient is a mock implementation of port.CompletionClient.
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt, credential string) ([]byte, error) {
	args := m.Called(ctx, prompt, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
