package menu

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rolebot/models"
)

// MockMenuPublisher is a mock implementation of the MenuPublisher
type MockMenuPublisher struct {
	mock.Mock
}

func (m *MockMenuPublisher) Publish(ctx context.Context, request models.CommandRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}
