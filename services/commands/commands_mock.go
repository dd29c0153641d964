package commands

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rolebot/models"
)

type MockCommandsService struct {
	mock.Mock
}

func (m *MockCommandsService) ProcessCommand(ctx context.Context, request models.CommandRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}
