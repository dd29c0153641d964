package roles

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rolebot/models"
)

// MockReactionRolesUseCase is a mock implementation of the ReactionRolesUseCase
type MockReactionRolesUseCase struct {
	mock.Mock
}

func (m *MockReactionRolesUseCase) ProcessReactionAdd(ctx context.Context, event models.DiscordReactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReactionRolesUseCase) ProcessReactionRemove(ctx context.Context, event models.DiscordReactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReactionRolesUseCase) MirrorBotMessage(ctx context.Context, event models.DiscordMessageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
