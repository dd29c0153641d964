package discord

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"rolebot/clients"
	"rolebot/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordBotUser), args.Error(1)
}

func (m *MockDiscordClient) GetLatency() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *MockDiscordClient) UpdatePresence(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *MockDiscordClient) GetChannelMessages(
	ctx context.Context,
	channelID string,
	limit int,
	beforeID string,
) ([]*clients.DiscordMessage, error) {
	args := m.Called(ctx, channelID, limit, beforeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*clients.DiscordMessage), args.Error(1)
}

func (m *MockDiscordClient) PostMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordPostMessageResponse, error) {
	args := m.Called(ctx, channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordPostMessageResponse), args.Error(1)
}

func (m *MockDiscordClient) PostEmbed(
	ctx context.Context,
	channelID string,
	embed models.DiscordEmbed,
) (*clients.DiscordPostMessageResponse, error) {
	args := m.Called(ctx, channelID, embed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.DiscordPostMessageResponse), args.Error(1)
}

func (m *MockDiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockDiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Error(0)
}

func (m *MockDiscordClient) GetGuildRoles(ctx context.Context, guildID string) ([]*models.GuildRole, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildRole), args.Error(1)
}

func (m *MockDiscordClient) CreateGuildRole(
	ctx context.Context,
	guildID, name string,
	mentionable bool,
) (*models.GuildRole, error) {
	args := m.Called(ctx, guildID, name, mentionable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildRole), args.Error(1)
}

func (m *MockDiscordClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	args := m.Called(ctx, guildID, userID, roleID)
	return args.Error(0)
}

func (m *MockDiscordClient) GetGuildMember(
	ctx context.Context,
	guildID, userID string,
) (mo.Option[*models.GuildMember], error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(mo.Option[*models.GuildMember]), args.Error(1)
}

func (m *MockDiscordClient) IsAdministrator(ctx context.Context, channelID, userID string) (bool, error) {
	args := m.Called(ctx, channelID, userID)
	return args.Bool(0), args.Error(1)
}
