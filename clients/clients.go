package clients

import (
	"context"
	"time"

	"github.com/samber/mo"

	"rolebot/models"
)

// DiscordClient defines the platform operations the bot performs against Discord
type DiscordClient interface {
	// Bot operations
	GetBotUser() (*DiscordBotUser, error)
	GetLatency() time.Duration
	UpdatePresence(text string) error

	// Message operations
	GetChannelMessages(ctx context.Context, channelID string, limit int, beforeID string) ([]*DiscordMessage, error)
	PostMessage(ctx context.Context, channelID, content string) (*DiscordPostMessageResponse, error)
	PostEmbed(ctx context.Context, channelID string, embed models.DiscordEmbed) (*DiscordPostMessageResponse, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// Reaction operations
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	// Role operations
	GetGuildRoles(ctx context.Context, guildID string) ([]*models.GuildRole, error)
	CreateGuildRole(ctx context.Context, guildID, name string, mentionable bool) (*models.GuildRole, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error

	// Member operations
	GetGuildMember(ctx context.Context, guildID, userID string) (mo.Option[*models.GuildMember], error)
	IsAdministrator(ctx context.Context, channelID, userID string) (bool, error)
}
