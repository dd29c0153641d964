package usecases

import (
	"context"

	"rolebot/models"
)

// ReactionRolesUseCaseInterface defines the reaction-driven role operations
type ReactionRolesUseCaseInterface interface {
	ProcessReactionAdd(ctx context.Context, event models.DiscordReactionEvent) error
	ProcessReactionRemove(ctx context.Context, event models.DiscordReactionEvent) error
	MirrorBotMessage(ctx context.Context, event models.DiscordMessageEvent) error
}

// MenuPublisherInterface defines the role menu publishing operation behind setroles
type MenuPublisherInterface interface {
	Publish(ctx context.Context, request models.CommandRequest) error
}
