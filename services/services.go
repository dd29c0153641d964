package services

import (
	"context"

	"rolebot/models"
)

// CommandsService handles chat commands addressed to the bot
type CommandsService interface {
	ProcessCommand(ctx context.Context, request models.CommandRequest) error
}
