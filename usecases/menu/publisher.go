package menu

import (
	"context"
	"errors"
	"fmt"

	"rolebot/appctx"
	"rolebot/clients"
	"rolebot/core"
	"rolebot/core/log"
	"rolebot/metrics"
	"rolebot/models"
)

const (
	DefaultHistoryLookback = 10000
	historyPageSize        = 100

	MenuColor       = 0xFF0000
	menuTitlePrefix = "Role Menu: "
	menuInstruction = "React to give yourself a role."
	blankFieldName  = "\u200b"
)

// MenuPublisher resets a channel to a single, fresh set of role menus
type MenuPublisher struct {
	discordClient   clients.DiscordClient
	catalog         models.RoleCatalog
	metrics         *metrics.Metrics
	historyLookback int
}

func NewMenuPublisher(
	discordClient clients.DiscordClient,
	catalog models.RoleCatalog,
	m *metrics.Metrics,
	historyLookback int,
) *MenuPublisher {
	if historyLookback <= 0 {
		historyLookback = DefaultHistoryLookback
	}
	return &MenuPublisher{
		discordClient:   discordClient,
		catalog:         catalog,
		metrics:         m,
		historyLookback: historyLookback,
	}
}

// Publish handles the setroles command. Only administrators may run it; anyone else gets
// a refusal in the channel and nothing is changed.
func (p *MenuPublisher) Publish(ctx context.Context, request models.CommandRequest) error {
	log.Info("📋 Starting to publish role menus in channel %s for user %s (event %s)",
		request.ChannelID, request.UserID, appctx.EventIDOrUnknown(ctx))

	if err := p.requireAdministrator(ctx, request); err != nil {
		if !errors.Is(err, core.ErrPermissionDenied) {
			return err
		}
		log.Warn("⚠️ User %s is not an administrator - refusing setroles", request.UserID)
		reply := fmt.Sprintf("Sorry <@%s>, only Admins can use this command", request.UserID)
		if _, err := p.discordClient.PostMessage(ctx, request.ChannelID, reply); err != nil {
			return fmt.Errorf("failed to send permission notice: %w", err)
		}
		return nil
	}

	botUser, err := p.discordClient.GetBotUser()
	if err != nil {
		log.Error("❌ Failed to get bot user: %v", err)
		return fmt.Errorf("failed to get bot user: %w", err)
	}

	purged, err := p.purgeBotMessages(ctx, request.ChannelID, botUser.ID)
	if err != nil {
		return err
	}
	log.Info("🧹 Purged %d previous bot messages from channel %s", purged, request.ChannelID)

	if err := p.discordClient.DeleteMessage(ctx, request.ChannelID, request.MessageID); err != nil {
		if core.IsNotFoundError(err) {
			log.Info("🔍 Command message %s is already gone", request.MessageID)
		} else {
			log.Error("❌ Failed to delete command message %s: %v", request.MessageID, err)
			return fmt.Errorf("failed to delete command message: %w", err)
		}
	}

	for _, category := range p.catalog.Categories {
		if _, err := p.discordClient.PostEmbed(ctx, request.ChannelID, RenderCategory(category)); err != nil {
			log.Error("❌ Failed to publish role menu %s: %v", category.Name, err)
			return fmt.Errorf("failed to publish role menu %s: %w", category.Name, err)
		}
		p.metrics.MenusPublished.Inc()
	}

	log.Info("✅ Published %d role menus in channel %s", len(p.catalog.Categories), request.ChannelID)
	return nil
}

func (p *MenuPublisher) requireAdministrator(ctx context.Context, request models.CommandRequest) error {
	isAdmin, err := p.discordClient.IsAdministrator(ctx, request.ChannelID, request.UserID)
	if err != nil {
		log.Error("❌ Failed to check permissions of user %s: %v", request.UserID, err)
		return fmt.Errorf("failed to check permissions: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("user %s: %w", request.UserID, core.ErrPermissionDenied)
	}
	return nil
}

// purgeBotMessages walks back through at most historyLookback messages, newest first,
// deleting the ones the bot wrote
func (p *MenuPublisher) purgeBotMessages(ctx context.Context, channelID, botID string) (int, error) {
	scanned, purged := 0, 0
	beforeID := ""
	for scanned < p.historyLookback {
		limit := min(historyPageSize, p.historyLookback-scanned)
		messages, err := p.discordClient.GetChannelMessages(ctx, channelID, limit, beforeID)
		if err != nil {
			log.Error("❌ Failed to read history of channel %s: %v", channelID, err)
			return purged, fmt.Errorf("failed to read channel history: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		for _, message := range messages {
			scanned++
			if message.AuthorID != botID {
				continue
			}
			if err := p.discordClient.DeleteMessage(ctx, channelID, message.ID); err != nil {
				if core.IsNotFoundError(err) {
					continue
				}
				log.Error("❌ Failed to delete message %s: %v", message.ID, err)
				return purged, fmt.Errorf("failed to delete message %s: %w", message.ID, err)
			}
			purged++
			p.metrics.MessagesPurged.Inc()
		}

		if len(messages) < limit {
			break
		}
		beforeID = messages[len(messages)-1].ID
	}
	return purged, nil
}

// RenderCategory builds the role menu embed for one category
func RenderCategory(category models.Category) models.DiscordEmbed {
	fields := make([]models.DiscordEmbedField, 0, len(category.Entries)+1)
	fields = append(fields, models.DiscordEmbedField{
		Name:  menuTitlePrefix + category.Name,
		Value: menuInstruction,
	})
	for _, entry := range category.Entries {
		fields = append(fields, models.DiscordEmbedField{
			Name:  blankFieldName,
			Value: entry.Label(),
		})
	}

	return models.DiscordEmbed{
		Color:  MenuColor,
		Fields: fields,
	}
}
