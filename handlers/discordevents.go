package handlers

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"rolebot/appctx"
	"rolebot/clients"
	discordclient "rolebot/clients/discord"
	"rolebot/core"
	"rolebot/core/log"
	"rolebot/metrics"
	"rolebot/middleware"
	"rolebot/models"
	"rolebot/services"
	"rolebot/usecases"
	"rolebot/utils"
)

const DefaultEventWorkers = 8

type DiscordEventsHandlerConfig struct {
	CommandPrefix string
	PresenceText  string
	EventWorkers  int
}

type DiscordEventsHandler struct {
	discordSDKClient     *discordgo.Session
	discordClient        clients.DiscordClient
	reactionRolesUseCase usecases.ReactionRolesUseCaseInterface
	commandsService      services.CommandsService
	alertMiddleware      *middleware.ErrorAlertMiddleware
	metrics              *metrics.Metrics
	pool                 *workerpool.WorkerPool
	config               DiscordEventsHandlerConfig
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	discordClient clients.DiscordClient,
	reactionRolesUseCase usecases.ReactionRolesUseCaseInterface,
	commandsService services.CommandsService,
	alertMiddleware *middleware.ErrorAlertMiddleware,
	m *metrics.Metrics,
	config DiscordEventsHandlerConfig,
) *DiscordEventsHandler {
	if config.EventWorkers <= 0 {
		config.EventWorkers = DefaultEventWorkers
	}

	handler := &DiscordEventsHandler{
		discordSDKClient:     session,
		discordClient:        discordClient,
		reactionRolesUseCase: reactionRolesUseCase,
		commandsService:      commandsService,
		alertMiddleware:      alertMiddleware,
		metrics:              m,
		pool:                 workerpool.New(config.EventWorkers),
		config:               config,
	}

	// Handlers run on the gateway goroutine and only enqueue work onto the pool
	session.SyncEvents = true
	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)
	session.AddHandler(handler.handleReactionAddedEvent)
	session.AddHandler(handler.handleReactionRemovedEvent)

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the gateway connection, then waits for queued events to finish
func (h *DiscordEventsHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Warn("⚠️ Failed to close Discord session cleanly: %v", err)
	}
	h.pool.StopWait()
	log.Info("🛑 Discord event workers drained")
}

// dispatch runs task on the worker pool under a fresh event ID, with errors and panics
// routed through the alert middleware
func (h *DiscordEventsHandler) dispatch(eventName string, task func(ctx context.Context) error) {
	eventID := core.NewID("evt")
	ctx := appctx.SetEventID(context.Background(), eventID)
	wrapped := h.alertMiddleware.WrapBackgroundTask(eventName, func() error {
		return task(ctx)
	})

	h.pool.Submit(func() {
		if err := wrapped(); err != nil {
			h.metrics.EventTasks.WithLabelValues(eventName, "error").Inc()
			log.Error("❌ Failed to handle %s event %s: %v", eventName, eventID, err)
			return
		}
		h.metrics.EventTasks.WithLabelValues(eventName, "ok").Inc()
	})
}

func (h *DiscordEventsHandler) handleReadyEvent(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		log.Info("✅ Logged in as %s (%s)", r.User.Username, r.User.ID)
	}

	h.dispatch("ready", func(ctx context.Context) error {
		if err := h.discordClient.UpdatePresence(h.config.PresenceText); err != nil {
			return err
		}
		log.Info("🎮 Presence set to %q", h.config.PresenceText)
		return nil
	})
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil {
		return
	}

	botUser, err := h.discordClient.GetBotUser()
	if err != nil {
		log.Error("❌ Failed to get bot user: %v", err)
		return
	}

	messageEvent := mapToDiscordMessageEvent(m)

	if messageEvent.AuthorID == botUser.ID {
		if len(messageEvent.Embeds) == 0 {
			return
		}
		log.Debug("📨 Own message %s observed in channel %s", messageEvent.MessageID, messageEvent.ChannelID)
		h.dispatch("message_mirror", func(ctx context.Context) error {
			return h.reactionRolesUseCase.MirrorBotMessage(ctx, messageEvent)
		})
		return
	}
	if messageEvent.AuthorBot {
		return
	}

	detection := utils.DetectCommand(messageEvent.Content, h.config.CommandPrefix, botUser.ID)
	if !detection.IsCommand {
		return
	}

	request := models.CommandRequest{
		GuildID:   messageEvent.GuildID,
		ChannelID: messageEvent.ChannelID,
		MessageID: messageEvent.MessageID,
		UserID:    messageEvent.AuthorID,
		Name:      detection.Name,
		Args:      detection.Args,
	}
	log.Info("📨 Command %s received from user %s in channel %s", request.Name, request.UserID, request.ChannelID)
	h.dispatch("command", func(ctx context.Context) error {
		return h.commandsService.ProcessCommand(ctx, request)
	})
}

func (h *DiscordEventsHandler) handleReactionAddedEvent(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}
	log.Info("🤖 Discord reaction %s added by user %s on message %s in guild %s",
		r.Emoji.Name, r.UserID, r.MessageID, r.GuildID)

	reactionEvent := mapToDiscordReactionAddEvent(r)
	h.dispatch("reaction_add", func(ctx context.Context) error {
		return h.reactionRolesUseCase.ProcessReactionAdd(ctx, reactionEvent)
	})
}

func (h *DiscordEventsHandler) handleReactionRemovedEvent(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil {
		return
	}
	log.Info("🤖 Discord reaction %s removed by user %s on message %s in guild %s",
		r.Emoji.Name, r.UserID, r.MessageID, r.GuildID)

	reactionEvent := mapToDiscordReactionEvent(r.MessageReaction)
	h.dispatch("reaction_remove", func(ctx context.Context) error {
		return h.reactionRolesUseCase.ProcessReactionRemove(ctx, reactionEvent)
	})
}

// mapToDiscordMessageEvent maps a Discord SDK message event to our domain model
func mapToDiscordMessageEvent(m *discordgo.MessageCreate) models.DiscordMessageEvent {
	mentions := make([]string, 0, len(m.Mentions))
	for _, mentionedUser := range m.Mentions {
		if mentionedUser != nil {
			mentions = append(mentions, mentionedUser.ID)
		}
	}

	return models.DiscordMessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
		Mentions:  mentions,
		Embeds:    discordclient.FromSDKEmbeds(m.Embeds),
	}
}

// mapToDiscordReactionAddEvent keeps the member the platform attaches to add payloads
func mapToDiscordReactionAddEvent(r *discordgo.MessageReactionAdd) models.DiscordReactionEvent {
	event := mapToDiscordReactionEvent(r.MessageReaction)
	if r.Member == nil {
		return event
	}
	if r.Member.User == nil {
		event.Member = &models.GuildMember{
			UserID:  r.UserID,
			RoleIDs: append([]string(nil), r.Member.Roles...),
		}
		return event
	}
	event.Member = discordclient.ToGuildMember(r.Member)
	return event
}

func mapToDiscordReactionEvent(r *discordgo.MessageReaction) models.DiscordReactionEvent {
	return models.DiscordReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		EmojiName: r.Emoji.Name,
	}
}
