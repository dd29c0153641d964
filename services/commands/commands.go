package commands

import (
	"context"
	"fmt"
	"time"

	"rolebot/clients"
	"rolebot/core/log"
	"rolebot/metrics"
	"rolebot/models"
	"rolebot/usecases"
)

type CommandsService struct {
	discordClient clients.DiscordClient
	menuPublisher usecases.MenuPublisherInterface
	metrics       *metrics.Metrics
	prefix        string
}

func NewCommandsService(
	discordClient clients.DiscordClient,
	menuPublisher usecases.MenuPublisherInterface,
	m *metrics.Metrics,
	prefix string,
) *CommandsService {
	return &CommandsService{
		discordClient: discordClient,
		menuPublisher: menuPublisher,
		metrics:       m,
		prefix:        prefix,
	}
}

func (s *CommandsService) ProcessCommand(ctx context.Context, request models.CommandRequest) error {
	log.Info("📋 Starting to process command: %s from user %s in channel %s", request.Name, request.UserID, request.ChannelID)

	switch request.Name {
	case models.CommandSetRoles:
		s.metrics.CommandsHandled.WithLabelValues(string(request.Name)).Inc()
		return s.menuPublisher.Publish(ctx, request)
	case models.CommandPing:
		s.metrics.CommandsHandled.WithLabelValues(string(request.Name)).Inc()
		return s.processPing(ctx, request)
	case models.CommandTest:
		s.metrics.CommandsHandled.WithLabelValues(string(request.Name)).Inc()
		return s.processTest(ctx, request)
	default:
		s.metrics.CommandsHandled.WithLabelValues("unknown").Inc()
		log.Info("🔍 Unknown command %q from user %s - ignoring", request.Name, request.UserID)
		return nil
	}
}

func (s *CommandsService) processPing(ctx context.Context, request models.CommandRequest) error {
	latency := s.discordClient.GetLatency().Round(time.Millisecond)
	reply := fmt.Sprintf("Pong! %d ms", latency.Milliseconds())
	return s.reply(ctx, request, reply)
}

func (s *CommandsService) processTest(ctx context.Context, request models.CommandRequest) error {
	if request.Args == "" {
		return s.reply(ctx, request, fmt.Sprintf("Usage: %stest <text>", s.prefix))
	}
	return s.reply(ctx, request, request.Args)
}

func (s *CommandsService) reply(ctx context.Context, request models.CommandRequest, text string) error {
	if _, err := s.discordClient.PostMessage(ctx, request.ChannelID, text); err != nil {
		log.Error("❌ Failed to reply to %s command in channel %s: %v", request.Name, request.ChannelID, err)
		return fmt.Errorf("failed to reply to %s: %w", request.Name, err)
	}
	log.Info("✅ Replied to %s command in channel %s", request.Name, request.ChannelID)
	return nil
}
