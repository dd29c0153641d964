package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/mo"

	"rolebot/clients"
	"rolebot/models"
)

// DiscordClient implements the clients.DiscordClient interface on top of a discordgo session
type DiscordClient struct {
	session *discordgo.Session
}

// NewDiscordClient wraps an existing session. The session is shared with the events handler,
// which owns the gateway connection.
func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{
		session: session,
	}
}

// GetBotUser returns the user the session is authenticated as
func (c *DiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	user := c.session.State.User
	if user == nil {
		var err error
		user, err = c.session.User("@me")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch bot user: %w", err)
		}
	}

	return &clients.DiscordBotUser{
		ID:       user.ID,
		Username: user.Username,
		Bot:      user.Bot,
	}, nil
}

// GetLatency returns the last measured gateway heartbeat round trip
func (c *DiscordClient) GetLatency() time.Duration {
	return c.session.HeartbeatLatency()
}

func (c *DiscordClient) UpdatePresence(text string) error {
	if err := c.session.UpdateGameStatus(0, text); err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}
	return nil
}

func (c *DiscordClient) GetChannelMessages(
	ctx context.Context,
	channelID string,
	limit int,
	beforeID string,
) ([]*clients.DiscordMessage, error) {
	messages, err := c.session.ChannelMessages(channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages for channel %s: %w", channelID, err)
	}

	result := make([]*clients.DiscordMessage, 0, len(messages))
	for _, m := range messages {
		msg := &clients.DiscordMessage{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			Content:   m.Content,
		}
		if m.Author != nil {
			msg.AuthorID = m.Author.ID
		}
		result = append(result, msg)
	}
	return result, nil
}

func (c *DiscordClient) PostMessage(
	ctx context.Context,
	channelID, content string,
) (*clients.DiscordPostMessageResponse, error) {
	msg, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	return &clients.DiscordPostMessageResponse{
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
	}, nil
}

func (c *DiscordClient) PostEmbed(
	ctx context.Context,
	channelID string,
	embed models.DiscordEmbed,
) (*clients.DiscordPostMessageResponse, error) {
	msg, err := c.session.ChannelMessageSendEmbed(channelID, ToSDKEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}

	return &clients.DiscordPostMessageResponse{
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
	}, nil
}

func (c *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction %s to message %s: %w", emoji, messageID, err)
	}
	return nil
}

func (c *DiscordClient) GetGuildRoles(ctx context.Context, guildID string) ([]*models.GuildRole, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}

	result := make([]*models.GuildRole, 0, len(roles))
	for _, r := range roles {
		result = append(result, toGuildRole(r))
	}
	return result, nil
}

func (c *DiscordClient) CreateGuildRole(
	ctx context.Context,
	guildID, name string,
	mentionable bool,
) (*models.GuildRole, error) {
	role, err := c.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Mentionable: &mentionable,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create role %q in guild %s: %w", name, guildID, err)
	}
	return toGuildRole(role), nil
}

func (c *DiscordClient) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %s to member %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *DiscordClient) RemoveMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to remove role %s from member %s: %w", roleID, userID, err)
	}
	return nil
}

// GetGuildMember resolves a member of a guild. Unknown members yield None rather than an error.
func (c *DiscordClient) GetGuildMember(
	ctx context.Context,
	guildID, userID string,
) (mo.Option[*models.GuildMember], error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMemberError(err) {
			return mo.None[*models.GuildMember](), nil
		}
		return mo.None[*models.GuildMember](), fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	if member == nil || member.User == nil {
		return mo.None[*models.GuildMember](), nil
	}

	return mo.Some(ToGuildMember(member)), nil
}

// IsAdministrator reports whether the user holds the Administrator permission in the
// guild that owns the channel
func (c *DiscordClient) IsAdministrator(ctx context.Context, channelID, userID string) (bool, error) {
	permissions, err := c.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to resolve permissions for user %s: %w", userID, err)
	}
	return HasAdministrator(permissions), nil
}

func HasAdministrator(permissions int64) bool {
	return permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// ToSDKEmbed converts a domain embed into its discordgo representation
func ToSDKEmbed(embed models.DiscordEmbed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  embed.Title,
		Color:  embed.Color,
		Fields: fields,
	}
}

// FromSDKEmbeds converts discordgo embeds into domain embeds, skipping nil entries
func FromSDKEmbeds(embeds []*discordgo.MessageEmbed) []models.DiscordEmbed {
	result := make([]models.DiscordEmbed, 0, len(embeds))
	for _, e := range embeds {
		if e == nil {
			continue
		}
		embed := models.DiscordEmbed{
			Title: e.Title,
			Color: e.Color,
		}
		for _, f := range e.Fields {
			if f == nil {
				continue
			}
			embed.Fields = append(embed.Fields, models.DiscordEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		result = append(result, embed)
	}
	return result
}

// ToGuildMember converts a discordgo member; the member must carry its user
func ToGuildMember(member *discordgo.Member) *models.GuildMember {
	return &models.GuildMember{
		UserID:   member.User.ID,
		Username: member.User.Username,
		RoleIDs:  append([]string(nil), member.Roles...),
	}
}

func toGuildRole(role *discordgo.Role) *models.GuildRole {
	return &models.GuildRole{
		ID:          role.ID,
		Name:        role.Name,
		Mentionable: role.Mentionable,
	}
}

func isUnknownMemberError(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
