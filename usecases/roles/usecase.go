package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"rolebot/appctx"
	"rolebot/clients"
	"rolebot/core"
	"rolebot/core/log"
	"rolebot/metrics"
	"rolebot/models"
)

const (
	DefaultEnsureAttempts = 5
	DefaultEnsureInterval = 500 * time.Millisecond
)

var errRoleNotVisible = errors.New("role not visible yet")

// Options bounds the fetch-after-create loop used when a role has to be created
type Options struct {
	EnsureAttempts int
	EnsureInterval time.Duration
}

// ReactionRolesUseCase grants and revokes guild roles in response to reactions on the
// role menus, and seeds the menus with their reactions once they are posted
type ReactionRolesUseCase struct {
	discordClient clients.DiscordClient
	roleIndex     *models.RoleIndex
	metrics       *metrics.Metrics
	options       Options
	ensureGroup   singleflight.Group
}

func NewReactionRolesUseCase(
	discordClient clients.DiscordClient,
	roleIndex *models.RoleIndex,
	m *metrics.Metrics,
	options Options,
) *ReactionRolesUseCase {
	if options.EnsureAttempts <= 0 {
		options.EnsureAttempts = DefaultEnsureAttempts
	}
	if options.EnsureInterval <= 0 {
		options.EnsureInterval = DefaultEnsureInterval
	}
	return &ReactionRolesUseCase{
		discordClient: discordClient,
		roleIndex:     roleIndex,
		metrics:       m,
		options:       options,
	}
}

func (u *ReactionRolesUseCase) ProcessReactionAdd(ctx context.Context, event models.DiscordReactionEvent) error {
	log.Info("📋 Starting to process reaction add %s from user %s on message %s in guild %s (event %s)",
		event.EmojiName, event.UserID, event.MessageID, event.GuildID, appctx.EventIDOrUnknown(ctx))

	role, proceed, err := u.resolveRole(ctx, "add", event)
	if err != nil || !proceed {
		return err
	}

	if event.Member == nil {
		log.Warn("⚠️ Member not found for user %s in guild %s - skipping grant of role %s",
			event.UserID, event.GuildID, role.Name)
		u.metrics.ReactionEvents.WithLabelValues("add", metrics.OutcomeNoMember).Inc()
		return nil
	}

	if err := u.discordClient.AddMemberRole(ctx, event.GuildID, event.Member.UserID, role.ID); err != nil {
		u.metrics.ReactionEvents.WithLabelValues("add", metrics.OutcomeError).Inc()
		log.Error("❌ Failed to grant role %s to user %s: %v", role.Name, event.Member.UserID, err)
		return fmt.Errorf("failed to grant role %s: %w", role.Name, err)
	}

	u.metrics.ReactionEvents.WithLabelValues("add", metrics.OutcomeGranted).Inc()
	log.Info("✅ Granted role %s to user %s in guild %s", role.Name, event.Member.UserID, event.GuildID)
	return nil
}

func (u *ReactionRolesUseCase) ProcessReactionRemove(ctx context.Context, event models.DiscordReactionEvent) error {
	log.Info("📋 Starting to process reaction remove %s from user %s on message %s in guild %s (event %s)",
		event.EmojiName, event.UserID, event.MessageID, event.GuildID, appctx.EventIDOrUnknown(ctx))

	role, proceed, err := u.resolveRole(ctx, "remove", event)
	if err != nil || !proceed {
		return err
	}

	maybeMember, err := u.discordClient.GetGuildMember(ctx, event.GuildID, event.UserID)
	if err != nil {
		u.metrics.ReactionEvents.WithLabelValues("remove", metrics.OutcomeError).Inc()
		log.Error("❌ Failed to look up member %s in guild %s: %v", event.UserID, event.GuildID, err)
		return fmt.Errorf("failed to look up member %s: %w", event.UserID, err)
	}
	if !maybeMember.IsPresent() {
		log.Warn("⚠️ Member not found for user %s in guild %s - skipping revoke of role %s",
			event.UserID, event.GuildID, role.Name)
		u.metrics.ReactionEvents.WithLabelValues("remove", metrics.OutcomeNoMember).Inc()
		return nil
	}
	member := maybeMember.MustGet()

	if err := u.discordClient.RemoveMemberRole(ctx, event.GuildID, member.UserID, role.ID); err != nil {
		u.metrics.ReactionEvents.WithLabelValues("remove", metrics.OutcomeError).Inc()
		log.Error("❌ Failed to revoke role %s from user %s: %v", role.Name, member.UserID, err)
		return fmt.Errorf("failed to revoke role %s: %w", role.Name, err)
	}

	u.metrics.ReactionEvents.WithLabelValues("remove", metrics.OutcomeRevoked).Inc()
	log.Info("✅ Revoked role %s from user %s in guild %s", role.Name, member.UserID, event.GuildID)
	return nil
}

// resolveRole applies the checks shared by add and remove: the bot's own reactions are
// ignored, the emoji must be in the catalog, and the mapped role must exist in the guild.
// proceed is false when the event should be dropped without error.
func (u *ReactionRolesUseCase) resolveRole(
	ctx context.Context,
	action string,
	event models.DiscordReactionEvent,
) (*models.GuildRole, bool, error) {
	botUser, err := u.discordClient.GetBotUser()
	if err != nil {
		log.Error("❌ Failed to get bot user: %v", err)
		return nil, false, fmt.Errorf("failed to get bot user: %w", err)
	}
	if event.UserID == botUser.ID {
		log.Debug("🤖 Ignoring reaction %s %s by the bot itself on message %s", action, event.EmojiName, event.MessageID)
		u.metrics.ReactionEvents.WithLabelValues(action, metrics.OutcomeIgnoredSelf).Inc()
		return nil, false, nil
	}

	maybeRoleName := u.roleIndex.Lookup(event.EmojiName)
	if !maybeRoleName.IsPresent() {
		log.Warn("⚠️ Role not found for emoji %s (user %s, guild %s)", event.EmojiName, event.UserID, event.GuildID)
		u.metrics.ReactionEvents.WithLabelValues(action, metrics.OutcomeRoleNotFound).Inc()
		return nil, false, nil
	}

	role, err := u.EnsureRole(ctx, event.GuildID, maybeRoleName.MustGet())
	if err != nil {
		u.metrics.ReactionEvents.WithLabelValues(action, metrics.OutcomeError).Inc()
		return nil, false, err
	}
	return role, true, nil
}

// EnsureRole returns the guild role with the given name, creating it as mentionable when
// absent. Concurrent callers for the same guild and role share a single lookup/creation.
func (u *ReactionRolesUseCase) EnsureRole(ctx context.Context, guildID, roleName string) (*models.GuildRole, error) {
	key := guildID + "\x00" + roleName
	result, err, shared := u.ensureGroup.Do(key, func() (any, error) {
		return u.findOrCreateRole(ctx, guildID, roleName)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("🔁 Shared in-flight ensure of role %s in guild %s", roleName, guildID)
	}
	return result.(*models.GuildRole), nil
}

func (u *ReactionRolesUseCase) findOrCreateRole(ctx context.Context, guildID, roleName string) (*models.GuildRole, error) {
	roles, err := u.discordClient.GetGuildRoles(ctx, guildID)
	if err != nil {
		log.Error("❌ Failed to fetch roles for guild %s: %v", guildID, err)
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	if role := findRoleByName(roles, roleName); role != nil {
		return role, nil
	}

	log.Info("🆕 Role %s does not exist in guild %s - creating it", roleName, guildID)
	if _, err := u.discordClient.CreateGuildRole(ctx, guildID, roleName, true); err != nil {
		log.Error("❌ Failed to create role %s in guild %s: %v", roleName, guildID, err)
		return nil, fmt.Errorf("failed to create role %s: %w", roleName, err)
	}
	u.metrics.RolesCreated.Inc()

	// The created role is not guaranteed to be listed right away
	var role *models.GuildRole
	refetch := func() error {
		roles, err := u.discordClient.GetGuildRoles(ctx, guildID)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to refetch guild roles: %w", err))
		}
		role = findRoleByName(roles, roleName)
		if role == nil {
			return errRoleNotVisible
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(u.options.EnsureInterval),
			uint64(u.options.EnsureAttempts-1),
		),
		ctx,
	)
	if err := backoff.Retry(refetch, policy); err != nil {
		if errors.Is(err, errRoleNotVisible) {
			log.Error("❌ Role %s still missing in guild %s after %d fetches", roleName, guildID, u.options.EnsureAttempts)
			return nil, fmt.Errorf("role %s in guild %s: %w", roleName, guildID, core.ErrCreateRoleFailure)
		}
		return nil, err
	}

	log.Info("✅ Created role %s (%s) in guild %s", role.Name, role.ID, guildID)
	return role, nil
}

// MirrorBotMessage adds the catalog reactions to a role menu the bot has just posted.
// Messages by anyone other than the bot are ignored.
func (u *ReactionRolesUseCase) MirrorBotMessage(ctx context.Context, event models.DiscordMessageEvent) error {
	botUser, err := u.discordClient.GetBotUser()
	if err != nil {
		log.Error("❌ Failed to get bot user: %v", err)
		return fmt.Errorf("failed to get bot user: %w", err)
	}
	if event.AuthorID != botUser.ID {
		return nil
	}

	entries := u.roleIndex.Entries()
	added := make(map[string]bool)
	for _, embed := range event.Embeds {
		if len(embed.Fields) < 2 {
			continue
		}
		// The first field is the menu title
		for _, field := range embed.Fields[1:] {
			for _, entry := range entries {
				if added[entry.Emoji] || !strings.Contains(field.Value, entry.Label()) {
					continue
				}
				if err := u.discordClient.AddReaction(ctx, event.ChannelID, event.MessageID, entry.Emoji); err != nil {
					log.Error("❌ Failed to add reaction %s to message %s: %v", entry.Emoji, event.MessageID, err)
					return fmt.Errorf("failed to mirror reaction %s: %w", entry.Emoji, err)
				}
				added[entry.Emoji] = true
				u.metrics.MirroredEmojis.Inc()
			}
		}
	}

	if len(added) > 0 {
		log.Info("✅ Added %d reactions to role menu %s in channel %s", len(added), event.MessageID, event.ChannelID)
	}
	return nil
}

func findRoleByName(roles []*models.GuildRole, name string) *models.GuildRole {
	for _, role := range roles {
		if role != nil && role.Name == name {
			return role
		}
	}
	return nil
}
