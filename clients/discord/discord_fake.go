package discord

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/samber/mo"

	"rolebot/clients"
	"rolebot/core"
	"rolebot/models"
)

// FakeDiscordClient is an in-memory clients.DiscordClient used by tests that need
// platform state to persist across calls (menu republishing, grant/revoke round trips).
type FakeDiscordClient struct {
	mu sync.Mutex

	BotUser clients.DiscordBotUser
	Latency time.Duration

	// RoleVisibilityLag hides a freshly created role from this many subsequent
	// GetGuildRoles calls, mimicking the platform's eventual consistency.
	RoleVisibilityLag int
	// CreateRoleDelay stalls CreateGuildRole to widen race windows in concurrency tests.
	CreateRoleDelay time.Duration

	nextID     int
	messages   map[string][]*fakeMessage // channelID -> chronological
	roles      map[string][]*fakeRole    // guildID -> roles
	members    map[string]map[string]*models.GuildMember
	admins     map[string]bool
	presence   string
	createHits int
	roleCalls  int
}

type fakeMessage struct {
	clients.DiscordMessage
	Embed     *models.DiscordEmbed
	Reactions []string
}

type fakeRole struct {
	models.GuildRole
	hiddenFor int
}

func NewFakeDiscordClient(botID string) *FakeDiscordClient {
	return &FakeDiscordClient{
		BotUser:  clients.DiscordBotUser{ID: botID, Username: "rolebot", Bot: true},
		nextID:   1000,
		messages: make(map[string][]*fakeMessage),
		roles:    make(map[string][]*fakeRole),
		members:  make(map[string]map[string]*models.GuildMember),
		admins:   make(map[string]bool),
	}
}

func (f *FakeDiscordClient) newID() string {
	f.nextID++
	return strconv.Itoa(f.nextID)
}

// SeedMessage appends a message to a channel's history and returns its ID
func (f *FakeDiscordClient) SeedMessage(channelID, authorID, content string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.messages[channelID] = append(f.messages[channelID], &fakeMessage{
		DiscordMessage: clients.DiscordMessage{ID: id, ChannelID: channelID, AuthorID: authorID, Content: content},
	})
	return id
}

func (f *FakeDiscordClient) SeedMember(guildID string, member models.GuildMember) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[guildID] == nil {
		f.members[guildID] = make(map[string]*models.GuildMember)
	}
	m := member
	f.members[guildID][member.UserID] = &m
}

func (f *FakeDiscordClient) SetAdministrator(userID string, admin bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins[userID] = admin
}

// ChannelMessages returns the channel history in chronological order
func (f *FakeDiscordClient) ChannelMessages(channelID string) []clients.DiscordMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]clients.DiscordMessage, 0, len(f.messages[channelID]))
	for _, m := range f.messages[channelID] {
		result = append(result, m.DiscordMessage)
	}
	return result
}

// ChannelEmbeds returns the embeds posted to a channel in chronological order
func (f *FakeDiscordClient) ChannelEmbeds(channelID string) []models.DiscordEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.DiscordEmbed
	for _, m := range f.messages[channelID] {
		if m.Embed != nil {
			result = append(result, *m.Embed)
		}
	}
	return result
}

func (f *FakeDiscordClient) Reactions(channelID, messageID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages[channelID] {
		if m.ID == messageID {
			return append([]string(nil), m.Reactions...)
		}
	}
	return nil
}

func (f *FakeDiscordClient) MemberRoleIDs(guildID, userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[guildID][userID]
	if !ok {
		return nil
	}
	return append([]string(nil), member.RoleIDs...)
}

// RolesNamed returns every role in the guild with the given name, visible or not
func (f *FakeDiscordClient) RolesNamed(guildID, name string) []models.GuildRole {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.GuildRole
	for _, r := range f.roles[guildID] {
		if r.Name == name {
			result = append(result, r.GuildRole)
		}
	}
	return result
}

func (f *FakeDiscordClient) CreateRoleCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createHits
}

// RoleMutationCalls counts AddMemberRole and RemoveMemberRole invocations
func (f *FakeDiscordClient) RoleMutationCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roleCalls
}

func (f *FakeDiscordClient) Presence() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presence
}

func (f *FakeDiscordClient) GetBotUser() (*clients.DiscordBotUser, error) {
	user := f.BotUser
	return &user, nil
}

func (f *FakeDiscordClient) GetLatency() time.Duration {
	return f.Latency
}

func (f *FakeDiscordClient) UpdatePresence(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presence = text
	return nil
}

func (f *FakeDiscordClient) GetChannelMessages(
	_ context.Context,
	channelID string,
	limit int,
	beforeID string,
) ([]*clients.DiscordMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	history := f.messages[channelID]
	var result []*clients.DiscordMessage
	for i := len(history) - 1; i >= 0 && len(result) < limit; i-- {
		m := history[i]
		if beforeID != "" && !idLess(m.ID, beforeID) {
			continue
		}
		msg := m.DiscordMessage
		result = append(result, &msg)
	}
	return result, nil
}

func (f *FakeDiscordClient) PostMessage(
	_ context.Context,
	channelID, content string,
) (*clients.DiscordPostMessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.messages[channelID] = append(f.messages[channelID], &fakeMessage{
		DiscordMessage: clients.DiscordMessage{ID: id, ChannelID: channelID, AuthorID: f.BotUser.ID, Content: content},
	})
	return &clients.DiscordPostMessageResponse{ChannelID: channelID, MessageID: id}, nil
}

func (f *FakeDiscordClient) PostEmbed(
	_ context.Context,
	channelID string,
	embed models.DiscordEmbed,
) (*clients.DiscordPostMessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	e := embed
	f.messages[channelID] = append(f.messages[channelID], &fakeMessage{
		DiscordMessage: clients.DiscordMessage{ID: id, ChannelID: channelID, AuthorID: f.BotUser.ID},
		Embed:          &e,
	})
	return &clients.DiscordPostMessageResponse{ChannelID: channelID, MessageID: id}, nil
}

func (f *FakeDiscordClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.messages[channelID]
	for i, m := range history {
		if m.ID == messageID {
			f.messages[channelID] = slices.Delete(history, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", messageID, core.ErrNotFound)
}

func (f *FakeDiscordClient) AddReaction(_ context.Context, channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages[channelID] {
		if m.ID == messageID {
			if !slices.Contains(m.Reactions, emoji) {
				m.Reactions = append(m.Reactions, emoji)
			}
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", messageID, core.ErrNotFound)
}

func (f *FakeDiscordClient) GetGuildRoles(_ context.Context, guildID string) ([]*models.GuildRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.GuildRole
	for _, r := range f.roles[guildID] {
		if r.hiddenFor > 0 {
			r.hiddenFor--
			continue
		}
		role := r.GuildRole
		result = append(result, &role)
	}
	return result, nil
}

func (f *FakeDiscordClient) CreateGuildRole(
	_ context.Context,
	guildID, name string,
	mentionable bool,
) (*models.GuildRole, error) {
	if f.CreateRoleDelay > 0 {
		time.Sleep(f.CreateRoleDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.createHits++
	role := &fakeRole{
		GuildRole: models.GuildRole{ID: "role-" + f.newID(), Name: name, Mentionable: mentionable},
		hiddenFor: f.RoleVisibilityLag,
	}
	f.roles[guildID] = append(f.roles[guildID], role)
	created := role.GuildRole
	return &created, nil
}

func (f *FakeDiscordClient) AddMemberRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	member, ok := f.members[guildID][userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, core.ErrNotFound)
	}
	if !slices.Contains(member.RoleIDs, roleID) {
		member.RoleIDs = append(member.RoleIDs, roleID)
	}
	return nil
}

func (f *FakeDiscordClient) RemoveMemberRole(_ context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleCalls++
	member, ok := f.members[guildID][userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, core.ErrNotFound)
	}
	member.RoleIDs = slices.DeleteFunc(member.RoleIDs, func(id string) bool { return id == roleID })
	return nil
}

func (f *FakeDiscordClient) GetGuildMember(
	_ context.Context,
	guildID, userID string,
) (mo.Option[*models.GuildMember], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[guildID][userID]
	if !ok {
		return mo.None[*models.GuildMember](), nil
	}
	m := *member
	m.RoleIDs = append([]string(nil), member.RoleIDs...)
	return mo.Some(&m), nil
}

func (f *FakeDiscordClient) IsAdministrator(_ context.Context, _, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.admins[userID], nil
}

func idLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}
