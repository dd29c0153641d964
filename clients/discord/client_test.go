package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolebot/models"
)

// newTestClient points discordgo's guild endpoints at a local server for the duration of the test
func newTestClient(t *testing.T, handler http.HandlerFunc) *DiscordClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	originalGuilds := discordgo.EndpointGuilds
	discordgo.EndpointGuilds = server.URL + "/guilds/"
	t.Cleanup(func() { discordgo.EndpointGuilds = originalGuilds })

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.MaxRestRetries = 0

	return NewDiscordClient(session)
}

func TestDiscordClient_GetGuildRoles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/guilds/guild-1/roles", r.URL.Path)
		assert.Equal(t, "Bot test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "r1", "name": "python", "mentionable": true},
			{"id": "r2", "name": "rust", "mentionable": false},
		})
	})

	roles, err := client.GetGuildRoles(context.Background(), "guild-1")

	require.NoError(t, err)
	assert.Equal(t, []*models.GuildRole{
		{ID: "r1", Name: "python", Mentionable: true},
		{ID: "r2", Name: "rust", Mentionable: false},
	}, roles)
}

func TestDiscordClient_CreateGuildRole(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/guilds/guild-1/roles", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "golang", body["name"])
		assert.Equal(t, true, body["mentionable"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "r9", "name": "golang", "mentionable": true})
	})

	role, err := client.CreateGuildRole(context.Background(), "guild-1", "golang", true)

	require.NoError(t, err)
	assert.Equal(t, &models.GuildRole{ID: "r9", Name: "golang", Mentionable: true}, role)
}

func TestDiscordClient_GetGuildMember(t *testing.T) {
	t.Run("member found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/guilds/guild-1/members/user-1", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"user":  map[string]any{"id": "user-1", "username": "ada"},
				"roles": []string{"r1"},
			})
		})

		maybeMember, err := client.GetGuildMember(context.Background(), "guild-1", "user-1")

		require.NoError(t, err)
		require.True(t, maybeMember.IsPresent())
		assert.Equal(t, &models.GuildMember{UserID: "user-1", Username: "ada", RoleIDs: []string{"r1"}}, maybeMember.MustGet())
	})

	t.Run("unknown member yields none", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Unknown Member", "code": 10007}`))
		})

		maybeMember, err := client.GetGuildMember(context.Background(), "guild-1", "user-404")

		require.NoError(t, err)
		assert.False(t, maybeMember.IsPresent())
	})

	t.Run("other errors propagate", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "Missing Access", "code": 50001}`))
		})

		maybeMember, err := client.GetGuildMember(context.Background(), "guild-1", "user-1")

		require.Error(t, err)
		assert.False(t, maybeMember.IsPresent())
		assert.Contains(t, err.Error(), "failed to fetch member user-1")
	})
}

func TestDiscordClient_AddMemberRole(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/guilds/guild-1/members/user-1/roles/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.AddMemberRole(context.Background(), "guild-1", "user-1", "r1")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestHasAdministrator(t *testing.T) {
	assert.True(t, HasAdministrator(discordgo.PermissionAdministrator))
	assert.True(t, HasAdministrator(discordgo.PermissionAll))
	assert.False(t, HasAdministrator(discordgo.PermissionSendMessages|discordgo.PermissionManageRoles))
	assert.False(t, HasAdministrator(0))
}

func TestEmbedConversion(t *testing.T) {
	embed := models.DiscordEmbed{
		Color: 0xFF0000,
		Fields: []models.DiscordEmbedField{
			{Name: "Role Menu: Operating Systems", Value: "React to give yourself a role."},
			{Name: "\u200b", Value: "🐧 : linux"},
		},
	}

	sdkEmbed := ToSDKEmbed(embed)

	require.Len(t, sdkEmbed.Fields, 2)
	assert.Equal(t, 0xFF0000, sdkEmbed.Color)
	assert.Equal(t, "🐧 : linux", sdkEmbed.Fields[1].Value)

	roundTripped := FromSDKEmbeds([]*discordgo.MessageEmbed{sdkEmbed, nil})
	require.Len(t, roundTripped, 1)
	assert.Equal(t, embed, roundTripped[0])
}

func TestIsUnknownMemberError(t *testing.T) {
	assert.False(t, isUnknownMemberError(nil))
	assert.True(t, isUnknownMemberError(&discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
	}))
	assert.True(t, isUnknownMemberError(&discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
	}))
	assert.False(t, isUnknownMemberError(&discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
	}))
}
