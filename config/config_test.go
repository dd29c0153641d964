package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DISCORD_BOT_TOKEN", "TOKEN", "COMMAND_PREFIX", "PRESENCE_TEXT",
		"ROLE_CATALOG_PATH", "HISTORY_LOOKBACK", "ROLE_ENSURE_ATTEMPTS", "ROLE_ENSURE_INTERVAL",
		"EVENT_WORKERS", "PORT", "CORS_ALLOWED_ORIGINS", "ENVIRONMENT",
		"SERVER_LOGS_URL", "SLACK_ALERT_WEBHOOK_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.DiscordConfig.BotToken)
	assert.Equal(t, "$", cfg.DiscordConfig.CommandPrefix)
	assert.Equal(t, defaultPresenceText, cfg.DiscordConfig.PresenceText)
	assert.Equal(t, "", cfg.RolesConfig.CatalogPath)
	assert.Equal(t, 10000, cfg.RolesConfig.HistoryLookback)
	assert.Equal(t, 5, cfg.RolesConfig.EnsureAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RolesConfig.EnsureInterval)
	assert.Equal(t, 8, cfg.EventWorkers)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Empty(t, cfg.SlackAlertWebhookURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_BOT_TOKEN", "secret")
	t.Setenv("COMMAND_PREFIX", "!")
	t.Setenv("ROLE_CATALOG_PATH", "/etc/rolebot/roles.yaml")
	t.Setenv("HISTORY_LOOKBACK", "500")
	t.Setenv("ROLE_ENSURE_ATTEMPTS", "3")
	t.Setenv("ROLE_ENSURE_INTERVAL", "2s")
	t.Setenv("EVENT_WORKERS", "16")
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SLACK_ALERT_WEBHOOK_URL", "https://hooks.slack.com/services/x")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "!", cfg.DiscordConfig.CommandPrefix)
	assert.Equal(t, "/etc/rolebot/roles.yaml", cfg.RolesConfig.CatalogPath)
	assert.Equal(t, 500, cfg.RolesConfig.HistoryLookback)
	assert.Equal(t, 3, cfg.RolesConfig.EnsureAttempts)
	assert.Equal(t, 2*time.Second, cfg.RolesConfig.EnsureInterval)
	assert.Equal(t, 16, cfg.EventWorkers)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "https://hooks.slack.com/services/x", cfg.SlackAlertWebhookURL)
}

func TestLoadConfig_LegacyTokenVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN", "legacy-secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "legacy-secret", cfg.DiscordConfig.BotToken)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()

	assert.EqualError(t, err, "DISCORD_BOT_TOKEN is not set")
}

func TestLoadConfig_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Non-numeric lookback", "HISTORY_LOOKBACK", "lots"},
		{"Zero attempts", "ROLE_ENSURE_ATTEMPTS", "0"},
		{"Negative workers", "EVENT_WORKERS", "-2"},
		{"Bad interval", "ROLE_ENSURE_INTERVAL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DISCORD_BOT_TOKEN", "secret")
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
