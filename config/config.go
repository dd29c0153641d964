package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"rolebot/core/log"
)

const defaultPresenceText = "React to my messages in #react-roles to show how cracked you are"

type DiscordConfig struct {
	BotToken      string
	CommandPrefix string
	PresenceText  string
}

type RolesConfig struct {
	CatalogPath     string // Empty selects the embedded default catalog
	HistoryLookback int
	EnsureAttempts  int
	EnsureInterval  time.Duration
}

type AppConfig struct {
	Port                 string // Optional with default "8080"
	CORSAllowedOrigins   string // Optional with default "*"
	Environment          string
	ServerLogsURL        string
	SlackAlertWebhookURL string
	EventWorkers         int

	DiscordConfig DiscordConfig
	RolesConfig   RolesConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("⚠️ Could not load .env file, continuing with system env vars")
	}

	botToken, err := getEnvRequired("DISCORD_BOT_TOKEN")
	if err != nil {
		// TOKEN is the variable name older deployments of the bot use
		legacyToken, legacyErr := getEnvRequired("TOKEN")
		if legacyErr != nil {
			return nil, err
		}
		botToken = legacyToken
	}

	historyLookback, err := getEnvIntWithDefault("HISTORY_LOOKBACK", 10000)
	if err != nil {
		return nil, err
	}
	ensureAttempts, err := getEnvIntWithDefault("ROLE_ENSURE_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	ensureInterval, err := getEnvDurationWithDefault("ROLE_ENSURE_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	eventWorkers, err := getEnvIntWithDefault("EVENT_WORKERS", 8)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:                 getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins:   getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:          getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:        getEnvWithDefault("SERVER_LOGS_URL", ""),
		SlackAlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		EventWorkers:         eventWorkers,

		DiscordConfig: DiscordConfig{
			BotToken:      botToken,
			CommandPrefix: getEnvWithDefault("COMMAND_PREFIX", "$"),
			PresenceText:  getEnvWithDefault("PRESENCE_TEXT", defaultPresenceText),
		},

		RolesConfig: RolesConfig{
			CatalogPath:     os.Getenv("ROLE_CATALOG_PATH"),
			HistoryLookback: historyLookback,
			EnsureAttempts:  ensureAttempts,
			EnsureInterval:  ensureInterval,
		},
	}

	if config.SlackAlertWebhookURL != "" {
		log.Info("✅ Slack error alerts configured")
	} else {
		log.Info("⚠️ Slack error alerts not configured - errors will only be logged")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return parsed, nil
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return parsed, nil
}
