package utils

import (
	"strings"

	"rolebot/models"
)

// CommandDetectionResult represents the result of command detection
type CommandDetectionResult struct {
	IsCommand bool
	Name      models.CommandName
	Args      string
}

// DetectCommand checks whether a message addresses the bot, either through the command
// prefix or by starting with a mention of the bot, and splits out the command name and
// its arguments. Command names are matched case-insensitively.
func DetectCommand(messageText, prefix, botID string) CommandDetectionResult {
	text := strings.TrimSpace(messageText)

	body, addressed := stripBotMention(text, botID)
	if !addressed && prefix != "" {
		body, addressed = strings.CutPrefix(text, prefix)
	}
	if !addressed {
		return CommandDetectionResult{}
	}

	// "<@bot> $ping" is accepted as well
	body = strings.TrimSpace(body)
	if prefix != "" {
		body = strings.TrimPrefix(body, prefix)
	}

	name, args, _ := strings.Cut(strings.TrimSpace(body), " ")
	if name == "" {
		return CommandDetectionResult{}
	}

	return CommandDetectionResult{
		IsCommand: true,
		Name:      models.CommandName(strings.ToLower(name)),
		Args:      strings.TrimSpace(args),
	}
}

func stripBotMention(text, botID string) (string, bool) {
	if botID == "" {
		return text, false
	}
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if rest, ok := strings.CutPrefix(text, mention); ok {
			return rest, true
		}
	}
	return text, false
}
