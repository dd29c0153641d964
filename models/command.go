package models

type CommandName string

const (
	CommandSetRoles CommandName = "setroles"
	CommandPing     CommandName = "ping"
	CommandTest     CommandName = "test"
)

// CommandRequest represents a prefixed or mention-addressed command typed in a guild channel
type CommandRequest struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Name      CommandName
	Args      string // Remainder of the message after the command name, trimmed
}
