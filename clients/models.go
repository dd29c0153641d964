package clients

// DiscordBotUser represents Discord bot user information
type DiscordBotUser struct {
	ID       string
	Username string
	Bot      bool
}

// DiscordMessage is a channel history entry
type DiscordMessage struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// DiscordPostMessageResponse represents the response from posting a message to Discord
type DiscordPostMessageResponse struct {
	ChannelID string
	MessageID string
}
