package models

type DiscordMessageEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	AuthorBot bool
	Content   string
	// Mentions contains the user IDs of all users mentioned in this message
	Mentions []string
	Embeds   []DiscordEmbed
}

type DiscordReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	EmojiName string
	// Member is delivered with reaction-add payloads only; nil on remove
	Member *GuildMember
}

type GuildMember struct {
	UserID   string
	Username string
	RoleIDs  []string
}

type GuildRole struct {
	ID          string
	Name        string
	Mentionable bool
}

type DiscordEmbed struct {
	Title  string
	Color  int
	Fields []DiscordEmbedField
}

type DiscordEmbedField struct {
	Name   string
	Value  string
	Inline bool
}
