package models

// Chat types as reported by the Telegram Bot API.
const (
	ChatPrivate    = "private"
	ChatGroup      = "group"
	ChatSupergroup = "supergroup"
	ChatChannel    = "channel"
)

// Conversation identifies the chat an event arrived in.
type Conversation struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// IsGroup reports whether the conversation is a group or supergroup.
func (c Conversation) IsGroup() bool {
	return c.Type == ChatGroup || c.Type == ChatSupergroup
}

// IsPrivate reports whether the conversation is a one-to-one chat with the bot.
func (c Conversation) IsPrivate() bool {
	return c.Type == ChatPrivate
}
