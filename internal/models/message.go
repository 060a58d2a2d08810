package models

import "time"

// Entity types that mark a hyperlink.
const (
	EntityURL      = "url"
	EntityTextLink = "text_link"
)

// Entity is a rich-text span of a message. Offset and Length count UTF-16 code units.
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"` // set for text_link
}

// IsLink reports whether the entity is a hyperlink or an inline link.
func (e Entity) IsLink() bool {
	return e.Type == EntityURL || e.Type == EntityTextLink
}

// Message is an inbound chat event normalized from the platform update.
type Message struct {
	ID             int          `json:"id"`
	Chat           Conversation `json:"chat"`
	SenderID       int64        `json:"sender_id"`
	SenderName     string       `json:"sender_name"`
	SenderUsername string       `json:"sender_username"` // empty when the sender has none
	Text           string       `json:"text"`
	Caption        string       `json:"caption"`
	Entities       []Entity     `json:"entities,omitempty"`
	HasMedia       bool         `json:"has_media"`
	Date           time.Time    `json:"date"`

	// Command is the bot command without the leading slash, empty for plain messages.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// Handle returns the sender username, or NoUsername.
func (m *Message) Handle() string {
	if m.SenderUsername == "" {
		return NoUsername
	}
	return m.SenderUsername
}

// HasLink reports whether any entity of the message is a link.
func (m *Message) HasLink() bool {
	for _, e := range m.Entities {
		if e.IsLink() {
			return true
		}
	}
	return false
}
