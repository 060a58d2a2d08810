package telegram_bot

import (
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"engagement-tracker/internal/models"
)

// ConvertMessage normalizes a Bot API message. Service messages without a
// sender are rejected.
func ConvertMessage(m *tgbotapi.Message) (*models.Message, bool) {
	if m == nil || m.From == nil || m.Chat == nil {
		return nil, false
	}

	msg := &models.Message{
		ID: m.MessageID,
		Chat: models.Conversation{
			ID:    m.Chat.ID,
			Type:  m.Chat.Type,
			Title: m.Chat.Title,
		},
		SenderID:       m.From.ID,
		SenderName:     fullName(m.From),
		SenderUsername: m.From.UserName,
		Text:           m.Text,
		Caption:        m.Caption,
		HasMedia:       hasMedia(m),
		Date:           time.Unix(int64(m.Date), 0).UTC(),
	}

	for _, e := range m.Entities {
		msg.Entities = append(msg.Entities, models.Entity{
			Type:   e.Type,
			Offset: e.Offset,
			Length: e.Length,
			URL:    e.URL,
		})
	}

	if m.IsCommand() {
		msg.Command = strings.ToLower(m.Command())
		msg.Args = strings.Fields(m.CommandArguments())
	}
	return msg, true
}

func fullName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func hasMedia(m *tgbotapi.Message) bool {
	return len(m.Photo) > 0 ||
		m.Video != nil ||
		m.Document != nil ||
		m.Animation != nil ||
		m.Audio != nil ||
		m.Voice != nil ||
		m.VideoNote != nil
}
