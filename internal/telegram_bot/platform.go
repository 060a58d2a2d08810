package telegram_bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"engagement-tracker/internal/commands"
	"engagement-tracker/internal/moderation"
)

var (
	_ moderation.Platform = (*Platform)(nil)
	_ commands.Messenger  = (*Platform)(nil)
)

// Platform implements the moderation and messaging calls on top of the Bot API.
// The Bot API client is not context aware, so ctx is only checked before each call.
type Platform struct {
	api *tgbotapi.BotAPI
}

// NewPlatform wraps an authorized Bot API client.
func NewPlatform(api *tgbotapi.BotAPI) *Platform {
	return &Platform{api: api}
}

// Administrators returns the user IDs of every chat administrator.
func (p *Platform) Administrators(ctx context.Context, chatID int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members, err := p.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get administrators of %d: %w", chatID, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			ids = append(ids, m.User.ID)
		}
	}
	return ids, nil
}

// CanRestrictMembers checks the bot's own membership in the chat.
func (p *Platform) CanRestrictMembers(ctx context.Context, chatID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	member, err := p.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: p.api.Self.ID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get bot membership in %d: %w", chatID, err)
	}
	return member.IsCreator() || member.CanRestrictMembers, nil
}

// Restrict revokes the right to send messages until the given time.
func (p *Platform) Restrict(ctx context.Context, chatID, userID int64, until time.Time) error {
	return p.restrict(ctx, chatID, userID, until.Unix(), &tgbotapi.ChatPermissions{})
}

// LiftRestriction restores every member permission.
func (p *Platform) LiftRestriction(ctx context.Context, chatID, userID int64) error {
	return p.restrict(ctx, chatID, userID, 0, &tgbotapi.ChatPermissions{
		CanSendMessages:       true,
		CanSendMediaMessages:  true,
		CanSendPolls:          true,
		CanSendOtherMessages:  true,
		CanAddWebPagePreviews: true,
		CanInviteUsers:        true,
	})
}

func (p *Platform) restrict(ctx context.Context, chatID, userID, untilDate int64, perms *tgbotapi.ChatPermissions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		UntilDate:   untilDate,
		Permissions: perms,
	}
	if _, err := p.api.Request(cfg); err != nil {
		return fmt.Errorf("failed to restrict %d in %d: %w", userID, chatID, err)
	}
	return nil
}

// Reply sends text as a reply to the given message.
func (p *Platform) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ReplySticker sends a sticker by file ID as a reply to the given message.
func (p *Platform) ReplySticker(ctx context.Context, chatID int64, replyTo int, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sticker := tgbotapi.NewSticker(chatID, tgbotapi.FileID(fileID))
	sticker.ReplyToMessageID = replyTo
	if _, err := p.api.Send(sticker); err != nil {
		return fmt.Errorf("failed to send sticker: %w", err)
	}
	return nil
}
