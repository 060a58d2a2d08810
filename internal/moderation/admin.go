package moderation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"engagement-tracker/internal/models"
)

// AdminGate authorizes privileged operations against the chat's administrator list.
type AdminGate struct {
	admins AdminLister
	logger *zap.Logger
}

// NewAdminGate creates a gate backed by the platform's administrator list.
func NewAdminGate(admins AdminLister, logger *zap.Logger) *AdminGate {
	return &AdminGate{admins: admins, logger: logger}
}

// IsAdmin reports whether callerID administers the conversation. Private chats
// have no administrators, so nobody passes the check there.
func (g *AdminGate) IsAdmin(ctx context.Context, callerID int64, conv models.Conversation) (bool, error) {
	if conv.IsPrivate() {
		return false, nil
	}

	admins, err := g.admins.Administrators(ctx, conv.ID)
	if err != nil {
		return false, fmt.Errorf("list administrators of %d: %w: %w", conv.ID, ErrPlatformCall, err)
	}
	for _, id := range admins {
		if id == callerID {
			return true, nil
		}
	}
	return false, nil
}

// Authorize returns ErrUnauthorized unless callerID administers the conversation.
func (g *AdminGate) Authorize(ctx context.Context, callerID int64, conv models.Conversation) error {
	ok, err := g.IsAdmin(ctx, callerID, conv)
	if err != nil {
		return err
	}
	if !ok {
		g.logger.Warn("Unauthorized command attempt",
			zap.Int64("user_id", callerID),
			zap.Int64("chat_id", conv.ID),
		)
		return ErrUnauthorized
	}
	return nil
}
