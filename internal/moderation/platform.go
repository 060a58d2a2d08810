package moderation

import (
	"context"
	"time"

	"engagement-tracker/internal/models"
)

// AdminLister returns the administrators of a chat.
type AdminLister interface {
	Administrators(ctx context.Context, chatID int64) ([]int64, error)
}

// Restrictor issues member restrictions.
type Restrictor interface {
	// CanRestrictMembers reports whether the bot itself may restrict members of the chat.
	CanRestrictMembers(ctx context.Context, chatID int64) (bool, error)
	// Restrict forbids the user to post until the given time.
	Restrict(ctx context.Context, chatID, userID int64, until time.Time) error
	// LiftRestriction restores posting rights without expiry.
	LiftRestriction(ctx context.Context, chatID, userID int64) error
}

// Platform is the part of the chat platform moderation depends on.
type Platform interface {
	AdminLister
	Restrictor
}

// AuditRecorder stores restriction attempts.
type AuditRecorder interface {
	Record(ctx context.Context, r *models.Restriction) error
}
