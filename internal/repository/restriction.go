package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"engagement-tracker/internal/models"
)

// DefaultListLimit caps ListByChat when no positive limit is given.
const DefaultListLimit = 50

type RestrictionRepository interface {
	Record(ctx context.Context, r *models.Restriction) error
	// ListByChat returns the newest restriction attempts in a chat first.
	ListByChat(ctx context.Context, chatID int64, limit int) ([]models.Restriction, error)
}

type restrictionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRestrictionRepository(db *sqlx.DB, logger *zap.Logger) RestrictionRepository {
	return &restrictionRepository{db: db, logger: logger}
}

func (r *restrictionRepository) Record(ctx context.Context, rec *models.Restriction) error {
	query := r.db.Rebind(`INSERT INTO restrictions (action_id, chat_id, target_id, kind, until_at, success, detail, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	err := r.db.QueryRowxContext(ctx, query,
		rec.ActionID, rec.ChatID, rec.TargetID, rec.Kind, rec.Until, rec.Success, rec.Detail, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert restriction: %w", err)
	}

	r.logger.Debug("Restriction recorded",
		zap.Int64("id", rec.ID),
		zap.String("action_id", rec.ActionID),
	)
	return nil
}

func (r *restrictionRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]models.Restriction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := r.db.Rebind(`SELECT id, action_id, chat_id, target_id, kind, until_at, success, detail, created_at
	          FROM restrictions WHERE chat_id = ? ORDER BY id DESC LIMIT ?`)

	out := []models.Restriction{}
	if err := r.db.SelectContext(ctx, &out, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to list restrictions: %w", err)
	}
	return out, nil
}
