package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"engagement-tracker/internal/models"
)

// Failure is a target whose restriction call failed.
type Failure struct {
	Target models.UserRecord
	Err    error
}

// BulkResult collects the per-target outcome of MuteAll.
type BulkResult struct {
	Muted  []models.UserRecord
	Failed []Failure
}

// Coordinator turns targets and durations into restriction calls.
type Coordinator struct {
	platform Restrictor
	audit    AuditRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewCoordinator creates a coordinator. audit may be nil.
func NewCoordinator(platform Restrictor, audit AuditRecorder, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		platform: platform,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// MuteOne restricts a single participant until req.Until.
func (c *Coordinator) MuteOne(ctx context.Context, chatID int64, req models.MuteRequest) error {
	if err := c.ensureCapability(ctx, chatID); err != nil {
		return err
	}
	return c.mute(ctx, chatID, req)
}

// MuteAll restricts every target for duration, starting at the given time. Targets
// are copied on entry, so participants classified later are not included. A failed
// call is collected and does not stop the remaining targets.
func (c *Coordinator) MuteAll(ctx context.Context, chatID int64, targets []models.UserRecord, duration time.Duration, at time.Time) (BulkResult, error) {
	snapshot := append([]models.UserRecord(nil), targets...)

	if err := c.ensureCapability(ctx, chatID); err != nil {
		return BulkResult{}, err
	}

	var result BulkResult
	for _, target := range snapshot {
		if err := c.mute(ctx, chatID, models.NewMuteRequest(target.ID, duration, at)); err != nil {
			result.Failed = append(result.Failed, Failure{Target: target, Err: err})
			continue
		}
		result.Muted = append(result.Muted, target)
	}

	c.logger.Info("Bulk mute finished",
		zap.Int64("chat_id", chatID),
		zap.Int("muted", len(result.Muted)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// UnmuteOne lifts the restriction of a single participant.
func (c *Coordinator) UnmuteOne(ctx context.Context, chatID, targetID int64) error {
	if err := c.ensureCapability(ctx, chatID); err != nil {
		return err
	}

	actionID := uuid.NewString()
	err := c.platform.LiftRestriction(ctx, chatID, targetID)
	c.record(ctx, &models.Restriction{
		ActionID: actionID,
		ChatID:   chatID,
		TargetID: targetID,
		Kind:     models.RestrictionUnmute,
	}, err)

	if err != nil {
		c.logger.Error("Failed to lift restriction",
			zap.String("action_id", actionID),
			zap.Int64("chat_id", chatID),
			zap.Int64("target_id", targetID),
			zap.Error(err),
		)
		return fmt.Errorf("unmute %d: %w: %w", targetID, ErrPlatformCall, err)
	}
	return nil
}

func (c *Coordinator) mute(ctx context.Context, chatID int64, req models.MuteRequest) error {
	actionID := uuid.NewString()
	until := req.Until
	err := c.platform.Restrict(ctx, chatID, req.TargetID, until)
	c.record(ctx, &models.Restriction{
		ActionID: actionID,
		ChatID:   chatID,
		TargetID: req.TargetID,
		Kind:     models.RestrictionMute,
		Until:    &until,
	}, err)

	if err != nil {
		c.logger.Error("Failed to restrict member",
			zap.String("action_id", actionID),
			zap.Int64("chat_id", chatID),
			zap.Int64("target_id", req.TargetID),
			zap.Error(err),
		)
		return fmt.Errorf("mute %d: %w: %w", req.TargetID, ErrPlatformCall, err)
	}

	c.logger.Info("Member restricted",
		zap.String("action_id", actionID),
		zap.Int64("chat_id", chatID),
		zap.Int64("target_id", req.TargetID),
		zap.Time("until", until),
	)
	return nil
}

func (c *Coordinator) ensureCapability(ctx context.Context, chatID int64) error {
	ok, err := c.platform.CanRestrictMembers(ctx, chatID)
	if err != nil {
		c.logger.Error("Failed to check restrict capability", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("check capability in %d: %w: %w", chatID, ErrPlatformCall, err)
	}
	if !ok {
		return ErrInsufficientCapability
	}
	return nil
}

func (c *Coordinator) record(ctx context.Context, r *models.Restriction, callErr error) {
	if c.audit == nil {
		return
	}
	r.Success = callErr == nil
	if callErr != nil {
		r.Detail = callErr.Error()
	}
	r.CreatedAt = c.now()

	if err := c.audit.Record(ctx, r); err != nil {
		c.logger.Warn("Failed to record restriction", zap.String("action_id", r.ActionID), zap.Error(err))
	}
}
