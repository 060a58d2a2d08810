package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"engagement-tracker/internal/models"
	"engagement-tracker/internal/moderation"
	"engagement-tracker/internal/tracking"
)

func (d *Dispatcher) handleMuteUser(ctx context.Context, msg *models.Message, session *tracking.Session) {
	if len(msg.Args) < 2 {
		d.reply(ctx, msg, usageMuteUser)
		return
	}
	handle, token := msg.Args[0], msg.Args[1]

	if !strings.HasPrefix(handle, "@") {
		d.reply(ctx, msg, replyInvalidUsername)
		return
	}

	duration, err := tracking.ParseDuration(token)
	if err != nil {
		d.reply(ctx, msg, replyInvalidDuration)
		return
	}

	target, err := session.FindByHandle(handle)
	if err != nil {
		d.reply(ctx, msg, fmt.Sprintf("User %s not found", handle))
		return
	}

	req := models.NewMuteRequest(target.ID, duration, d.eventTime(msg))
	if err := d.mutes.MuteOne(ctx, msg.Chat.ID, req); err != nil {
		d.reply(ctx, msg, restrictionFailure(err, replyMuteFailed))
		return
	}

	d.reply(ctx, msg, fmt.Sprintf("Muted %s (%s) for %s.", target.DisplayName, handle, token))
}

func (d *Dispatcher) handleUnmuteUser(ctx context.Context, msg *models.Message, session *tracking.Session) {
	if len(msg.Args) != 1 {
		d.reply(ctx, msg, usageUnmuteUser)
		return
	}
	handle := msg.Args[0]

	if !strings.HasPrefix(handle, "@") {
		d.reply(ctx, msg, replyInvalidUsername)
		return
	}

	target, err := session.FindByHandle(handle)
	if err != nil {
		d.reply(ctx, msg, fmt.Sprintf("User %s not found.", handle))
		return
	}

	if err := d.mutes.UnmuteOne(ctx, msg.Chat.ID, target.ID); err != nil {
		d.reply(ctx, msg, restrictionFailure(err, replyUnmuteFailed))
		return
	}

	d.reply(ctx, msg, fmt.Sprintf("Unmuted %s (%s).", target.DisplayName, handle))
}

func (d *Dispatcher) handleMuteAll(ctx context.Context, msg *models.Message, session *tracking.Session) {
	if len(msg.Args) < 1 {
		d.reply(ctx, msg, usageMuteAll)
		return
	}

	duration, err := tracking.ParseDuration(msg.Args[0])
	if err != nil {
		d.reply(ctx, msg, replyInvalidDuration)
		return
	}

	targets := session.UnsafeUsers()
	if len(targets) == 0 {
		d.reply(ctx, msg, replyNoUnsafeToMute)
		return
	}

	result, err := d.mutes.MuteAll(ctx, msg.Chat.ID, targets, duration, d.eventTime(msg))
	if err != nil {
		d.reply(ctx, msg, restrictionFailure(err, replyMuteFailed))
		return
	}

	d.reply(ctx, msg, formatBulkResult(result))
}

func formatBulkResult(result moderation.BulkResult) string {
	var b strings.Builder
	if len(result.Muted) == 0 {
		b.WriteString(replyNoneMuted)
	} else {
		b.WriteString("✅ Muted users:")
		for _, u := range result.Muted {
			fmt.Fprintf(&b, "\n%s (@%s)", u.DisplayName, u.Handle)
		}
	}

	if len(result.Failed) > 0 {
		b.WriteString("\n\n⚠️ Failed to mute:")
		for _, f := range result.Failed {
			fmt.Fprintf(&b, "\n%s (@%s): %s", f.Target.DisplayName, f.Target.Handle, failureReason)
		}
	}
	return b.String()
}

// restrictionFailure maps a moderation error to a fixed reply. Raw platform
// errors are logged by the coordinator and never shown to the chat.
func restrictionFailure(err error, fallback string) string {
	if errors.Is(err, moderation.ErrInsufficientCapability) {
		return replyNeedRestrictions
	}
	return fallback
}
