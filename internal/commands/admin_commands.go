package commands

import (
	"context"
	"fmt"
	"strings"

	"engagement-tracker/internal/models"
	"engagement-tracker/internal/tracking"
)

func (d *Dispatcher) handleReset(ctx context.Context, msg *models.Message, session *tracking.Session) {
	session.Reset()
	d.reply(ctx, msg, replySessionStarted)
}

func (d *Dispatcher) handleCount(ctx context.Context, msg *models.Message, session *tracking.Session) {
	snap := session.Snapshot()
	if len(snap.Users) == 0 {
		d.reply(ctx, msg, replyNoLinksYet)
		return
	}
	d.reply(ctx, msg, fmt.Sprintf("Total users who shared links: %d", snap.CountWithLinks()))
}

func (d *Dispatcher) handleUnsafe(ctx context.Context, msg *models.Message, session *tracking.Session) {
	unsafe := session.UnsafeUsers()
	if len(unsafe) == 0 {
		d.reply(ctx, msg, replyEveryoneSafe)
		return
	}

	var b strings.Builder
	b.WriteString("Unsafe users:")
	for _, u := range unsafe {
		fmt.Fprintf(&b, "\n%d. %s -( @%s )", u.Serial, u.DisplayName, u.Handle)
	}
	d.reply(ctx, msg, b.String())
}

func (d *Dispatcher) handleMultiple(ctx context.Context, msg *models.Message, session *tracking.Session) {
	snap := session.Snapshot()
	if len(snap.Users) == 0 {
		d.reply(ctx, msg, replyNoLinksYet)
		return
	}

	multiple := snap.MultipleLinks()
	if len(multiple) == 0 {
		d.reply(ctx, msg, replyNoMultipleLinks)
		return
	}

	var b strings.Builder
	b.WriteString("Users with multiple links:")
	for _, u := range multiple {
		fmt.Fprintf(&b, "\n%d. %s- @%s : %d", u.Serial, u.DisplayName, u.Handle, u.LinkCount)
	}
	d.reply(ctx, msg, b.String())
}

// handleUserlist sends every external handle, split into batches of UserlistPageSize.
func (d *Dispatcher) handleUserlist(ctx context.Context, msg *models.Message, session *tracking.Session) {
	users := session.Snapshot().Users
	if len(users) == 0 {
		d.reply(ctx, msg, replyNoUsers)
		return
	}

	var b strings.Builder
	b.WriteString("List:\n\n")
	for i, u := range users {
		fmt.Fprintf(&b, "%d.✖️ ID - ( @%s)\n", i+1, u.ExternalHandleOr(unknownHandle))

		if (i+1)%d.opts.UserlistPageSize == 0 {
			d.reply(ctx, msg, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		d.reply(ctx, msg, b.String())
	}
}

func (d *Dispatcher) handleClear(ctx context.Context, msg *models.Message, session *tracking.Session) {
	if !msg.Chat.IsPrivate() {
		session.Reset()
		d.reply(ctx, msg, replyCleared)
		return
	}

	d.sessions.RemoveUser(msg.SenderID)
	d.reply(ctx, msg, fmt.Sprintf("All data for %s has been cleared!", msg.SenderName))
}

func (d *Dispatcher) handleStartTracking(ctx context.Context, msg *models.Message, session *tracking.Session) {
	session.SetTracking(true)
	d.reply(ctx, msg, replyTrackingStarted)
}

func (d *Dispatcher) handleStopTracking(ctx context.Context, msg *models.Message, session *tracking.Session) {
	session.SetTracking(false)
	d.reply(ctx, msg, replyTrackingStopped)
}

func (d *Dispatcher) handleAdTotal(ctx context.Context, msg *models.Message, session *tracking.Session) {
	completed := session.Snapshot().AdCompleted()
	if completed == 0 {
		d.reply(ctx, msg, replyNoAdCompleted)
		return
	}
	d.reply(ctx, msg, fmt.Sprintf("✅ %d users have completed", completed))
}

func (d *Dispatcher) handleRules(ctx context.Context, msg *models.Message, _ *tracking.Session) {
	d.reply(ctx, msg, d.opts.RulesText)
}
