package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"engagement-tracker/internal/models"
	"engagement-tracker/internal/moderation"
	"engagement-tracker/internal/tracking"
)

// Messenger delivers replies to the chat an event came from.
type Messenger interface {
	Reply(ctx context.Context, chatID int64, replyTo int, text string) error
	ReplySticker(ctx context.Context, chatID int64, replyTo int, fileID string) error
}

// Options tunes the command surface.
type Options struct {
	AdWords             []string
	SocialHosts         []string
	GateAdTotal         bool
	UserlistPageSize    int
	RulesText           string
	UnauthorizedSticker string
}

type handlerFunc func(ctx context.Context, msg *models.Message, session *tracking.Session)

type command struct {
	adminOnly   bool
	// selfService commands skip the admin check in private chats, where they only touch the caller's own data.
	selfService bool
	run         handlerFunc
}

// Dispatcher routes inbound messages to link-share processing, acknowledgment
// processing or an administrator command.
type Dispatcher struct {
	sessions  *tracking.Manager
	gate      *moderation.AdminGate
	mutes     *moderation.Coordinator
	messenger Messenger
	links     *tracking.LinkExtractor
	adWords   *tracking.AdWordClassifier
	opts      Options
	logger    *zap.Logger
	commands  map[string]command
	now       func() time.Time
}

// NewDispatcher wires the command table.
func NewDispatcher(
	sessions *tracking.Manager,
	gate *moderation.AdminGate,
	mutes *moderation.Coordinator,
	messenger Messenger,
	opts Options,
	logger *zap.Logger,
) *Dispatcher {
	if opts.UserlistPageSize <= 0 {
		opts.UserlistPageSize = 80
	}
	if opts.RulesText == "" {
		opts.RulesText = DefaultRules
	}

	d := &Dispatcher{
		sessions:  sessions,
		gate:      gate,
		mutes:     mutes,
		messenger: messenger,
		links:     tracking.NewLinkExtractor(opts.SocialHosts),
		adWords:   tracking.NewAdWordClassifier(opts.AdWords),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}

	d.commands = map[string]command{
		"starts":         {adminOnly: true, run: d.handleReset},
		"count":          {adminOnly: true, run: d.handleCount},
		"unsafe":         {adminOnly: true, run: d.handleUnsafe},
		"mult":           {adminOnly: true, run: d.handleMultiple},
		"userlist":       {adminOnly: true, run: d.handleUserlist},
		"close":          {adminOnly: true, selfService: true, run: d.handleClear},
		"start_ad_track": {adminOnly: true, run: d.handleStartTracking},
		"stop_ad_track":  {adminOnly: true, run: d.handleStopTracking},
		"ad_total":       {adminOnly: opts.GateAdTotal, run: d.handleAdTotal},
		"rules":          {adminOnly: true, run: d.handleRules},
		"muteuser":       {adminOnly: true, run: d.handleMuteUser},
		"unmuteuser":     {adminOnly: true, run: d.handleUnmuteUser},
		"muteall":        {adminOnly: true, run: d.handleMuteAll},
	}

	return d
}

// Commands lists the registered command names.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	return names
}

// Handle processes one inbound message.
func (d *Dispatcher) Handle(ctx context.Context, msg *models.Message) {
	session := d.sessions.For(msg.Chat.ID)

	if msg.Command != "" {
		if cmd, ok := d.commands[msg.Command]; ok {
			d.runCommand(ctx, msg, session, cmd)
			return
		}
	}

	if msg.HasLink() {
		d.handleLinkShare(msg, session)
		return
	}

	if msg.Text != "" || msg.Caption != "" || msg.HasMedia {
		d.handleAdCheck(ctx, msg, session)
	}
}

func (d *Dispatcher) runCommand(ctx context.Context, msg *models.Message, session *tracking.Session, cmd command) {
	if cmd.adminOnly && !(cmd.selfService && msg.Chat.IsPrivate()) {
		if err := d.gate.Authorize(ctx, msg.SenderID, msg.Chat); err != nil {
			d.rejectCommand(ctx, msg, err)
			return
		}
	}

	d.logger.Info("Running command",
		zap.String("command", msg.Command),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Int64("user_id", msg.SenderID),
	)
	cmd.run(ctx, msg, session)
}

func (d *Dispatcher) rejectCommand(ctx context.Context, msg *models.Message, err error) {
	if !errors.Is(err, moderation.ErrUnauthorized) {
		d.logger.Error("Failed to verify administrator",
			zap.String("command", msg.Command),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
		d.reply(ctx, msg, replyAdminCheckFailed)
		return
	}

	if msg.Command == "muteall" && d.opts.UnauthorizedSticker != "" {
		if err := d.messenger.ReplySticker(ctx, msg.Chat.ID, msg.ID, d.opts.UnauthorizedSticker); err != nil {
			d.logger.Error("Failed to send sticker", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		}
		return
	}
	d.reply(ctx, msg, replyUnauthorized)
}

func (d *Dispatcher) handleLinkShare(msg *models.Message, session *tracking.Session) {
	share, ok := d.links.Extract(msg)
	if !ok {
		return
	}

	participant := tracking.Participant{
		ID:          msg.SenderID,
		DisplayName: msg.SenderName,
		Handle:      msg.Handle(),
	}
	rec, outcome, err := session.RecordLinkShare(participant, share)
	if err != nil {
		d.logger.Error("Failed to record link share", zap.Int64("user_id", msg.SenderID), zap.Error(err))
		return
	}

	switch outcome {
	case tracking.LinkExcluded:
		d.logger.Debug("Skipping excluded user", zap.String("username", participant.Handle))
	case tracking.LinkRegistered:
		d.logger.Info("Participant registered",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int64("user_id", rec.ID),
			zap.Int("serial", rec.Serial),
		)
	}
}

func (d *Dispatcher) handleAdCheck(ctx context.Context, msg *models.Message, session *tracking.Session) {
	matched := d.adWords.Matches(msg.Text, msg.Caption)

	rec, outcome, err := session.RecordAdCheck(msg.SenderID, matched)
	if err != nil {
		d.logger.Error("Failed to record acknowledgment", zap.Int64("user_id", msg.SenderID), zap.Error(err))
		return
	}
	if outcome != tracking.AckAcknowledged {
		return
	}

	d.reply(ctx, msg, "✖️ ID: @"+rec.ExternalHandleOr(unknownHandle)+"\n")
}

func (d *Dispatcher) eventTime(msg *models.Message) time.Time {
	if msg.Date.IsZero() {
		return d.now()
	}
	return msg.Date
}

func (d *Dispatcher) reply(ctx context.Context, msg *models.Message, text string) {
	if err := d.messenger.Reply(ctx, msg.Chat.ID, msg.ID, text); err != nil {
		d.logger.Error("Failed to send message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}
