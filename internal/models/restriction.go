package models

import "time"

// Restriction kinds.
const (
	RestrictionMute   = "mute"
	RestrictionUnmute = "unmute"
)

// MuteRequest is a single timed restriction to issue against the platform.
type MuteRequest struct {
	TargetID int64
	Duration time.Duration
	Until    time.Time
}

// NewMuteRequest computes the expiry of a mute issued at the given time.
func NewMuteRequest(targetID int64, duration time.Duration, at time.Time) MuteRequest {
	return MuteRequest{
		TargetID: targetID,
		Duration: duration,
		Until:    at.Add(duration),
	}
}

// Restriction is an audit row describing one restriction attempt.
type Restriction struct {
	ID        int64      `db:"id" json:"id"`
	ActionID  string     `db:"action_id" json:"action_id"`
	ChatID    int64      `db:"chat_id" json:"chat_id"`
	TargetID  int64      `db:"target_id" json:"target_id"`
	Kind      string     `db:"kind" json:"kind"` // mute or unmute
	Until     *time.Time `db:"until_at" json:"until,omitempty"`
	Success   bool       `db:"success" json:"success"`
	Detail    string     `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
