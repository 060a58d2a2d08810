package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"engagement-tracker/internal/models"
)

type restrictCall struct {
	chatID, userID int64
	until          time.Time
	lift           bool
}

type fakePlatform struct {
	admins      []int64
	adminsErr   error
	canRestrict bool
	capErr      error
	failFor     map[int64]error
	calls       []restrictCall
	onRestrict  func(userID int64)
}

func (f *fakePlatform) Administrators(_ context.Context, _ int64) ([]int64, error) {
	return f.admins, f.adminsErr
}

func (f *fakePlatform) CanRestrictMembers(_ context.Context, _ int64) (bool, error) {
	return f.canRestrict, f.capErr
}

func (f *fakePlatform) Restrict(_ context.Context, chatID, userID int64, until time.Time) error {
	f.calls = append(f.calls, restrictCall{chatID: chatID, userID: userID, until: until})
	if f.onRestrict != nil {
		f.onRestrict(userID)
	}
	return f.failFor[userID]
}

func (f *fakePlatform) LiftRestriction(_ context.Context, chatID, userID int64) error {
	f.calls = append(f.calls, restrictCall{chatID: chatID, userID: userID, lift: true})
	return f.failFor[userID]
}

type memoryAudit struct {
	rows []*models.Restriction
	err  error
}

func (m *memoryAudit) Record(_ context.Context, r *models.Restriction) error {
	m.rows = append(m.rows, r)
	return m.err
}

var group = models.Conversation{ID: -100, Type: models.ChatSupergroup}

func TestAdminGate(t *testing.T) {
	gate := NewAdminGate(&fakePlatform{admins: []int64{7, 8}}, zap.NewNop())
	ctx := context.Background()

	ok, err := gate.IsAdmin(ctx, 7, group)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gate.IsAdmin(ctx, 9, group)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, errors.Is(gate.Authorize(ctx, 9, group), ErrUnauthorized))
	assert.NoError(t, gate.Authorize(ctx, 8, group))
}

func TestAdminGatePrivateChat(t *testing.T) {
	gate := NewAdminGate(&fakePlatform{adminsErr: errors.New("not a group")}, zap.NewNop())
	private := models.Conversation{ID: 42, Type: models.ChatPrivate}

	ok, err := gate.IsAdmin(context.Background(), 42, private)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, errors.Is(gate.Authorize(context.Background(), 42, private), ErrUnauthorized))
}

func TestAdminGatePlatformFailure(t *testing.T) {
	gate := NewAdminGate(&fakePlatform{adminsErr: errors.New("boom")}, zap.NewNop())

	err := gate.Authorize(context.Background(), 1, group)
	assert.True(t, errors.Is(err, ErrPlatformCall))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestMuteOneSetsExpiry(t *testing.T) {
	platform := &fakePlatform{canRestrict: true}
	audit := &memoryAudit{}
	c := NewCoordinator(platform, audit, zap.NewNop())

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.MuteOne(context.Background(), group.ID, models.NewMuteRequest(1, 2*time.Hour, at)))

	require.Len(t, platform.calls, 1)
	assert.Equal(t, at.Add(2*time.Hour), platform.calls[0].until)
	assert.Equal(t, int64(1), platform.calls[0].userID)

	require.Len(t, audit.rows, 1)
	assert.Equal(t, models.RestrictionMute, audit.rows[0].Kind)
	assert.True(t, audit.rows[0].Success)
	assert.NotEmpty(t, audit.rows[0].ActionID)
}

func TestMuteRequiresCapability(t *testing.T) {
	platform := &fakePlatform{canRestrict: false}
	c := NewCoordinator(platform, nil, zap.NewNop())
	ctx := context.Background()

	err := c.MuteOne(ctx, group.ID, models.NewMuteRequest(1, time.Hour, time.Now()))
	assert.True(t, errors.Is(err, ErrInsufficientCapability))

	_, err = c.MuteAll(ctx, group.ID, []models.UserRecord{{ID: 1}}, time.Hour, time.Now())
	assert.True(t, errors.Is(err, ErrInsufficientCapability))

	err = c.UnmuteOne(ctx, group.ID, 1)
	assert.True(t, errors.Is(err, ErrInsufficientCapability))

	assert.Empty(t, platform.calls)
}

func TestMuteAllCollectsFailures(t *testing.T) {
	platform := &fakePlatform{canRestrict: true, failFor: map[int64]error{2: errors.New("user is an administrator")}}
	audit := &memoryAudit{err: errors.New("disk full")}
	c := NewCoordinator(platform, audit, zap.NewNop())

	targets := []models.UserRecord{{ID: 1, Serial: 1}, {ID: 2, Serial: 2}, {ID: 3, Serial: 3}}
	result, err := c.MuteAll(context.Background(), group.ID, targets, time.Hour, time.Now())
	require.NoError(t, err)

	require.Len(t, result.Muted, 2)
	assert.Equal(t, int64(1), result.Muted[0].ID)
	assert.Equal(t, int64(3), result.Muted[1].ID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, int64(2), result.Failed[0].Target.ID)
	assert.True(t, errors.Is(result.Failed[0].Err, ErrPlatformCall))

	assert.Len(t, platform.calls, 3)
	assert.Len(t, audit.rows, 3)
	assert.False(t, audit.rows[1].Success)
	assert.Contains(t, audit.rows[1].Detail, "administrator")
}

func TestMuteAllUsesSnapshot(t *testing.T) {
	targets := []models.UserRecord{{ID: 1}, {ID: 2}}
	platform := &fakePlatform{canRestrict: true}
	platform.onRestrict = func(int64) {
		targets = append(targets, models.UserRecord{ID: 99})
		targets[0].ID = 50
	}
	c := NewCoordinator(platform, nil, zap.NewNop())

	result, err := c.MuteAll(context.Background(), group.ID, targets, time.Minute, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Muted, 2)
	assert.Equal(t, int64(1), result.Muted[0].ID)
	assert.Equal(t, int64(2), result.Muted[1].ID)
}

func TestUnmuteOne(t *testing.T) {
	platform := &fakePlatform{canRestrict: true}
	audit := &memoryAudit{}
	c := NewCoordinator(platform, audit, zap.NewNop())

	require.NoError(t, c.UnmuteOne(context.Background(), group.ID, 5))
	require.Len(t, platform.calls, 1)
	assert.True(t, platform.calls[0].lift)
	require.Len(t, audit.rows, 1)
	assert.Equal(t, models.RestrictionUnmute, audit.rows[0].Kind)
	assert.Nil(t, audit.rows[0].Until)

	platform.failFor = map[int64]error{5: errors.New("boom")}
	err := c.UnmuteOne(context.Background(), group.ID, 5)
	assert.True(t, errors.Is(err, ErrPlatformCall))
}

func TestCapabilityCheckFailure(t *testing.T) {
	platform := &fakePlatform{capErr: errors.New("timeout")}
	c := NewCoordinator(platform, nil, zap.NewNop())

	err := c.MuteOne(context.Background(), group.ID, models.NewMuteRequest(1, time.Hour, time.Now()))
	assert.True(t, errors.Is(err, ErrPlatformCall))
	assert.Empty(t, platform.calls)
}
