package tracking

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engagement-tracker/internal/models"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"30s": 30 * time.Second,
		"5m":  5 * time.Minute,
		"5h":  5 * time.Hour,
		"2d":  48 * time.Hour,
		"0h":  0,
	}
	for token, want := range cases {
		got, err := ParseDuration(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got, token)
	}
}

func TestParseDurationRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"abc", "5x", "", "h", "5", "-5h", "5hh", " 5h", "1.5h", "99999999999999999999d", "200000000d"} {
		_, err := ParseDuration(token)
		assert.True(t, errors.Is(err, ErrInvalidDuration), "token %q", token)
	}
}

func TestAdWordClassifier(t *testing.T) {
	c := NewAdWordClassifier([]string{"ad", "all done", "AD", "all dn", "alldone", "done"})

	matches := []struct{ text, caption string }{
		{"done", ""},
		{"DONE!", ""},
		{"ok all done for today", ""},
		{"", "Ad"},
		{"photo", "alldone"},
		{"All Dn", ""},
	}
	for _, m := range matches {
		assert.True(t, c.Matches(m.text, m.caption), "%q %q", m.text, m.caption)
	}

	misses := []string{"", "adding things", "undone", "bad", "nothing here", "all"}
	for _, text := range misses {
		assert.False(t, c.Matches(text, ""), text)
	}
}

func TestAdWordClassifierUnicodeBoundaries(t *testing.T) {
	c := NewAdWordClassifier([]string{"ad", "done", "all done"})

	for _, text := range []string{"doneé", "adжи", "ñad", "ad_1", "done7", "éad"} {
		assert.False(t, c.Matches(text, ""), text)
	}
	for _, text := range []string{"ad", "AD", "ad!", "(done)", "жи ad жи", "All Done.", "✅done"} {
		assert.True(t, c.Matches(text, ""), text)
	}
}

func TestAdWordClassifierEmptyVocabulary(t *testing.T) {
	c := NewAdWordClassifier(nil)
	assert.False(t, c.Matches("done", "ad"))
}

func linkMessage(text string, entities ...models.Entity) *models.Message {
	return &models.Message{Text: text, Entities: entities}
}

func TestLinkExtractorSocialHandle(t *testing.T) {
	x := NewLinkExtractor([]string{"social.example", "x.com"})

	text := "social.example/handle1?x=1"
	share, ok := x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Offset: 0, Length: len(text)}))
	require.True(t, ok)
	require.NotNil(t, share.ExternalHandle)
	assert.Equal(t, "handle1", *share.ExternalHandle)

	text = "look https://mobile.x.com/someone/status/123"
	share, ok = x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Offset: 5, Length: len(text) - 5}))
	require.True(t, ok)
	require.NotNil(t, share.ExternalHandle)
	assert.Equal(t, "someone", *share.ExternalHandle)
}

func TestLinkExtractorSchemelessLinkWithURLInQuery(t *testing.T) {
	x := NewLinkExtractor([]string{"twitter.com", "x.com"})

	cases := map[string]string{
		"x.com/handle1?ref=https://t.co/z":  "handle1",
		"twitter.com/someone?u=http://a":    "someone",
		"HTTPS://x.com/upper?next=http://b": "upper",
	}
	for text, want := range cases {
		share, ok := x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Length: len(text)}))
		require.True(t, ok, text)
		require.NotNil(t, share.ExternalHandle, text)
		assert.Equal(t, want, *share.ExternalHandle, text)
	}
}

func TestLinkExtractorNonSocialAndUnknown(t *testing.T) {
	x := NewLinkExtractor([]string{"x.com"})

	text := "https://example.org/page"
	share, ok := x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Length: len(text)}))
	require.True(t, ok)
	assert.Nil(t, share.ExternalHandle)

	text = "https://x.com/"
	share, ok = x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Length: len(text)}))
	require.True(t, ok)
	require.NotNil(t, share.ExternalHandle)
	assert.Equal(t, UnknownHandle, *share.ExternalHandle)
}

func TestLinkExtractorTextLinkAndUTF16Offsets(t *testing.T) {
	x := NewLinkExtractor([]string{"x.com"})

	share, ok := x.Extract(linkMessage("my post", models.Entity{Type: models.EntityTextLink, Offset: 3, Length: 4, URL: "https://x.com/inline"}))
	require.True(t, ok)
	assert.Equal(t, "inline", *share.ExternalHandle)

	// The emoji takes two UTF-16 code units.
	text := "🔥 x.com/fire"
	share, ok = x.Extract(linkMessage(text, models.Entity{Type: models.EntityURL, Offset: 3, Length: 10}))
	require.True(t, ok)
	assert.Equal(t, "x.com/fire", share.URL)
	assert.Equal(t, "fire", *share.ExternalHandle)
}

func TestLinkExtractorIgnoresOtherEntities(t *testing.T) {
	x := NewLinkExtractor(nil)
	_, ok := x.Extract(linkMessage("/count", models.Entity{Type: "bot_command", Length: 6}))
	assert.False(t, ok)
}

func TestRegistrySerials(t *testing.T) {
	r := NewRegistry(nil)

	a, created := r.GetOrCreate(10, "A", "a")
	assert.True(t, created)
	b, _ := r.GetOrCreate(20, "B", "b")
	again, created := r.GetOrCreate(10, "A2", "a2")
	assert.False(t, created)

	assert.Equal(t, 1, a.Serial)
	assert.Equal(t, 2, b.Serial)
	assert.Same(t, a, again)
	assert.Equal(t, "A", again.DisplayName)

	r.Remove(10)
	c, _ := r.GetOrCreate(30, "C", "c")
	assert.Equal(t, 3, c.Serial, "serials are never reused")

	r.Clear()
	d, _ := r.GetOrCreate(40, "D", "d")
	assert.Equal(t, 1, d.Serial)
}

func TestRegistryRequiresRecord(t *testing.T) {
	r := NewRegistry(nil)
	assert.True(t, errors.Is(r.RecordLinkShare(1, nil), ErrNotRegistered))
	assert.True(t, errors.Is(r.RecordAdAcknowledgment(1), ErrNotRegistered))
}

func TestRegistryExternalHandleUpdates(t *testing.T) {
	r := NewRegistry(nil)
	r.GetOrCreate(1, "A", "a")

	h1, h2 := "one", "two"
	require.NoError(t, r.RecordLinkShare(1, &h1))
	require.NoError(t, r.RecordLinkShare(1, nil))
	rec, _ := r.Get(1)
	assert.Equal(t, "one", *rec.ExternalHandle)

	require.NoError(t, r.RecordLinkShare(1, &h2))
	assert.Equal(t, "two", *rec.ExternalHandle)
	assert.Equal(t, 3, rec.LinkCount)
}

func TestRegistryExclusion(t *testing.T) {
	r := NewRegistry([]string{"@Sage_003", "  "})
	assert.True(t, r.IsExcluded("sage_003"))
	assert.False(t, r.IsExcluded("someone"))
}

var alice = Participant{ID: 1, DisplayName: "Alice", Handle: "alice"}

func share(handle string) LinkShare {
	return LinkShare{URL: "x.com/" + handle, ExternalHandle: &handle}
}

func TestSessionFirstLinkShareRegistersUnsafe(t *testing.T) {
	s := NewSession(nil)

	rec, outcome, err := s.RecordLinkShare(alice, share("handle1"))
	require.NoError(t, err)
	assert.Equal(t, LinkRegistered, outcome)
	assert.Equal(t, 1, rec.Serial)
	assert.Equal(t, 1, rec.LinkCount)
	assert.Equal(t, "handle1", *rec.ExternalHandle)

	snap := s.Snapshot()
	assert.Equal(t, []int64{1}, snap.Unsafe)
	assert.Empty(t, snap.Safe)

	_, outcome, err = s.RecordLinkShare(alice, share("handle1"))
	require.NoError(t, err)
	assert.Equal(t, LinkCounted, outcome)
}

func TestSessionAcknowledgmentRequiresTracking(t *testing.T) {
	s := NewSession(nil)
	_, _, err := s.RecordLinkShare(alice, share("handle1"))
	require.NoError(t, err)

	_, outcome, err := s.RecordAdCheck(alice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, AckIgnored, outcome)

	s.SetTracking(true)
	rec, outcome, err := s.RecordAdCheck(alice.ID, true)
	require.NoError(t, err)
	assert.Equal(t, AckAcknowledged, outcome)
	assert.Equal(t, 1, rec.AdCount)
	assert.Equal(t, "handle1", rec.ExternalHandleOr("Unknown"))

	snap := s.Snapshot()
	assert.Equal(t, []int64{1}, snap.Safe)
	assert.Empty(t, snap.Unsafe)
}

func TestSessionSafeIsSticky(t *testing.T) {
	s := NewSession(nil)
	s.SetTracking(true)
	_, _, _ = s.RecordLinkShare(alice, share("handle1"))
	_, _, _ = s.RecordAdCheck(alice.ID, true)

	_, outcome, err := s.RecordAdCheck(alice.ID, false)
	require.NoError(t, err)
	assert.Equal(t, AckStillSafe, outcome)

	_, linkOutcome, err := s.RecordLinkShare(alice, share("handle2"))
	require.NoError(t, err)
	assert.Equal(t, LinkCounted, linkOutcome)

	snap := s.Snapshot()
	assert.Equal(t, []int64{1}, snap.Safe)
	assert.Empty(t, snap.Unsafe)
}

func TestSessionIgnoresUnregisteredAcknowledgment(t *testing.T) {
	s := NewSession(nil)
	s.SetTracking(true)

	_, outcome, err := s.RecordAdCheck(2, true)
	require.NoError(t, err)
	assert.Equal(t, AckIgnored, outcome)
	assert.Empty(t, s.Snapshot().Users)
}

func TestSessionExcludedParticipant(t *testing.T) {
	s := NewSession([]string{"alice"})

	_, outcome, err := s.RecordLinkShare(alice, share("handle1"))
	require.NoError(t, err)
	assert.Equal(t, LinkExcluded, outcome)
	assert.Empty(t, s.Snapshot().Users)
}

func TestSessionResetRestartsSerials(t *testing.T) {
	s := NewSession(nil)
	s.SetTracking(true)
	_, _, _ = s.RecordLinkShare(alice, share("a"))
	_, _, _ = s.RecordLinkShare(Participant{ID: 2, DisplayName: "Bob", Handle: "bob"}, share("b"))
	_, _, _ = s.RecordAdCheck(2, true)

	s.Reset()
	snap := s.Snapshot()
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Safe)
	assert.Empty(t, snap.Unsafe)
	assert.True(t, snap.TrackingEnabled)

	rec, _, err := s.RecordLinkShare(Participant{ID: 3, DisplayName: "Carol", Handle: "carol"}, share("c"))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Serial)
}

func TestSessionRemoveUser(t *testing.T) {
	s := NewSession(nil)
	s.SetTracking(true)
	_, _, _ = s.RecordLinkShare(alice, share("a"))
	_, _, _ = s.RecordAdCheck(alice.ID, true)

	s.RemoveUser(alice.ID)
	_, ok := s.User(alice.ID)
	assert.False(t, ok)
	assert.Empty(t, s.SafeUsers())
	require.NoError(t, s.checkInvariants())
}

func TestSessionFindByHandle(t *testing.T) {
	s := NewSession(nil)
	_, _, _ = s.RecordLinkShare(alice, share("a"))
	_, _, _ = s.RecordLinkShare(Participant{ID: 2, DisplayName: "Anon", Handle: models.NoUsername}, share("b"))
	_, _, _ = s.RecordLinkShare(Participant{ID: 3, DisplayName: "Other Alice", Handle: "Alice"}, share("c"))
	_, _, _ = s.RecordLinkShare(Participant{ID: 4, DisplayName: "Bob", Handle: "bob"}, share("d"))

	rec, err := s.FindByHandle("@bob")
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.ID)

	_, err = s.FindByHandle("@alice")
	assert.True(t, errors.Is(err, ErrUserNotFound), "ambiguous handle")

	_, err = s.FindByHandle("@nobody")
	assert.True(t, errors.Is(err, ErrUserNotFound))

	_, err = s.FindByHandle("@" + models.NoUsername)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestSnapshotAggregates(t *testing.T) {
	s := NewSession(nil)
	s.SetTracking(true)
	_, _, _ = s.RecordLinkShare(alice, share("a"))
	_, _, _ = s.RecordLinkShare(alice, share("a"))
	_, _, _ = s.RecordLinkShare(Participant{ID: 2, DisplayName: "Bob", Handle: "bob"}, share("b"))
	_, _, _ = s.RecordAdCheck(2, true)

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CountWithLinks())
	require.Len(t, snap.MultipleLinks(), 1)
	assert.Equal(t, int64(1), snap.MultipleLinks()[0].ID)
	assert.Equal(t, 1, snap.AdCompleted())
}

func TestSessionInvariantsUnderRandomEvents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewSession([]string{"excluded"})
	linkShared := map[int64]bool{}
	everSafe := map[int64]bool{}
	lastSerial := 0

	for step := 0; step < 2000; step++ {
		id := int64(rng.Intn(25) + 1)
		handle := "user"
		if id == 25 {
			handle = "excluded"
		}
		p := Participant{ID: id, DisplayName: "P", Handle: handle}

		switch rng.Intn(10) {
		case 0:
			s.SetTracking(!s.TrackingEnabled())
		case 1, 2, 3:
			rec, outcome, err := s.RecordLinkShare(p, share("h"))
			require.NoError(t, err)
			if outcome == LinkRegistered {
				assert.Equal(t, lastSerial+1, rec.Serial)
				lastSerial = rec.Serial
			}
			if outcome != LinkExcluded {
				linkShared[id] = true
			}
		default:
			matched := rng.Intn(3) == 0
			_, outcome, err := s.RecordAdCheck(id, matched)
			require.NoError(t, err)
			if outcome == AckAcknowledged {
				everSafe[id] = true
			}
			if !linkShared[id] {
				assert.Equal(t, AckIgnored, outcome)
			}
		}

		require.NoError(t, s.checkInvariants(), "step %d", step)

		snap := s.Snapshot()
		assert.Len(t, snap.Users, len(linkShared))
		for _, safeID := range snap.Safe {
			assert.True(t, everSafe[safeID])
		}
		for id := range everSafe {
			assert.Contains(t, snap.Safe, id, "safe status is sticky")
		}
	}
}

func TestManagerScopes(t *testing.T) {
	global := NewManager(ScopeGlobal, nil)
	assert.Same(t, global.For(-100), global.For(-200))
	assert.Equal(t, []int64{GlobalKey}, global.Keys())

	perChat := NewManager(ScopeChat, nil)
	a := perChat.For(-100)
	b := perChat.For(-200)
	assert.NotSame(t, a, b)
	assert.Same(t, a, perChat.For(-100))
	assert.Equal(t, []int64{-200, -100}, perChat.Keys())

	_, ok := perChat.Lookup(-300)
	assert.False(t, ok)

	assert.Equal(t, ScopeGlobal, NewManager("bogus", nil).Scope())
}

func TestManagerRemoveUserEverywhere(t *testing.T) {
	m := NewManager(ScopeChat, nil)
	_, _, _ = m.For(-1).RecordLinkShare(alice, share("a"))
	_, _, _ = m.For(-2).RecordLinkShare(alice, share("a"))

	m.RemoveUser(alice.ID)

	_, ok := m.For(-1).User(alice.ID)
	assert.False(t, ok)
	_, ok = m.For(-2).User(alice.ID)
	assert.False(t, ok)
}
