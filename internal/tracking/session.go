package tracking

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"engagement-tracker/internal/models"
)

// Participant identifies the sender of an event.
type Participant struct {
	ID          int64
	DisplayName string
	Handle      string
}

// LinkOutcome describes what a link-share event did to the session.
type LinkOutcome int

const (
	LinkExcluded LinkOutcome = iota
	LinkRegistered
	LinkCounted
)

// AckOutcome describes what an ad-check event did to the session.
type AckOutcome int

const (
	// AckIgnored covers disabled tracking and senders that never shared a link.
	AckIgnored AckOutcome = iota
	AckAcknowledged
	AckStillUnsafe
	AckStillSafe
)

// Session is the compliance state of one tracking scope: the registry, the
// safe/unsafe classification and the tracking flag.
type Session struct {
	mu              sync.RWMutex
	trackingEnabled bool
	registry        *Registry
	safe            map[int64]struct{}
	unsafe          map[int64]struct{}
}

// NewSession creates an empty session with tracking disabled.
func NewSession(excluded []string) *Session {
	return &Session{
		registry: NewRegistry(excluded),
		safe:     make(map[int64]struct{}),
		unsafe:   make(map[int64]struct{}),
	}
}

// RecordLinkShare registers the participant on first share, counts the link and
// classifies a new participant as unsafe. Not gated by the tracking flag.
func (s *Session) RecordLinkShare(p Participant, share LinkShare) (models.UserRecord, LinkOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.IsExcluded(p.Handle) {
		return models.UserRecord{}, LinkExcluded, nil
	}

	rec, created := s.registry.GetOrCreate(p.ID, p.DisplayName, p.Handle)
	if err := s.registry.RecordLinkShare(p.ID, share.ExternalHandle); err != nil {
		return models.UserRecord{}, LinkExcluded, err
	}

	if _, ok := s.safe[p.ID]; !ok {
		s.unsafe[p.ID] = struct{}{}
	}

	outcome := LinkCounted
	if created {
		outcome = LinkRegistered
	}
	return copyRecord(rec), outcome, nil
}

// RecordAdCheck evaluates one message of a registered participant. A match moves
// the participant to the safe set for the rest of the session.
func (s *Session) RecordAdCheck(id int64, matched bool) (models.UserRecord, AckOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.trackingEnabled {
		return models.UserRecord{}, AckIgnored, nil
	}
	rec, ok := s.registry.Get(id)
	if !ok {
		return models.UserRecord{}, AckIgnored, nil
	}

	if matched {
		if err := s.registry.RecordAdAcknowledgment(id); err != nil {
			return models.UserRecord{}, AckIgnored, err
		}
		delete(s.unsafe, id)
		s.safe[id] = struct{}{}
		return copyRecord(rec), AckAcknowledged, nil
	}

	if _, ok := s.safe[id]; ok {
		return copyRecord(rec), AckStillSafe, nil
	}
	s.unsafe[id] = struct{}{}
	return copyRecord(rec), AckStillUnsafe, nil
}

// SetTracking turns acknowledgment processing on or off.
func (s *Session) SetTracking(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackingEnabled = enabled
}

// TrackingEnabled reports whether acknowledgments are being evaluated.
func (s *Session) TrackingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackingEnabled
}

// Reset clears every record and both classification sets. The tracking flag is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Clear()
	s.safe = make(map[int64]struct{})
	s.unsafe = make(map[int64]struct{})
}

// RemoveUser drops one participant's record and classification.
func (s *Session) RemoveUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Remove(id)
	delete(s.safe, id)
	delete(s.unsafe, id)
}

// User returns a copy of the participant's record.
func (s *Session) User(id int64) (models.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.registry.Get(id)
	if !ok {
		return models.UserRecord{}, false
	}
	return copyRecord(rec), true
}

// UnsafeUsers returns the records currently classified unsafe, ordered by serial.
// The result is a snapshot; later classification changes do not affect it.
func (s *Session) UnsafeUsers() []models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersLocked(s.unsafe)
}

// SafeUsers returns the records currently classified safe, ordered by serial.
func (s *Session) SafeUsers() []models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersLocked(s.safe)
}

func (s *Session) membersLocked(set map[int64]struct{}) []models.UserRecord {
	out := make([]models.UserRecord, 0, len(set))
	for id := range set {
		if rec, ok := s.registry.Get(id); ok {
			out = append(out, copyRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

// FindByHandle resolves "@username" to a registered participant. Absent and
// ambiguous handles both fail with ErrUserNotFound.
func (s *Session) FindByHandle(handle string) (models.UserRecord, error) {
	name := strings.TrimPrefix(strings.TrimSpace(handle), "@")

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*models.UserRecord
	for _, rec := range s.registry.records {
		if rec.HasUsername() && strings.EqualFold(rec.Handle, name) {
			found = append(found, rec)
		}
	}
	if len(found) != 1 {
		return models.UserRecord{}, fmt.Errorf("%w: %s", ErrUserNotFound, handle)
	}
	return copyRecord(found[0]), nil
}

// Snapshot is a consistent copy of a session.
type Snapshot struct {
	TrackingEnabled bool                `json:"tracking_enabled"`
	Users           []models.UserRecord `json:"users"`
	Safe            []int64             `json:"safe"`
	Unsafe          []int64             `json:"unsafe"`
}

// Snapshot copies the whole session state under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		TrackingEnabled: s.trackingEnabled,
		Users:           s.registry.Records(),
		Safe:            make([]int64, 0, len(s.safe)),
		Unsafe:          make([]int64, 0, len(s.unsafe)),
	}
	for _, u := range snap.Users {
		if _, ok := s.safe[u.ID]; ok {
			snap.Safe = append(snap.Safe, u.ID)
		}
		if _, ok := s.unsafe[u.ID]; ok {
			snap.Unsafe = append(snap.Unsafe, u.ID)
		}
	}
	return snap
}

// CountWithLinks returns how many participants shared at least one link.
func (snap Snapshot) CountWithLinks() int {
	n := 0
	for _, u := range snap.Users {
		if u.LinkCount > 0 {
			n++
		}
	}
	return n
}

// MultipleLinks returns participants that shared more than one link.
func (snap Snapshot) MultipleLinks() []models.UserRecord {
	var out []models.UserRecord
	for _, u := range snap.Users {
		if u.LinkCount > 1 {
			out = append(out, u)
		}
	}
	return out
}

// AdCompleted returns how many participants acknowledged at least once.
func (snap Snapshot) AdCompleted() int {
	n := 0
	for _, u := range snap.Users {
		if u.AdCount > 0 {
			n++
		}
	}
	return n
}

// checkInvariants verifies the set relationships of the session.
func (s *Session) checkInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.safe {
		if _, ok := s.unsafe[id]; ok {
			return fmt.Errorf("participant %d is both safe and unsafe", id)
		}
		if _, ok := s.registry.records[id]; !ok {
			return fmt.Errorf("safe participant %d is not registered", id)
		}
	}
	for id := range s.unsafe {
		if _, ok := s.registry.records[id]; !ok {
			return fmt.Errorf("unsafe participant %d is not registered", id)
		}
	}
	return nil
}
