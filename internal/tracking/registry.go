package tracking

import (
	"fmt"
	"sort"
	"strings"

	"engagement-tracker/internal/models"
)

// Registry maps participant IDs to their compliance records and hands out serials.
// It is not safe for concurrent use; Session guards it.
type Registry struct {
	records    map[int64]*models.UserRecord
	lastSerial int
	excluded   map[string]struct{}
}

// NewRegistry creates an empty registry. Usernames in excluded are never registered
// by link-share processing.
func NewRegistry(excluded []string) *Registry {
	r := &Registry{
		records:  make(map[int64]*models.UserRecord),
		excluded: make(map[string]struct{}, len(excluded)),
	}
	for _, u := range excluded {
		u = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(u), "@"))
		if u != "" {
			r.excluded[u] = struct{}{}
		}
	}
	return r
}

// IsExcluded reports whether the username is on the exclusion list.
func (r *Registry) IsExcluded(handle string) bool {
	_, ok := r.excluded[strings.ToLower(handle)]
	return ok
}

// GetOrCreate returns the record for id, creating it with the next serial if needed.
func (r *Registry) GetOrCreate(id int64, displayName, handle string) (*models.UserRecord, bool) {
	if rec, ok := r.records[id]; ok {
		return rec, false
	}

	r.lastSerial++
	rec := &models.UserRecord{
		ID:          id,
		Serial:      r.lastSerial,
		DisplayName: displayName,
		Handle:      handle,
	}
	r.records[id] = rec
	return rec, true
}

// Get returns the record for id.
func (r *Registry) Get(id int64) (*models.UserRecord, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// RecordLinkShare counts one shared link and remembers a changed external handle.
func (r *Registry) RecordLinkShare(id int64, externalHandle *string) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("record link share for %d: %w", id, ErrNotRegistered)
	}

	if externalHandle != nil && (rec.ExternalHandle == nil || *rec.ExternalHandle != *externalHandle) {
		h := *externalHandle
		rec.ExternalHandle = &h
	}
	rec.LinkCount++
	return nil
}

// RecordAdAcknowledgment counts one acknowledgment.
func (r *Registry) RecordAdAcknowledgment(id int64) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("record acknowledgment for %d: %w", id, ErrNotRegistered)
	}
	rec.AdCount++
	return nil
}

// Remove deletes the record for id. Serials are not handed out again.
func (r *Registry) Remove(id int64) {
	delete(r.records, id)
}

// Clear drops every record and restarts serial numbering at 1.
func (r *Registry) Clear() {
	r.records = make(map[int64]*models.UserRecord)
	r.lastSerial = 0
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	return len(r.records)
}

// Records returns copies of all records ordered by serial.
func (r *Registry) Records() []models.UserRecord {
	out := make([]models.UserRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out
}

func copyRecord(rec *models.UserRecord) models.UserRecord {
	c := *rec
	if rec.ExternalHandle != nil {
		h := *rec.ExternalHandle
		c.ExternalHandle = &h
	}
	return c
}
