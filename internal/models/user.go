package models

// NoUsername is stored as the handle of participants without a platform username.
const NoUsername = "No Username"

// UserRecord is the compliance record of one tracked participant within a session.
type UserRecord struct {
	ID             int64   `json:"id"`
	Serial         int     `json:"serial"`
	DisplayName    string  `json:"display_name"`
	Handle         string  `json:"handle"`
	ExternalHandle *string `json:"external_handle,omitempty"` // last social handle seen in a shared link
	LinkCount      int     `json:"link_count"`
	AdCount        int     `json:"ad_count"`
}

// HasUsername reports whether the record carries a real platform username.
func (u *UserRecord) HasUsername() bool {
	return u.Handle != "" && u.Handle != NoUsername
}

// ExternalHandleOr returns the external handle, or fallback when none was seen.
func (u *UserRecord) ExternalHandleOr(fallback string) string {
	if u.ExternalHandle == nil {
		return fallback
	}
	return *u.ExternalHandle
}
