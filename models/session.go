package models

import "time"

// Session is the bearer credential issued on a successful login.
// At most one session row exists per user at any time; a fresh login evicts
// the previous one.
type Session struct {
	// SessionKey is the opaque bearer token returned to the client,
	// in canonical UUID textual form.
	SessionKey string `json:"sessionKey"`

	// UserID identifies the owning user.
	UserID string `json:"userId"`

	// Status is the lifecycle state; expiry detection flips it to
	// StatusInactive.
	Status string `json:"status"`

	// CanExpire disables expiry entirely when false.
	CanExpire bool `json:"canExpire"`

	// Expires is the point after which the session becomes unusable.
	Expires time.Time `json:"expires"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
