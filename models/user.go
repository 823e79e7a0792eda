package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes, credential data and the login-throttling
// counters. Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the opaque unique identifier of the user in canonical UUID
	// textual form.
	UserID string `json:"userId"`

	// LicenseID is the identifier of the license claimed at registration.
	// Exactly one license is bound per user and it never changes afterwards.
	LicenseID string `json:"-"`

	// Username is the unique login name. Unique among all users.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This value MUST be a derived value, never plaintext.
	PasswordHash string `json:"-"`

	// Email is the unique, optional contact address.
	Email string `json:"email"`

	// Status is the account lifecycle state (StatusActive, StatusInactive).
	// Anything other than StatusActive blocks login.
	Status string `json:"status"`

	// LoginAttempts counts consecutive failed password checks. Reset to zero
	// on success or when the reset window elapses.
	LoginAttempts int `json:"-"`

	// LoginTimeout is set only while the account is throttled; nil otherwise.
	LoginTimeout *time.Time `json:"-"`

	// LastLoginAttempt is stamped on every credential check and drives the
	// attempt-counter reset window.
	LastLoginAttempt *time.Time `json:"-"`

	// CreatedAt and UpdatedAt are server-assigned timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
