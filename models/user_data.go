package models

import "time"

// UserData is a single encrypted data blob owned by a user. Exactly one
// current blob is retained per user; saving a new one removes the rest.
type UserData struct {
	DataID int64 `json:"-"`

	// UserID identifies the owning user.
	UserID string `json:"userId"`

	// Payload is the blob ciphertext as produced by the process cipher.
	Payload []byte `json:"-"`

	CreatedAt time.Time `json:"savedAt"`
}

// TableName returns the name of the database table
// associated with the UserData model.
func (d UserData) TableName() string {
	return "user_data"
}
