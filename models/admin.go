package models

import "time"

// Admin is the singleton record backing privileged operations. EncryptedID
// holds the process-cipher encryption of the admin identifier; the decrypted
// value is the key an administrator must present.
type Admin struct {
	EncryptedID string    `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Admin model.
func (a Admin) TableName() string {
	return "admins"
}
