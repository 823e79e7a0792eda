package models

// Lifecycle status values shared by users, licenses and sessions.
// A record outside StatusActive is rejected by every gate that checks it.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
