package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers match them with
// [errors.Is] to pick a response status; the wording is what clients see.
var (
	// ErrInvalidCredentials is returned both when the username is unknown
	// and when the password does not match, so responses never reveal
	// which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountNotActive is returned when credentials match but the
	// account status gates the login.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInvalidLicense is returned when a license cannot be claimed at
	// registration or fails revalidation at login: expired, wrong claim
	// state or not active.
	ErrInvalidLicense = errors.New("license is not valid")

	// ErrInvalidSession is returned when a presented session key does not
	// resolve to a live session.
	ErrInvalidSession = errors.New("session is not valid")

	// ErrInvalidAdminKey is returned when the presented admin key does not
	// match the provisioned admin secret.
	ErrInvalidAdminKey = errors.New("admin key is not valid")
)

// ThrottledError rejects a login attempt while the account is inside its
// throttle window. RetryAfterMinutes is the remaining window rounded up to
// whole minutes, never zero.
type ThrottledError struct {
	RetryAfterMinutes int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many login attempts, retry after %d minute(s)", e.RetryAfterMinutes)
}
