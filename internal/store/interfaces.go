package store

import (
	"context"

	"github.com/anexlab/gatekeeper/models"
)

// UserRepository persists user accounts and the login-throttling state
// attached to them.
type UserRepository interface {
	// CreateUser inserts a new user and returns it with server-assigned
	// timestamps. Returns ErrUsernameAlreadyExists or ErrEmailAlreadyExists
	// on a uniqueness conflict.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByID retrieves a user by identifier. Returns ErrUserNotFound
	// when absent.
	FindUserByID(ctx context.Context, userID string) (models.User, error)

	// FindUserByUsername retrieves a user by username. Returns
	// ErrUserNotFound when absent.
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// UsernameTaken reports whether any user already holds the username.
	UsernameTaken(ctx context.Context, username string) (bool, error)

	// EmailTaken reports whether any user already holds the email.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// UpdateUser writes the mutable user fields (status, attempt counters,
	// timeout stamps) back to the store.
	UpdateUser(ctx context.Context, user models.User) error
}

// LicenseRepository persists entitlement records.
type LicenseRepository interface {
	CreateLicense(ctx context.Context, license models.License) (models.License, error)

	// FindLicenseByID retrieves a license by entitlement key. Returns
	// ErrLicenseNotFound when absent.
	FindLicenseByID(ctx context.Context, licenseID string) (models.License, error)

	// UpdateLicense writes the license state (status, claimed) back to the
	// store.
	UpdateLicense(ctx context.Context, license models.License) error
}

// SessionRepository persists bearer sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)

	// FindSessionByKey retrieves a session by its bearer key. Returns
	// ErrSessionNotFound when absent.
	FindSessionByKey(ctx context.Context, sessionKey string) (models.Session, error)

	// FindSessionByUserID retrieves the session owned by the user. Returns
	// ErrSessionNotFound when absent.
	FindSessionByUserID(ctx context.Context, userID string) (models.Session, error)

	// UpdateSession writes the session status back to the store.
	UpdateSession(ctx context.Context, session models.Session) error

	// DeleteSessionsByUserID removes every session owned by the user.
	// Deleting nothing is not an error.
	DeleteSessionsByUserID(ctx context.Context, userID string) error

	// DeleteSessionByKey removes the session with the given bearer key.
	// Deleting nothing is not an error.
	DeleteSessionByKey(ctx context.Context, sessionKey string) error
}

// AdminRepository persists the singleton admin record.
type AdminRepository interface {
	// GetAdmin returns the singleton admin record. Returns ErrAdminNotFound
	// before first boot provisioning.
	GetAdmin(ctx context.Context) (models.Admin, error)

	CreateAdmin(ctx context.Context, admin models.Admin) (models.Admin, error)
}

// UserDataRepository persists encrypted per-user data blobs. Exactly one
// current blob is retained per user.
type UserDataRepository interface {
	// SaveUserData stores a new blob and removes all prior blobs of the
	// same user within one transaction.
	SaveUserData(ctx context.Context, data models.UserData) (models.UserData, error)

	// FindLatestUserData returns the newest blob of the user. Returns
	// ErrUserDataNotFound when the user has no stored data.
	FindLatestUserData(ctx context.Context, userID string) (models.UserData, error)
}
