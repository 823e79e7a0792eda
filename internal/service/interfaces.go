package service

import (
	"context"

	"github.com/anexlab/gatekeeper/models"
)

// AccountService governs registration, credential verification with
// attempt throttling, and account status gating.
type AccountService interface {
	// Register creates a user bound to an unclaimed license. The license
	// claim is committed before the user insert.
	Register(ctx context.Context, username, email, password, licenseKey string) (models.User, error)

	// Login verifies credentials and issues a fresh session, evicting any
	// session the user already holds. Returns ErrInvalidCredentials,
	// *ThrottledError, ErrAccountNotActive or ErrInvalidLicense on the
	// respective gate.
	Login(ctx context.Context, username, password string) (models.Session, error)

	// Logout removes the session with the given key. Removing an unknown
	// key is a no-op.
	Logout(ctx context.Context, sessionKey string) error
}

// LicenseService governs creation, expiry determination and one-time
// claiming of entitlement keys.
type LicenseService interface {
	// Create issues a new license. durationDays == 0 means the license
	// never expires.
	Create(ctx context.Context, durationDays int) (models.License, error)

	// Claim marks an unclaimed, active, unexpired license as consumed and
	// commits the transition. Returns ErrInvalidLicense otherwise.
	Claim(ctx context.Context, licenseKey string) (models.License, error)

	// Revalidate checks that an already-claimed license is still active
	// and unexpired. Returns ErrInvalidLicense otherwise.
	Revalidate(ctx context.Context, licenseID string) error

	// CheckAndMaybeExpire reports whether the license is expired and, on
	// the first detection, flips its status to inactive and persists the
	// change. The returned license reflects the new state.
	CheckAndMaybeExpire(ctx context.Context, license models.License) (bool, models.License, error)
}

// SessionService governs bearer-session issuance, validation, expiry
// determination and single-session-per-user eviction.
type SessionService interface {
	// Create issues a fresh session for the user after deleting any
	// session the user already holds.
	Create(ctx context.Context, userID string) (models.Session, error)

	// Validate resolves a session key to a live session. Returns
	// ErrInvalidSession when the key is unknown, expired or inactive.
	Validate(ctx context.Context, sessionKey string) (models.Session, error)

	// Delete removes the session with the given key. Idempotent.
	Delete(ctx context.Context, sessionKey string) error

	// CheckAndMaybeExpire reports whether the session is expired and, on
	// the first detection, flips its status to inactive and persists the
	// change. Sessions with CanExpire == false never expire.
	CheckAndMaybeExpire(ctx context.Context, session models.Session) (bool, models.Session, error)
}

// AdminService provisions and verifies the singleton admin secret.
type AdminService interface {
	// Bootstrap creates the admin record on first boot. It returns the
	// plaintext admin key and true when a new record was provisioned; on
	// later boots it returns an empty key and false.
	Bootstrap(ctx context.Context) (string, bool, error)

	// VerifyKey compares the presented key against the provisioned admin
	// secret in constant time. Returns ErrInvalidAdminKey on mismatch.
	VerifyKey(ctx context.Context, adminKey string) error
}

// DataService is the gate in front of the per-user encrypted blob store.
// Every operation reconfirms session and license validity first.
type DataService interface {
	// Save encrypts the payload and stores it as the user's only blob,
	// removing any prior blob in the same transaction.
	Save(ctx context.Context, sessionKey string, payload []byte) (models.UserData, error)

	// Load returns the user's blob decrypted. Returns
	// store.ErrUserDataNotFound when the user has no stored data.
	Load(ctx context.Context, sessionKey string) (models.UserData, error)
}
