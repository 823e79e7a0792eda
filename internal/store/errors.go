package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same username already exists.
	ErrUsernameAlreadyExists = errors.New("username is already taken")

	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// user fails because a user with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("no user was found")

	// ErrLicenseNotFound is returned when no license exists for the given
	// entitlement key.
	ErrLicenseNotFound = errors.New("no license was found")

	// ErrSessionNotFound is returned when no session row matches the given
	// session key or user identifier. Point lookups in the session engine
	// treat this as "absent", not as a failure.
	ErrSessionNotFound = errors.New("no session was found")

	// ErrAdminNotFound is returned when the singleton admin record has not
	// been created yet.
	ErrAdminNotFound = errors.New("no admin record was found")

	// ErrUserDataNotFound is returned when a user has no stored data blob.
	ErrUserDataNotFound = errors.New("no data was found for the user")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. All of them surface to the client as a generic server
// failure.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
