package config

import "errors"

var (
	// ErrMissingMasterKey is returned when no process cipher secret is
	// configured. The cipher cannot be constructed without it.
	ErrMissingMasterKey = errors.New("master key is not configured")

	// ErrMissingAccessToken is returned when the pre-shared network access
	// token is not configured.
	ErrMissingAccessToken = errors.New("access token is not configured")

	// ErrMissingDatabaseDSN is returned when no database connection string
	// is configured.
	ErrMissingDatabaseDSN = errors.New("database DSN is not configured")

	// ErrUnknownDatabaseDriver is returned when the configured driver is
	// neither "pgx" nor "sqlite3".
	ErrUnknownDatabaseDriver = errors.New("unknown database driver")
)
