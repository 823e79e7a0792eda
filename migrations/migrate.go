// Package migrations applies the embedded schema migrations with goose.
// Dialect-specific variants live in subdirectories named after the database
// driver, since auto-increment and timestamp types differ between backends.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed pgx/*.sql sqlite3/*.sql
var embedMigrations embed.FS

// Migrate brings the schema of the given database up to date. driver must
// be one of "pgx" or "sqlite3".
func Migrate(db *sql.DB, driver string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, driver); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
