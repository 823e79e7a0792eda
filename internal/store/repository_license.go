package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/models"
)

var licenseColumns = []string{
	"license_id", "status", "can_expire", "expires", "claimed",
	"created_at", "updated_at",
}

// licenseRepository is the SQL-backed implementation of [LicenseRepository].
type licenseRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewLicenseRepository constructs a [LicenseRepository] backed by the
// provided database connection and logger.
func NewLicenseRepository(db *DB, logger *logger.Logger) LicenseRepository {
	logger.Debug().Msg("creating license repository")
	return &licenseRepository{
		db:     db,
		logger: logger,
	}
}

// CreateLicense persists a new entitlement record.
func (r *licenseRepository) CreateLicense(ctx context.Context, license models.License) (models.License, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	license.CreatedAt = now
	license.UpdatedAt = now

	query, args, err := r.db.builder.
		Insert(license.TableName()).
		Columns(licenseColumns...).
		Values(
			license.LicenseID, license.Status, license.CanExpire,
			license.Expires, license.Claimed,
			license.CreatedAt, license.UpdatedAt,
		).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*licenseRepository.CreateLicense").Msg("error building insert query")
		return models.License{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*licenseRepository.CreateLicense").Msg("error inserting license")
		return models.License{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return license, nil
}

// FindLicenseByID retrieves a license by entitlement key.
func (r *licenseRepository) FindLicenseByID(ctx context.Context, licenseID string) (models.License, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(licenseColumns...).
		From(models.License{}.TableName()).
		Where(sq.Eq{"license_id": licenseID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*licenseRepository.FindLicenseByID").Msg("error building select query")
		return models.License{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var license models.License
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&license.LicenseID, &license.Status, &license.CanExpire,
		&license.Expires, &license.Claimed,
		&license.CreatedAt, &license.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.License{}, ErrLicenseNotFound
		}
		log.Err(err).Str("func", "*licenseRepository.FindLicenseByID").Msg("error scanning license row")
		return models.License{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return license, nil
}

// UpdateLicense writes the license state back to the store. UpdatedAt is
// refreshed on every write.
func (r *licenseRepository) UpdateLicense(ctx context.Context, license models.License) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(license.TableName()).
		Set("status", license.Status).
		Set("can_expire", license.CanExpire).
		Set("expires", license.Expires).
		Set("claimed", license.Claimed).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"license_id": license.LicenseID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*licenseRepository.UpdateLicense").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*licenseRepository.UpdateLicense").Str("license_id", license.LicenseID).Msg("error updating license")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
