package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/models"
)

// adminRepository is the SQL-backed implementation of [AdminRepository].
// The admins table holds at most one row; provisioning happens once at boot.
type adminRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAdminRepository constructs an [AdminRepository] backed by the provided
// database connection and logger.
func NewAdminRepository(db *DB, logger *logger.Logger) AdminRepository {
	logger.Debug().Msg("creating admin repository")
	return &adminRepository{
		db:     db,
		logger: logger,
	}
}

// GetAdmin returns the singleton admin record.
func (r *adminRepository) GetAdmin(ctx context.Context) (models.Admin, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("encrypted_id", "created_at").
		From(models.Admin{}.TableName()).
		Limit(1).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*adminRepository.GetAdmin").Msg("error building select query")
		return models.Admin{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var admin models.Admin
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&admin.EncryptedID, &admin.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Admin{}, ErrAdminNotFound
		}
		log.Err(err).Str("func", "*adminRepository.GetAdmin").Msg("error scanning admin row")
		return models.Admin{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return admin, nil
}

// CreateAdmin persists the singleton admin record.
func (r *adminRepository) CreateAdmin(ctx context.Context, admin models.Admin) (models.Admin, error) {
	log := logger.FromContext(ctx)

	admin.CreatedAt = time.Now()

	query, args, err := r.db.builder.
		Insert(admin.TableName()).
		Columns("encrypted_id", "created_at").
		Values(admin.EncryptedID, admin.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*adminRepository.CreateAdmin").Msg("error building insert query")
		return models.Admin{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*adminRepository.CreateAdmin").Msg("error inserting admin")
		return models.Admin{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return admin, nil
}
