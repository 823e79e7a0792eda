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

// userDataRepository is the SQL-backed implementation of
// [UserDataRepository].
type userDataRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserDataRepository constructs a [UserDataRepository] backed by the
// provided database connection and logger.
func NewUserDataRepository(db *DB, logger *logger.Logger) UserDataRepository {
	logger.Debug().Msg("creating user data repository")
	return &userDataRepository{
		db:     db,
		logger: logger,
	}
}

// SaveUserData replaces the user's stored blob. The delete of prior rows and
// the insert of the new one share a single transaction so that a crash can
// never leave the user with two blobs or none.
func (r *userDataRepository) SaveUserData(ctx context.Context, data models.UserData) (models.UserData, error) {
	log := logger.FromContext(ctx)

	data.CreatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Msg("error beginning transaction")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	deleteQuery, deleteArgs, err := r.db.builder.
		Delete(data.TableName()).
		Where(sq.Eq{"user_id": data.UserID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Msg("error building delete query")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Str("user_id", data.UserID).Msg("error deleting previous blobs")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	insertQuery, insertArgs, err := r.db.builder.
		Insert(data.TableName()).
		Columns("user_id", "payload", "created_at").
		Values(data.UserID, data.Payload, data.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Msg("error building insert query")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Str("user_id", data.UserID).Msg("error inserting blob")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userDataRepository.SaveUserData").Msg("error committing transaction")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return data, nil
}

// FindLatestUserData returns the newest blob of the user.
func (r *userDataRepository) FindLatestUserData(ctx context.Context, userID string) (models.UserData, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("data_id", "user_id", "payload", "created_at").
		From(models.UserData{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userDataRepository.FindLatestUserData").Msg("error building select query")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data models.UserData
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&data.DataID, &data.UserID, &data.Payload, &data.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserData{}, ErrUserDataNotFound
		}
		log.Err(err).Str("func", "*userDataRepository.FindLatestUserData").Str("user_id", userID).Msg("error scanning blob row")
		return models.UserData{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return data, nil
}
