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

var sessionColumns = []string{
	"session_key", "user_id", "status", "can_expire", "expires",
	"created_at", "updated_at",
}

// sessionRepository is the SQL-backed implementation of [SessionRepository].
type sessionRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession persists a new bearer session.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	query, args, err := r.db.builder.
		Insert(session.TableName()).
		Columns(sessionColumns...).
		Values(
			session.SessionKey, session.UserID, session.Status,
			session.CanExpire, session.Expires,
			session.CreatedAt, session.UpdatedAt,
		).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error building insert query")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Str("user_id", session.UserID).Msg("error inserting session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return session, nil
}

// FindSessionByKey retrieves a session by its bearer key.
func (r *sessionRepository) FindSessionByKey(ctx context.Context, sessionKey string) (models.Session, error) {
	return r.findSessionBy(ctx, "session_key", sessionKey)
}

// FindSessionByUserID retrieves the session owned by the user.
func (r *sessionRepository) FindSessionByUserID(ctx context.Context, userID string) (models.Session, error) {
	return r.findSessionBy(ctx, "user_id", userID)
}

func (r *sessionRepository) findSessionBy(ctx context.Context, field, value string) (models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{field: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.findSessionBy").Msg("error building select query")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var session models.Session
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&session.SessionKey, &session.UserID, &session.Status,
		&session.CanExpire, &session.Expires,
		&session.CreatedAt, &session.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.findSessionBy").Str("field", field).Msg("error scanning session row")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

// UpdateSession writes the session state back to the store.
func (r *sessionRepository) UpdateSession(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(session.TableName()).
		Set("status", session.Status).
		Set("can_expire", session.CanExpire).
		Set("expires", session.Expires).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"session_key": session.SessionKey}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.UpdateSession").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.UpdateSession").Msg("error updating session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSessionsByUserID removes every session owned by the user. A zero
// row count is not an error.
func (r *sessionRepository) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	return r.deleteSessionsBy(ctx, "user_id", userID)
}

// DeleteSessionByKey removes the session with the given bearer key. A zero
// row count is not an error.
func (r *sessionRepository) DeleteSessionByKey(ctx context.Context, sessionKey string) error {
	return r.deleteSessionsBy(ctx, "session_key", sessionKey)
}

func (r *sessionRepository) deleteSessionsBy(ctx context.Context, field, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Delete(models.Session{}.TableName()).
		Where(sq.Eq{field: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.deleteSessionsBy").Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sessionRepository.deleteSessionsBy").Str("field", field).Msg("error deleting sessions")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
