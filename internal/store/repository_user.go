package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/models"
)

// userColumns is the canonical column order for scanning user rows.
var userColumns = []string{
	"user_id", "license_id", "username", "password_hash", "email",
	"status", "login_attempts", "login_timeout", "last_login_attempt",
	"created_at", "updated_at",
}

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles account creation, lookups and throttling-state updates against
// the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record. CreatedAt and UpdatedAt are
// assigned here so both backends produce identical rows.
//
// Error handling:
//   - uniqueness conflict → [ErrUsernameAlreadyExists] / [ErrEmailAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.db.builder.
		Insert(user.TableName()).
		Columns(userColumns...).
		Values(
			user.UserID, user.LicenseID, user.Username, user.PasswordHash,
			nullableString(user.Email), user.Status, user.LoginAttempts,
			user.LoginTimeout, user.LastLoginAttempt,
			user.CreatedAt, user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error building insert query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Str("username", user.Username).Msg("error inserting user")

		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return models.User{}, ErrEmailAlreadyExists
			}
			return models.User{}, ErrUsernameAlreadyExists
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return user, nil
}

// FindUserByID retrieves a user record by identifier.
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUserBy(ctx, "user_id", userID)
}

// FindUserByUsername retrieves a user record by username.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUserBy(ctx, "username", username)
}

func (r *userRepository) findUserBy(ctx context.Context, field, value string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{field: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUserBy").Msg("error building select query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	var user models.User
	var email sql.NullString
	var loginTimeout, lastLoginAttempt sql.NullTime

	if err := row.Scan(
		&user.UserID, &user.LicenseID, &user.Username, &user.PasswordHash,
		&email, &user.Status, &user.LoginAttempts,
		&loginTimeout, &lastLoginAttempt,
		&user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.findUserBy").Str("field", field).Msg("error scanning user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	user.Email = email.String
	if loginTimeout.Valid {
		user.LoginTimeout = &loginTimeout.Time
	}
	if lastLoginAttempt.Valid {
		user.LastLoginAttempt = &lastLoginAttempt.Time
	}

	return user, nil
}

// UsernameTaken reports whether the username is already registered.
func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.countByField(ctx, "username", username)
}

// EmailTaken reports whether the email is already registered.
func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.countByField(ctx, "email", email)
}

func (r *userRepository) countByField(ctx context.Context, field, value string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Select("COUNT(*)").
		From(models.User{}.TableName()).
		Where(sq.Eq{field: value}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.countByField").Msg("error building count query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*userRepository.countByField").Str("field", field).Msg("error counting users")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

// UpdateUser writes the mutable user fields back to the store. UpdatedAt is
// refreshed on every write.
func (r *userRepository) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Update(user.TableName()).
		Set("username", user.Username).
		Set("email", nullableString(user.Email)).
		Set("status", user.Status).
		Set("login_attempts", user.LoginAttempts).
		Set("login_timeout", user.LoginTimeout).
		Set("last_login_attempt", user.LastLoginAttempt).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"user_id": user.UserID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Str("user_id", user.UserID).Msg("error updating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// nullableString maps an empty string to NULL so that the uniqueness
// constraint on optional columns ignores absent values.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
