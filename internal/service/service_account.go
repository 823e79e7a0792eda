// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/internal/validators"
	"github.com/anexlab/gatekeeper/models"
)

const (
	// maxLoginAttempts is the number of failed logins tolerated before the
	// account is throttled. The throttle engages once the counter exceeds
	// this value.
	maxLoginAttempts = 4

	// attemptResetWindow is how long after the last attempt the failure
	// counter is forgotten.
	attemptResetWindow = 10 * time.Minute

	// throttleWindow is the lockout applied when the counter crosses
	// maxLoginAttempts.
	throttleWindow = time.Minute
)

// accountService is the concrete implementation of [AccountService]. It owns
// the login throttle state machine: Normal(count=0), counter increments on
// each bad password, Throttled(count>4, timeout set). Throttled transitions
// back to Normal only when wall clock passes the timeout, checked lazily on
// the next attempt.
type accountService struct {
	userRepository store.UserRepository
	licenseService LicenseService
	sessionService SessionService
	hasher         crypto.PasswordHasher
	uuidGenerator  *utils.UUIDGenerator
	logger         *logger.Logger
}

// NewAccountService constructs an [AccountService] wired to the user
// repository and the license and session engines.
func NewAccountService(
	userRepository store.UserRepository,
	licenseService LicenseService,
	sessionService SessionService,
	hasher crypto.PasswordHasher,
	logger *logger.Logger,
) AccountService {
	return &accountService{
		userRepository: userRepository,
		licenseService: licenseService,
		sessionService: sessionService,
		hasher:         hasher,
		uuidGenerator:  utils.NewUUIDGenerator(),
		logger:         logger,
	}
}

// Register creates a new account bound to the presented license key.
//
// Returns:
//   - *validators.FormatError when a field fails its shape check.
//   - store.ErrUsernameAlreadyExists / store.ErrEmailAlreadyExists when the
//     identity is taken.
//   - ErrInvalidLicense when the key is malformed, unknown, expired,
//     already claimed or not active.
func (a *accountService) Register(ctx context.Context, username, email, password, licenseKey string) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := validators.CheckUsername(username); err != nil {
		return models.User{}, err
	}
	if err := validators.CheckEmail(email); err != nil {
		return models.User{}, err
	}
	if err := validators.CheckPassword(password); err != nil {
		return models.User{}, err
	}
	if !validators.CheckUUIDForm(licenseKey) {
		log.Warn().Msg("malformed license key presented at registration")
		return models.User{}, ErrInvalidLicense
	}

	if taken, err := a.userRepository.UsernameTaken(ctx, username); err != nil {
		return models.User{}, fmt.Errorf("username availability check ended with error: %w", err)
	} else if taken {
		return models.User{}, store.ErrUsernameAlreadyExists
	}
	if taken, err := a.userRepository.EmailTaken(ctx, email); err != nil {
		return models.User{}, fmt.Errorf("email availability check ended with error: %w", err)
	} else if taken {
		return models.User{}, store.ErrEmailAlreadyExists
	}

	license, err := a.licenseService.Claim(ctx, licenseKey)
	if err != nil {
		return models.User{}, err
	}

	passwordHash, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Msg("password hashing ended with error")
		return models.User{}, fmt.Errorf("password hashing ended with error: %w", err)
	}

	user := models.User{
		UserID:       a.uuidGenerator.Generate(),
		LicenseID:    license.LicenseID,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Status:       models.StatusActive,
	}

	// The claim above is already committed. A failed insert here leaves
	// the license claimed with no owner; reconciliation is manual.
	created, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("license_id", license.LicenseID).Msg("user creation ended with error, license claim is orphaned")
		return models.User{}, err
	}

	log.Info().Str("user_id", created.UserID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a fresh session.
//
// A fresh user projection forgets the failure counter when the last attempt
// is older than attemptResetWindow, then stamps last-attempt to now. While
// throttled, the remaining window is reported in whole minutes, rounded up.
func (a *accountService) Login(ctx context.Context, username, password string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := validators.CheckUsername(username); err != nil {
		return models.Session{}, err
	}
	if err := validators.CheckPassword(password); err != nil {
		return models.Session{}, err
	}

	user, err := a.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same message as a bad password. Responses must not reveal
			// which usernames exist.
			log.Warn().Msg("login attempt for unknown username")
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("user lookup ended with error: %w", err)
	}

	now := time.Now()
	if user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) > attemptResetWindow {
		user.LoginAttempts = 0
	}
	user.LastLoginAttempt = &now

	if user.LoginAttempts > maxLoginAttempts {
		remaining := remainingThrottleMinutes(user.LoginTimeout, now)
		if remaining > 0 {
			if err := a.userRepository.UpdateUser(ctx, user); err != nil {
				return models.Session{}, fmt.Errorf("persisting attempt stamp ended with error: %w", err)
			}
			log.Warn().Str("user_id", user.UserID).Int("retry_after_minutes", remaining).Msg("login throttled")
			return models.Session{}, &ThrottledError{RetryAfterMinutes: remaining}
		}
		// Window elapsed, the attempt proceeds with a clean counter.
		user.LoginAttempts = 0
		user.LoginTimeout = nil
	}

	if !a.hasher.Verify(user.PasswordHash, password) {
		user.LoginAttempts++
		if user.LoginAttempts > maxLoginAttempts {
			timeout := now.Add(throttleWindow)
			user.LoginTimeout = &timeout
		}
		if err := a.userRepository.UpdateUser(ctx, user); err != nil {
			return models.Session{}, fmt.Errorf("persisting failed attempt ended with error: %w", err)
		}
		log.Warn().Str("user_id", user.UserID).Int("login_attempts", user.LoginAttempts).Msg("password mismatch")
		return models.Session{}, ErrInvalidCredentials
	}

	user.LoginAttempts = 0
	user.LoginTimeout = nil
	if err := a.userRepository.UpdateUser(ctx, user); err != nil {
		return models.Session{}, fmt.Errorf("resetting attempt counter ended with error: %w", err)
	}

	if user.Status != models.StatusActive {
		log.Warn().Str("user_id", user.UserID).Str("status", user.Status).Msg("login rejected, account not active")
		return models.Session{}, ErrAccountNotActive
	}

	if err := a.licenseService.Revalidate(ctx, user.LicenseID); err != nil {
		return models.Session{}, err
	}

	session, err := a.sessionService.Create(ctx, user.UserID)
	if err != nil {
		return models.Session{}, err
	}

	log.Info().Str("user_id", user.UserID).Msg("login succeeded, session issued")
	return session, nil
}

// Logout removes the presented session. Unknown keys are a no-op.
func (a *accountService) Logout(ctx context.Context, sessionKey string) error {
	if !validators.CheckUUIDForm(sessionKey) {
		return ErrInvalidSession
	}
	return a.sessionService.Delete(ctx, sessionKey)
}

// remainingThrottleMinutes converts the timeout stamp into whole minutes
// left, rounded up. A nil or elapsed stamp yields zero.
func remainingThrottleMinutes(timeout *time.Time, now time.Time) int {
	if timeout == nil {
		return 0
	}
	left := timeout.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Minute - 1) / time.Minute)
}
