package service

import (
	"context"
	"fmt"
	"time"

	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

// sessionService is the concrete implementation of [SessionService].
type sessionService struct {
	sessionRepository store.SessionRepository
	uuidGenerator     *utils.UUIDGenerator

	// ttl is how long a freshly issued session stays valid.
	ttl time.Duration

	logger *logger.Logger
}

// NewSessionService constructs a [SessionService] issuing sessions with the
// given lifetime.
func NewSessionService(sessionRepository store.SessionRepository, ttl time.Duration, logger *logger.Logger) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		uuidGenerator:     utils.NewUUIDGenerator(),
		ttl:               ttl,
		logger:            logger,
	}
}

// Create issues a fresh bearer session. Any session the user already holds
// is deleted first: a user has at most one valid bearer token at a time.
func (s *sessionService) Create(ctx context.Context, userID string) (models.Session, error) {
	log := logger.FromContext(ctx)

	if err := s.sessionRepository.DeleteSessionsByUserID(ctx, userID); err != nil {
		log.Err(err).Str("user_id", userID).Msg("evicting previous session ended with error")
		return models.Session{}, fmt.Errorf("evicting previous session ended with error: %w", err)
	}

	session := models.Session{
		SessionKey: s.uuidGenerator.Generate(),
		UserID:     userID,
		Status:     models.StatusActive,
		CanExpire:  true,
		Expires:    time.Now().Add(s.ttl),
	}

	created, err := s.sessionRepository.CreateSession(ctx, session)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("session creation ended with error")
		return models.Session{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	return created, nil
}

// Validate resolves a bearer key to a live session.
func (s *sessionService) Validate(ctx context.Context, sessionKey string) (models.Session, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessionRepository.FindSessionByKey(ctx, sessionKey)
	if err != nil {
		log.Warn().Err(err).Msg("session lookup failed")
		return models.Session{}, ErrInvalidSession
	}

	expired, session, err := s.CheckAndMaybeExpire(ctx, session)
	if err != nil {
		return models.Session{}, err
	}
	if expired || session.Status != models.StatusActive {
		log.Warn().Str("user_id", session.UserID).Bool("expired", expired).Str("status", session.Status).Msg("session rejected")
		return models.Session{}, ErrInvalidSession
	}

	return session, nil
}

// Delete removes the session with the given key. Deleting an unknown key is
// a no-op.
func (s *sessionService) Delete(ctx context.Context, sessionKey string) error {
	if err := s.sessionRepository.DeleteSessionByKey(ctx, sessionKey); err != nil {
		logger.FromContext(ctx).Err(err).Msg("session deletion ended with error")
		return fmt.Errorf("session deletion ended with error: %w", err)
	}
	return nil
}

// CheckAndMaybeExpire determines expiry and persists the status flip on
// first detection. Sessions with CanExpire == false never expire.
func (s *sessionService) CheckAndMaybeExpire(ctx context.Context, session models.Session) (bool, models.Session, error) {
	if !session.CanExpire || time.Now().Before(session.Expires) {
		return false, session, nil
	}

	if session.Status != models.StatusInactive {
		session.Status = models.StatusInactive
		if err := s.sessionRepository.UpdateSession(ctx, session); err != nil {
			logger.FromContext(ctx).Err(err).Str("user_id", session.UserID).Msg("persisting session expiry ended with error")
			return true, session, fmt.Errorf("persisting session expiry ended with error: %w", err)
		}
	}

	return true, session, nil
}
