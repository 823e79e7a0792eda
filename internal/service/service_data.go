package service

import (
	"context"
	"fmt"

	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/models"
)

// dataService fronts the per-user encrypted blob store. Blobs are sealed
// with the process cipher before they touch the store and opened only after
// session and license validity have been reconfirmed.
type dataService struct {
	userRepository     store.UserRepository
	userDataRepository store.UserDataRepository
	sessionService     SessionService
	licenseService     LicenseService
	cipher             crypto.Cipher
	logger             *logger.Logger
}

// NewDataService constructs a [DataService].
func NewDataService(
	userRepository store.UserRepository,
	userDataRepository store.UserDataRepository,
	sessionService SessionService,
	licenseService LicenseService,
	cipher crypto.Cipher,
	logger *logger.Logger,
) DataService {
	return &dataService{
		userRepository:     userRepository,
		userDataRepository: userDataRepository,
		sessionService:     sessionService,
		licenseService:     licenseService,
		cipher:             cipher,
		logger:             logger,
	}
}

// Save encrypts the payload and stores it as the user's only blob.
func (s *dataService) Save(ctx context.Context, sessionKey string, payload []byte) (models.UserData, error) {
	log := logger.FromContext(ctx)

	userID, err := s.authorize(ctx, sessionKey)
	if err != nil {
		return models.UserData{}, err
	}

	ciphertext, err := s.cipher.Encrypt(payload)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("payload encryption ended with error")
		return models.UserData{}, fmt.Errorf("payload encryption ended with error: %w", err)
	}

	saved, err := s.userDataRepository.SaveUserData(ctx, models.UserData{
		UserID:  userID,
		Payload: ciphertext,
	})
	if err != nil {
		return models.UserData{}, fmt.Errorf("saving user data ended with error: %w", err)
	}

	log.Info().Str("user_id", userID).Msg("user data saved")
	saved.Payload = nil
	return saved, nil
}

// Load returns the user's blob decrypted.
func (s *dataService) Load(ctx context.Context, sessionKey string) (models.UserData, error) {
	log := logger.FromContext(ctx)

	userID, err := s.authorize(ctx, sessionKey)
	if err != nil {
		return models.UserData{}, err
	}

	data, err := s.userDataRepository.FindLatestUserData(ctx, userID)
	if err != nil {
		return models.UserData{}, err
	}

	plaintext, err := s.cipher.Decrypt(data.Payload)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("payload decryption ended with error")
		return models.UserData{}, fmt.Errorf("payload decryption ended with error: %w", err)
	}

	data.Payload = plaintext
	return data, nil
}

// authorize resolves the session key to a user and reconfirms both session
// and license validity.
func (s *dataService) authorize(ctx context.Context, sessionKey string) (string, error) {
	session, err := s.sessionService.Validate(ctx, sessionKey)
	if err != nil {
		return "", err
	}

	user, err := s.userRepository.FindUserByID(ctx, session.UserID)
	if err != nil {
		return "", fmt.Errorf("user lookup ended with error: %w", err)
	}
	if user.Status != models.StatusActive {
		return "", ErrAccountNotActive
	}

	if err := s.licenseService.Revalidate(ctx, user.LicenseID); err != nil {
		return "", err
	}

	return user.UserID, nil
}
