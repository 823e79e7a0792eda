package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/internal/utils"
	"github.com/anexlab/gatekeeper/models"
)

// adminService provisions and verifies the singleton admin secret. The
// stored record holds only the cipher-encrypted identifier; the decrypted
// value is the key an administrator must present.
type adminService struct {
	adminRepository store.AdminRepository
	cipher          crypto.Cipher
	uuidGenerator   *utils.UUIDGenerator
	logger          *logger.Logger
}

// NewAdminService constructs an [AdminService].
func NewAdminService(adminRepository store.AdminRepository, cipher crypto.Cipher, logger *logger.Logger) AdminService {
	return &adminService{
		adminRepository: adminRepository,
		cipher:          cipher,
		uuidGenerator:   utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// Bootstrap provisions the admin record on first boot. The plaintext key is
// returned exactly once, when the record is created; it is never
// recoverable from logs or the store without the master key.
func (s *adminService) Bootstrap(ctx context.Context) (string, bool, error) {
	log := logger.FromContext(ctx)

	_, err := s.adminRepository.GetAdmin(ctx)
	if err == nil {
		return "", false, nil
	}
	if !errors.Is(err, store.ErrAdminNotFound) {
		return "", false, fmt.Errorf("admin lookup ended with error: %w", err)
	}

	adminKey := s.uuidGenerator.Generate()
	encryptedID, err := s.cipher.EncryptString(adminKey)
	if err != nil {
		log.Err(err).Msg("encrypting admin identifier ended with error")
		return "", false, fmt.Errorf("encrypting admin identifier ended with error: %w", err)
	}

	if _, err := s.adminRepository.CreateAdmin(ctx, models.Admin{EncryptedID: encryptedID}); err != nil {
		return "", false, fmt.Errorf("admin creation ended with error: %w", err)
	}

	log.Info().Msg("admin record provisioned")
	return adminKey, true, nil
}

// VerifyKey compares the presented key against the decrypted admin secret
// in constant time.
func (s *adminService) VerifyKey(ctx context.Context, adminKey string) error {
	log := logger.FromContext(ctx)

	admin, err := s.adminRepository.GetAdmin(ctx)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			log.Warn().Msg("admin key presented before provisioning")
			return ErrInvalidAdminKey
		}
		return fmt.Errorf("admin lookup ended with error: %w", err)
	}

	expected, err := s.cipher.DecryptString(admin.EncryptedID)
	if err != nil {
		log.Err(err).Msg("decrypting admin identifier ended with error")
		return fmt.Errorf("decrypting admin identifier ended with error: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(adminKey)) != 1 {
		log.Warn().Msg("invalid admin key presented")
		return ErrInvalidAdminKey
	}

	return nil
}
