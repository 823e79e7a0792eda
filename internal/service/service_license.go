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

// licenseService is the concrete implementation of [LicenseService].
//
// Expiry is detected lazily: nothing sweeps licenses in the background, the
// first read after the deadline flips the status and persists it.
type licenseService struct {
	licenseRepository store.LicenseRepository
	uuidGenerator     *utils.UUIDGenerator
	logger            *logger.Logger
}

// NewLicenseService constructs a [LicenseService] wired to the given
// repository.
func NewLicenseService(licenseRepository store.LicenseRepository, logger *logger.Logger) LicenseService {
	return &licenseService{
		licenseRepository: licenseRepository,
		uuidGenerator:     utils.NewUUIDGenerator(),
		logger:            logger,
	}
}

// Create issues a new license key. A zero duration produces a license that
// never expires.
func (s *licenseService) Create(ctx context.Context, durationDays int) (models.License, error) {
	log := logger.FromContext(ctx)

	license := models.License{
		LicenseID: s.uuidGenerator.Generate(),
		Status:    models.StatusActive,
		CanExpire: durationDays > 0,
	}
	if license.CanExpire {
		license.Expires = time.Now().Add(time.Duration(durationDays) * 24 * time.Hour)
	}

	created, err := s.licenseRepository.CreateLicense(ctx, license)
	if err != nil {
		log.Err(err).Int("duration_days", durationDays).Msg("license creation ended with error")
		return models.License{}, fmt.Errorf("license creation ended with error: %w", err)
	}

	log.Info().Str("license_id", created.LicenseID).Bool("can_expire", created.CanExpire).Msg("license created")
	return created, nil
}

// Claim consumes the license for a new registration. The claimed flag only
// ever transitions false to true; the transition is committed here, before
// the caller inserts the dependent user row.
func (s *licenseService) Claim(ctx context.Context, licenseKey string) (models.License, error) {
	log := logger.FromContext(ctx)

	license, err := s.licenseRepository.FindLicenseByID(ctx, licenseKey)
	if err != nil {
		log.Warn().Err(err).Msg("license lookup for claim failed")
		return models.License{}, ErrInvalidLicense
	}

	expired, license, err := s.CheckAndMaybeExpire(ctx, license)
	if err != nil {
		return models.License{}, err
	}
	if expired || license.Claimed || license.Status != models.StatusActive {
		log.Warn().
			Str("license_id", license.LicenseID).
			Bool("expired", expired).
			Bool("claimed", license.Claimed).
			Str("status", license.Status).
			Msg("license rejected for claim")
		return models.License{}, ErrInvalidLicense
	}

	license.Claimed = true
	if err := s.licenseRepository.UpdateLicense(ctx, license); err != nil {
		log.Err(err).Str("license_id", license.LicenseID).Msg("license claim commit ended with error")
		return models.License{}, fmt.Errorf("license claim commit ended with error: %w", err)
	}

	return license, nil
}

// Revalidate is the login-side license check. The polarity flips relative to
// [licenseService.Claim]: here the license must already be claimed.
func (s *licenseService) Revalidate(ctx context.Context, licenseID string) error {
	log := logger.FromContext(ctx)

	license, err := s.licenseRepository.FindLicenseByID(ctx, licenseID)
	if err != nil {
		log.Warn().Err(err).Str("license_id", licenseID).Msg("license lookup for revalidation failed")
		return ErrInvalidLicense
	}

	expired, license, err := s.CheckAndMaybeExpire(ctx, license)
	if err != nil {
		return err
	}
	if expired || !license.Claimed || license.Status != models.StatusActive {
		log.Warn().
			Str("license_id", license.LicenseID).
			Bool("expired", expired).
			Bool("claimed", license.Claimed).
			Str("status", license.Status).
			Msg("license rejected on revalidation")
		return ErrInvalidLicense
	}

	return nil
}

// CheckAndMaybeExpire determines expiry and persists the status flip on
// first detection. Licenses with CanExpire == false are never expired.
func (s *licenseService) CheckAndMaybeExpire(ctx context.Context, license models.License) (bool, models.License, error) {
	if !license.CanExpire || time.Now().Before(license.Expires) {
		return false, license, nil
	}

	if license.Status != models.StatusInactive {
		license.Status = models.StatusInactive
		if err := s.licenseRepository.UpdateLicense(ctx, license); err != nil {
			logger.FromContext(ctx).Err(err).Str("license_id", license.LicenseID).Msg("persisting license expiry ended with error")
			return true, license, fmt.Errorf("persisting license expiry ended with error: %w", err)
		}
	}

	return true, license, nil
}
