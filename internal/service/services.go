package service

import (
	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
)

// Services bundles every engine the transport layer depends on.
type Services struct {
	AccountService AccountService
	LicenseService LicenseService
	SessionService SessionService
	AdminService   AdminService
	DataService    DataService
}

// NewServices wires the engines to the repositories and the cryptographic
// collaborators.
func NewServices(repos *store.Repositories, cipher crypto.Cipher, hasher crypto.PasswordHasher, cfg config.App, logger *logger.Logger) *Services {
	licenseService := NewLicenseService(repos.Licenses, logger)
	sessionService := NewSessionService(repos.Sessions, cfg.SessionTTL, logger)

	return &Services{
		AccountService: NewAccountService(repos.Users, licenseService, sessionService, hasher, logger),
		LicenseService: licenseService,
		SessionService: sessionService,
		AdminService:   NewAdminService(repos.Admins, cipher, logger),
		DataService:    NewDataService(repos.Users, repos.UserData, sessionService, licenseService, cipher, logger),
	}
}
