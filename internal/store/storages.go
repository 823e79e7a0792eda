// SPDX-License-Identifier: Apache-2.0

package store

import "github.com/anexlab/gatekeeper/internal/logger"

// Repositories bundles all persistence interfaces the service layer depends
// on.
type Repositories struct {
	Users    UserRepository
	Licenses LicenseRepository
	Sessions SessionRepository
	Admins   AdminRepository
	UserData UserDataRepository
}

// NewRepositories wires every repository to the shared database handle.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	log.Debug().Msg("creating repositories")
	return &Repositories{
		Users:    NewUserRepository(db, log),
		Licenses: NewLicenseRepository(db, log),
		Sessions: NewSessionRepository(db, log),
		Admins:   NewAdminRepository(db, log),
		UserData: NewUserDataRepository(db, log),
	}
}
