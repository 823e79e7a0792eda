package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/anexlab/gatekeeper/models"
)

var errStorage = errors.New("storage error")

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createFn         func(ctx context.Context, user models.User) (models.User, error)
	findByIDFn       func(ctx context.Context, userID string) (models.User, error)
	findByUsernameFn func(ctx context.Context, username string) (models.User, error)
	usernameTakenFn  func(ctx context.Context, username string) (bool, error)
	emailTakenFn     func(ctx context.Context, email string) (bool, error)
	updateFn         func(ctx context.Context, user models.User) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if m.usernameTakenFn != nil {
		return m.usernameTakenFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	if m.emailTakenFn != nil {
		return m.emailTakenFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user models.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.LicenseRepository
// ─────────────────────────────────────────────

type mockLicenseRepository struct {
	createFn   func(ctx context.Context, license models.License) (models.License, error)
	findByIDFn func(ctx context.Context, licenseID string) (models.License, error)
	updateFn   func(ctx context.Context, license models.License) error
}

func (m *mockLicenseRepository) CreateLicense(ctx context.Context, license models.License) (models.License, error) {
	if m.createFn != nil {
		return m.createFn(ctx, license)
	}
	return license, nil
}

func (m *mockLicenseRepository) FindLicenseByID(ctx context.Context, licenseID string) (models.License, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, licenseID)
	}
	return models.License{}, nil
}

func (m *mockLicenseRepository) UpdateLicense(ctx context.Context, license models.License) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, license)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

type mockSessionRepository struct {
	createFn         func(ctx context.Context, session models.Session) (models.Session, error)
	findByKeyFn      func(ctx context.Context, sessionKey string) (models.Session, error)
	findByUserIDFn   func(ctx context.Context, userID string) (models.Session, error)
	updateFn         func(ctx context.Context, session models.Session) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
	deleteByKeyFn    func(ctx context.Context, sessionKey string) error
}

func (m *mockSessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return session, nil
}

func (m *mockSessionRepository) FindSessionByKey(ctx context.Context, sessionKey string) (models.Session, error) {
	if m.findByKeyFn != nil {
		return m.findByKeyFn(ctx, sessionKey)
	}
	return models.Session{}, nil
}

func (m *mockSessionRepository) FindSessionByUserID(ctx context.Context, userID string) (models.Session, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return models.Session{}, nil
}

func (m *mockSessionRepository) UpdateSession(ctx context.Context, session models.Session) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteSessionByKey(ctx context.Context, sessionKey string) error {
	if m.deleteByKeyFn != nil {
		return m.deleteByKeyFn(ctx, sessionKey)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.AdminRepository
// ─────────────────────────────────────────────

type mockAdminRepository struct {
	getFn    func(ctx context.Context) (models.Admin, error)
	createFn func(ctx context.Context, admin models.Admin) (models.Admin, error)
}

func (m *mockAdminRepository) GetAdmin(ctx context.Context) (models.Admin, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return models.Admin{}, nil
}

func (m *mockAdminRepository) CreateAdmin(ctx context.Context, admin models.Admin) (models.Admin, error) {
	if m.createFn != nil {
		return m.createFn(ctx, admin)
	}
	return admin, nil
}

// ─────────────────────────────────────────────
// Mock: store.UserDataRepository
// ─────────────────────────────────────────────

type mockUserDataRepository struct {
	saveFn       func(ctx context.Context, data models.UserData) (models.UserData, error)
	findLatestFn func(ctx context.Context, userID string) (models.UserData, error)
}

func (m *mockUserDataRepository) SaveUserData(ctx context.Context, data models.UserData) (models.UserData, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, data)
	}
	return data, nil
}

func (m *mockUserDataRepository) FindLatestUserData(ctx context.Context, userID string) (models.UserData, error) {
	if m.findLatestFn != nil {
		return m.findLatestFn(ctx, userID)
	}
	return models.UserData{}, nil
}

// ─────────────────────────────────────────────
// Mock: fakeHasher
// ─────────────────────────────────────────────

// fakeHasher is a deterministic stand-in for the bcrypt hasher so that
// throttle scenarios stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Verify(digest, password string) bool { return digest == "hashed:"+password }
