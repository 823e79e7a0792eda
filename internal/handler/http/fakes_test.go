package http

import (
	"context"
	"sync"
	"time"

	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/models"
)

// In-memory repositories backing the round-trip tests. They honor the same
// contracts the SQL repositories do: sentinel errors for absent rows,
// server-assigned timestamps, single blob per user.

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by user id
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return models.User{}, store.ErrUsernameAlreadyExists
		}
		if user.Email != "" && u.Email == user.Email {
			return models.User{}, store.ErrEmailAlreadyExists
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.UserID] = user
	return user, nil
}

func (m *memUsers) FindUserByID(_ context.Context, userID string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (m *memUsers) FindUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *memUsers) UsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UpdateUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.UserID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

type memLicenses struct {
	mu       sync.Mutex
	licenses map[string]models.License
}

func newMemLicenses() *memLicenses {
	return &memLicenses{licenses: map[string]models.License{}}
}

func (m *memLicenses) CreateLicense(_ context.Context, license models.License) (models.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	license.CreatedAt = now
	license.UpdatedAt = now
	m.licenses[license.LicenseID] = license
	return license, nil
}

func (m *memLicenses) FindLicenseByID(_ context.Context, licenseID string) (models.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	license, ok := m.licenses[licenseID]
	if !ok {
		return models.License{}, store.ErrLicenseNotFound
	}
	return license, nil
}

func (m *memLicenses) UpdateLicense(_ context.Context, license models.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	license.UpdatedAt = time.Now()
	m.licenses[license.LicenseID] = license
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]models.Session // keyed by session key
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[string]models.Session{}}
}

func (m *memSessions) CreateSession(_ context.Context, session models.Session) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	m.sessions[session.SessionKey] = session
	return session, nil
}

func (m *memSessions) FindSessionByKey(_ context.Context, sessionKey string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionKey]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessions) FindSessionByUserID(_ context.Context, userID string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.UserID == userID {
			return s, nil
		}
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (m *memSessions) UpdateSession(_ context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.UpdatedAt = time.Now()
	m.sessions[session.SessionKey] = session
	return nil
}

func (m *memSessions) DeleteSessionsByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, key)
		}
	}
	return nil
}

func (m *memSessions) DeleteSessionByKey(_ context.Context, sessionKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey)
	return nil
}

type memAdmins struct {
	mu    sync.Mutex
	admin *models.Admin
}

func newMemAdmins() *memAdmins {
	return &memAdmins{}
}

func (m *memAdmins) GetAdmin(_ context.Context) (models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin == nil {
		return models.Admin{}, store.ErrAdminNotFound
	}
	return *m.admin, nil
}

func (m *memAdmins) CreateAdmin(_ context.Context, admin models.Admin) (models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admin.CreatedAt = time.Now()
	m.admin = &admin
	return admin, nil
}

type memUserData struct {
	mu    sync.Mutex
	blobs map[string]models.UserData // keyed by user id, one blob each
}

func newMemUserData() *memUserData {
	return &memUserData{blobs: map[string]models.UserData{}}
}

func (m *memUserData) SaveUserData(_ context.Context, data models.UserData) (models.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data.CreatedAt = time.Now()
	m.blobs[data.UserID] = data
	return data, nil
}

func (m *memUserData) FindLatestUserData(_ context.Context, userID string) (models.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[userID]
	if !ok {
		return models.UserData{}, store.ErrUserDataNotFound
	}
	return data, nil
}
