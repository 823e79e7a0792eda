package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/models"
)

// dataHarness wires the data gate to a real cipher, a live session, and a
// single-blob fake store that mirrors the delete-then-insert transaction.
type dataHarness struct {
	svc        DataService
	sessionKey string
	blob       *models.UserData
}

func newDataHarness(t *testing.T) *dataHarness {
	t.Helper()

	cipher, err := crypto.NewCipher("test-master-key")
	require.NoError(t, err)

	userID := "0198c8b2-0000-7000-8000-000000000001"
	licenseID := "0198c8b2-0000-7000-8000-0000000000aa"

	h := &dataHarness{}

	userRepo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (models.User, error) {
			if id != userID {
				return models.User{}, store.ErrUserNotFound
			}
			return models.User{UserID: userID, LicenseID: licenseID, Status: models.StatusActive}, nil
		},
	}
	licenseRepo := &mockLicenseRepository{
		findByIDFn: func(ctx context.Context, id string) (models.License, error) {
			return models.License{LicenseID: licenseID, Status: models.StatusActive, Claimed: true}, nil
		},
	}
	dataRepo := &mockUserDataRepository{
		saveFn: func(ctx context.Context, data models.UserData) (models.UserData, error) {
			data.CreatedAt = time.Now()
			h.blob = &data
			return data, nil
		},
		findLatestFn: func(ctx context.Context, id string) (models.UserData, error) {
			if h.blob == nil {
				return models.UserData{}, store.ErrUserDataNotFound
			}
			return *h.blob, nil
		},
	}

	sessionRepo := &mockSessionRepository{}
	sessionService := NewSessionService(sessionRepo, config.DefaultSessionTTL, logger.Nop())
	session := models.Session{
		SessionKey: "0198c8b2-0000-7000-8000-00000000beef",
		UserID:     userID,
		Status:     models.StatusActive,
		CanExpire:  true,
		Expires:    time.Now().Add(time.Hour),
	}
	sessionRepo.findByKeyFn = func(ctx context.Context, key string) (models.Session, error) {
		if key != session.SessionKey {
			return models.Session{}, store.ErrSessionNotFound
		}
		return session, nil
	}
	h.sessionKey = session.SessionKey

	licenseService := NewLicenseService(licenseRepo, logger.Nop())
	h.svc = NewDataService(userRepo, dataRepo, sessionService, licenseService, cipher, logger.Nop())
	return h
}

func TestDataSaveAndLoad(t *testing.T) {
	t.Run("round trip returns the exact payload", func(t *testing.T) {
		h := newDataHarness(t)
		payload := []byte(`{"vault":"contents"}`)

		saved, err := h.svc.Save(testContext(), h.sessionKey, payload)
		require.NoError(t, err)
		assert.False(t, saved.CreatedAt.IsZero())

		// Ciphertext at rest, not the plaintext.
		require.NotNil(t, h.blob)
		assert.NotEqual(t, payload, h.blob.Payload)

		loaded, err := h.svc.Load(testContext(), h.sessionKey)
		require.NoError(t, err)
		assert.Equal(t, payload, loaded.Payload)
	})

	t.Run("second save replaces the first blob", func(t *testing.T) {
		h := newDataHarness(t)

		_, err := h.svc.Save(testContext(), h.sessionKey, []byte("first"))
		require.NoError(t, err)
		_, err = h.svc.Save(testContext(), h.sessionKey, []byte("second"))
		require.NoError(t, err)

		loaded, err := h.svc.Load(testContext(), h.sessionKey)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded.Payload)
	})

	t.Run("load without stored data", func(t *testing.T) {
		h := newDataHarness(t)

		_, err := h.svc.Load(testContext(), h.sessionKey)
		assert.ErrorIs(t, err, store.ErrUserDataNotFound)
	})

	t.Run("invalid session blocks both operations", func(t *testing.T) {
		h := newDataHarness(t)

		_, err := h.svc.Save(testContext(), "0198c8b2-0000-7000-8000-00000000dead", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidSession)

		_, err = h.svc.Load(testContext(), "0198c8b2-0000-7000-8000-00000000dead")
		assert.ErrorIs(t, err, ErrInvalidSession)
		assert.Nil(t, h.blob)
	})
}
