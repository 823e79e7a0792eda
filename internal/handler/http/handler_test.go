package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anexlab/gatekeeper/internal/config"
	"github.com/anexlab/gatekeeper/internal/crypto"
	"github.com/anexlab/gatekeeper/internal/logger"
	"github.com/anexlab/gatekeeper/internal/service"
	"github.com/anexlab/gatekeeper/internal/store"
	"github.com/anexlab/gatekeeper/models"
)

const testAccessToken = "test-access-token"

// newTestServer boots the full stack against in-memory repositories and
// returns a resty client already carrying the access token, plus the admin
// key provisioned at bootstrap.
func newTestServer(t *testing.T) (*resty.Client, string) {
	t.Helper()

	cipher, err := crypto.NewCipher("test-master-key")
	require.NoError(t, err)

	repos := &store.Repositories{
		Users:    newMemUsers(),
		Licenses: newMemLicenses(),
		Sessions: newMemSessions(),
		Admins:   newMemAdmins(),
		UserData: newMemUserData(),
	}

	cfg := config.App{
		MasterKey:   "test-master-key",
		AccessToken: testAccessToken,
		SessionTTL:  config.DefaultSessionTTL,
	}

	services := service.NewServices(repos, cipher, crypto.NewPasswordHasher(), cfg, logger.Nop())

	adminKey, created, err := services.AdminService.Bootstrap(context.Background())
	require.NoError(t, err)
	require.True(t, created)

	srv := httptest.NewServer(NewHandler(services, cfg, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	client := resty.New().
		SetBaseURL(srv.URL).
		SetHeader("Content-Type", "application/json").
		SetHeader(accessTokenHeader, testAccessToken)

	return client, adminKey
}

// createLicense issues a license over the API and returns its key.
func createLicense(t *testing.T, client *resty.Client, adminKey string, durationDays int) string {
	t.Helper()

	var out models.CreateLicenseResponse
	resp, err := client.R().
		SetBody(models.CreateLicenseRequest{AdminKey: adminKey, DurationDays: durationDays}).
		SetResult(&out).
		Post("/api/license")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, out.LicenseKey)
	return out.LicenseKey
}

func TestRegisterLoginDataFlow(t *testing.T) {
	client, adminKey := newTestServer(t)
	licenseKey := createLicense(t, client, adminKey, 0)

	// register
	var registered models.RegisterResponse
	resp, err := client.R().
		SetBody(models.RegisterRequest{
			Username: "johndoe", Email: "john@example.com",
			Password: "secret1", LicenseKey: licenseKey,
		}).
		SetResult(&registered).
		Post("/api/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.NotEmpty(t, registered.UserID)

	// the same license key cannot be claimed twice
	var errOut models.ErrorResponse
	resp, err = client.R().
		SetBody(models.RegisterRequest{
			Username: "janedoe", Email: "jane@example.com",
			Password: "secret1", LicenseKey: licenseKey,
		}).
		SetError(&errOut).
		Post("/api/register")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, service.ErrInvalidLicense.Error(), errOut.Error)

	// login
	var login models.LoginResponse
	resp, err = client.R().
		SetBody(models.LoginRequest{Username: "johndoe", Password: "secret1"}).
		SetResult(&login).
		Post("/api/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, login.SessionKey)

	// save then load the blob
	resp, err = client.R().
		SetBody(models.SaveDataRequest{Payload: `{"vault":"v1"}`}).
		Post("/api/data/" + login.SessionKey)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var loaded models.LoadDataResponse
	resp, err = client.R().
		SetResult(&loaded).
		Get("/api/data/" + login.SessionKey)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, `{"vault":"v1"}`, loaded.Payload)
	assert.False(t, loaded.SavedAt.IsZero())

	// a second save replaces the blob
	resp, err = client.R().
		SetBody(models.SaveDataRequest{Payload: `{"vault":"v2"}`}).
		Post("/api/data/" + login.SessionKey)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().
		SetResult(&loaded).
		Get("/api/data/" + login.SessionKey)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, `{"vault":"v2"}`, loaded.Payload)

	// a fresh login evicts the old session
	var relogin models.LoginResponse
	resp, err = client.R().
		SetBody(models.LoginRequest{Username: "johndoe", Password: "secret1"}).
		SetResult(&relogin).
		Post("/api/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.NotEqual(t, login.SessionKey, relogin.SessionKey)

	resp, err = client.R().Get("/api/data/" + login.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

	// logout kills the new session too
	resp, err = client.R().Post("/api/logout/" + relogin.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().Get("/api/data/" + relogin.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestLoginRejections(t *testing.T) {
	client, adminKey := newTestServer(t)
	licenseKey := createLicense(t, client, adminKey, 0)

	resp, err := client.R().
		SetBody(models.RegisterRequest{
			Username: "johndoe", Email: "john@example.com",
			Password: "secret1", LicenseKey: licenseKey,
		}).
		Post("/api/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	t.Run("wrong password and unknown user share one message", func(t *testing.T) {
		var wrongOut, unknownOut models.ErrorResponse

		resp, err := client.R().
			SetBody(models.LoginRequest{Username: "johndoe", Password: "wrong11"}).
			SetError(&wrongOut).
			Post("/api/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

		resp, err = client.R().
			SetBody(models.LoginRequest{Username: "nobody1", Password: "wrong11"}).
			SetError(&unknownOut).
			Post("/api/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

		assert.Equal(t, wrongOut.Error, unknownOut.Error)
	})

	t.Run("repeated failures answer 429 with retry hint", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			resp, err := client.R().
				SetBody(models.LoginRequest{Username: "johndoe", Password: "wrong11"}).
				Post("/api/login")
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		}

		var errOut models.ErrorResponse
		resp, err := client.R().
			SetBody(models.LoginRequest{Username: "johndoe", Password: "secret1"}).
			SetError(&errOut).
			Post("/api/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode())
		assert.Equal(t, 1, errOut.RetryAfterMinutes)
	})

	t.Run("malformed body answers 400", func(t *testing.T) {
		resp, err := client.R().
			SetBody("{not json").
			Post("/api/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestCreateLicenseRejections(t *testing.T) {
	client, _ := newTestServer(t)

	t.Run("wrong admin key", func(t *testing.T) {
		var errOut models.ErrorResponse
		resp, err := client.R().
			SetBody(models.CreateLicenseRequest{AdminKey: "0198c8b2-0000-7000-8000-00000000dead"}).
			SetError(&errOut).
			Post("/api/license")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, service.ErrInvalidAdminKey.Error(), errOut.Error)
	})

	t.Run("negative duration", func(t *testing.T) {
		resp, err := client.R().
			SetBody(models.CreateLicenseRequest{AdminKey: "irrelevant", DurationDays: -1}).
			Post("/api/license")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestAccessTokenGate(t *testing.T) {
	client, adminKey := newTestServer(t)

	t.Run("mutating endpoint without token rejected", func(t *testing.T) {
		bare := resty.New().SetBaseURL(client.BaseURL)

		var errOut models.ErrorResponse
		resp, err := bare.R().
			SetHeader("Content-Type", "application/json").
			SetBody(models.CreateLicenseRequest{AdminKey: adminKey}).
			SetError(&errOut).
			Post("/api/license")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "missing or invalid access token", errOut.Error)
	})

	t.Run("read endpoint stays open", func(t *testing.T) {
		bare := resty.New().SetBaseURL(client.BaseURL)

		// Rejected for the bad session, not for a missing token.
		var errOut models.ErrorResponse
		resp, err := bare.R().
			SetError(&errOut).
			Get("/api/data/0198c8b2-0000-7000-8000-00000000dead")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, service.ErrInvalidSession.Error(), errOut.Error)
	})
}

func TestTraceIDPropagation(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.R().
		SetHeader(traceIDHeader, "trace-123").
		Get("/api/data/0198c8b2-0000-7000-8000-00000000dead")
	require.NoError(t, err)
	assert.Equal(t, "trace-123", resp.Header().Get(traceIDHeader))

	resp, err = client.R().Get("/api/data/0198c8b2-0000-7000-8000-00000000dead")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header().Get(traceIDHeader))
}
