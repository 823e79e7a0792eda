package models

import "time"

// Request and response bodies for the HTTP surface. Field names follow the
// JSON shapes the clients already rely on.

type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	LicenseKey string `json:"licenseKey"`
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionKey string `json:"sessionKey"`
}

type CreateLicenseRequest struct {
	AdminKey     string `json:"adminKey"`
	DurationDays int    `json:"durationDays"`
}

type CreateLicenseResponse struct {
	LicenseKey string `json:"licenseKey"`
}

type SaveDataRequest struct {
	Payload string `json:"payload"`
}

type LoadDataResponse struct {
	Payload string    `json:"payload"`
	SavedAt time.Time `json:"savedAt"`
}

// ErrorResponse is the uniform rejected-request body. RetryAfterMinutes is
// populated only for throttled login attempts.
type ErrorResponse struct {
	Error             string `json:"error"`
	RetryAfterMinutes int    `json:"retryAfterMinutes,omitempty"`
}
