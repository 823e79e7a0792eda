package models

import "time"

// License is the entitlement record a user presents at registration.
// A license is claimed exactly once; the claimed flag only ever transitions
// false→true and never back.
type License struct {
	// LicenseID is the opaque entitlement key in canonical UUID textual form.
	LicenseID string `json:"licenseId"`

	// Status is the lifecycle state. Expiry detection flips an expired
	// license to StatusInactive.
	Status string `json:"status"`

	// CanExpire is false for licenses created with a zero duration; such
	// licenses never expire regardless of the Expires value.
	CanExpire bool `json:"canExpire"`

	// Expires is the expiry timestamp. Meaningful only when CanExpire is set.
	Expires time.Time `json:"expires"`

	// Claimed marks the license as consumed by a registration.
	Claimed bool `json:"claimed"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the License model.
func (l License) TableName() string {
	return "licenses"
}
