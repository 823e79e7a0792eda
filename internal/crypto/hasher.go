// SPDX-License-Identifier: Apache-2.0

package crypto

import "golang.org/x/crypto/bcrypt"

// bcryptHasher is the bcrypt implementation of [PasswordHasher]. Each digest
// embeds its own random salt, so equal passwords never hash to equal digests.
type bcryptHasher struct {
	cost int
}

// NewPasswordHasher constructs a [PasswordHasher] with the bcrypt default
// cost.
func NewPasswordHasher() PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash implements [PasswordHasher].
func (h *bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify implements [PasswordHasher]. The comparison is constant-time.
func (h *bcryptHasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
