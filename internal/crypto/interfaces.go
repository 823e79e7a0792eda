// SPDX-License-Identifier: Apache-2.0

// Package crypto holds the two cryptographic collaborators of the gatekeeper
// core: a process-keyed reversible cipher and a one-way password hasher.
package crypto

// Cipher is a reversible symmetric cipher keyed by a boot-time secret.
// It protects opaque tokens that must be both unguessable and recoverable
// (the admin identifier) and user data blobs at rest.
type Cipher interface {
	// Encrypt seals plaintext and returns the ciphertext blob.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt. It fails if the blob was produced under a
	// different key or has been tampered with.
	Decrypt(ciphertext []byte) ([]byte, error)

	// EncryptString seals a textual token and returns a base64 form safe to
	// store in a text column.
	EncryptString(plaintext string) (string, error)

	// DecryptString reverses EncryptString.
	DecryptString(ciphertext string) (string, error)
}

// PasswordHasher performs one-way salted password hashing with a
// constant-time verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(digest, password string) bool
}
