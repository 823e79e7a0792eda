// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

// ErrInvalidCiphertext is returned when a blob cannot be opened: it is too
// short to contain a nonce, was sealed under a different key, or has been
// modified.
var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// aesCipher is the AES-256-GCM implementation of [Cipher]. The 256-bit key
// is derived from the configured master secret with SHA-256, so the secret
// itself may be an arbitrary passphrase. A random 12-byte nonce is prepended
// to every ciphertext: blob = nonce ‖ ciphertext.
type aesCipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a [Cipher] keyed by masterKey. The cipher is built
// once at boot and injected everywhere a secret must be sealed or opened;
// it is immutable and safe for concurrent use.
func NewCipher(masterKey string) (Cipher, error) {
	if masterKey == "" {
		return nil, errors.New("master key is empty")
	}

	key := sha256.Sum256([]byte(masterKey))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aesCipher{aead: aead}, nil
}

// Encrypt implements [Cipher].
func (c *aesCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	// Prepend the nonce so Decrypt can split it out.
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt implements [Cipher].
func (c *aesCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrInvalidCiphertext
	}

	return plaintext, nil
}

// EncryptString implements [Cipher].
func (c *aesCipher) EncryptString(plaintext string) (string, error) {
	blob, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptString implements [Cipher].
func (c *aesCipher) DecryptString(ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
