// Package secrets seals small values before they reach the persistence
// store. The predecessor of this app kept the credential snapshot in plain
// text; here the "user" key is encrypted at rest with XChaCha20-Poly1305 and
// a key supplied through configuration.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrSealFailed is returned when encryption fails.
	ErrSealFailed = errors.New("secrets: seal failed")

	// ErrOpenFailed is returned when decryption or authentication fails.
	// A snapshot sealed with a different key opens with this error.
	ErrOpenFailed = errors.New("secrets: open failed")
)

// Box seals and opens byte values with a fixed symmetric key.
type Box struct {
	key []byte
}

// NewBox derives a sealing box from an arbitrary passphrase. The passphrase
// is stretched to the cipher's key size with SHA-256, so config can carry a
// human-chosen string instead of raw key material.
func NewBox(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, errors.New("secrets: passphrase cannot be empty")
	}
	sum := sha256.Sum256([]byte(passphrase))
	return &Box{key: sum[:]}, nil
}

// Seal encrypts value. The nonce is generated per call and prepended to the
// ciphertext, so sealed values are self-contained.
func (b *Box) Seal(value []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealFailed, err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealFailed, err)
	}

	return aead.Seal(nonce, nonce, value, nil), nil
}

// Open decrypts a value produced by Seal.
func (b *Box) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrOpenFailed
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	value, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return value, nil
}
