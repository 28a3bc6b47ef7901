// Package crypto implements the encryption-at-rest overlay for provider
// access tokens: AES-256-GCM with a random nonce prepended to the ciphertext,
// base64-encoded for storage in a text column.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidKey is returned when the key is not exactly 32 bytes (AES-256).
var ErrInvalidKey = errors.New("encryption key must be exactly 32 bytes")

const nonceSize = 12

type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates an encryptor from a raw 32-byte key.
func NewEncryptor(key string) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// NewEncryptorFromPassphrase derives a 32-byte key from an arbitrary-length
// passphrase with Argon2id and a deployment-fixed salt. The salt must be
// stable across restarts or previously encrypted tokens become unreadable.
func NewEncryptorFromPassphrase(passphrase, salt string) (*Encryptor, error) {
	if passphrase == "" {
		return nil, ErrInvalidKey
	}
	saltHash := sha256.Sum256([]byte(salt))
	key := argon2.IDKey([]byte(passphrase), saltHash[:], 1, 64*1024, 4, 32)
	return NewEncryptor(string(key))
}

// Encrypt encrypts plaintext and returns a base64 string of nonce||ciphertext.
// The empty string passes through unencrypted so that absent values stay absent.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or truncated ciphertexts fail GCM
// authentication and return an error.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	if len(raw) < nonceSize {
		return "", errors.New("ciphertext shorter than nonce")
	}

	nonce, sealed := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
