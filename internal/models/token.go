package models

import (
	"errors"
	"fmt"
)

// ErrCredential is returned when an access token cannot be resolved to a
// usable credential (missing key material, undecryptable ciphertext, or an
// item with no token at all).
var ErrCredential = errors.New("credential unavailable")

// Decrypter decrypts a ciphertext produced by the token encryption overlay.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Token is an access token as stored: plaintext, encrypted, or both.
// When the encrypted form is present it is authoritative; the plaintext
// column only survives until the encryption migration clears it.
type Token struct {
	Plain     string
	Encrypted string
}

// Resolve returns the usable credential. Decryption happens only here, at
// point of use. dec may be nil when no encryption key is configured; that is
// an error only if the stored token is encrypted.
func (t Token) Resolve(dec Decrypter) (string, error) {
	if t.Encrypted != "" {
		if dec == nil {
			return "", fmt.Errorf("%w: token is encrypted but no encryption key is configured", ErrCredential)
		}
		plain, err := dec.Decrypt(t.Encrypted)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCredential, err)
		}
		return plain, nil
	}
	if t.Plain == "" {
		return "", fmt.Errorf("%w: item has no access token", ErrCredential)
	}
	return t.Plain, nil
}

// IsEncrypted reports whether the authoritative form is the encrypted one.
func (t Token) IsEncrypted() bool {
	return t.Encrypted != ""
}
