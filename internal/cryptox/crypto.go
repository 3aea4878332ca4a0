// Package cryptox seals exported documents with a passphrase.
//
// A sealed document is laid out as
//
//	magic "AFTERYOU1" | salt (16 bytes) | nonce (12 bytes) | AES-256-GCM ciphertext
//
// The key is derived from the passphrase with argon2id. The magic header is
// also used as additional authenticated data.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
)

var magic = []byte("AFTERYOU1")

var (
	ErrNotSealed       = errors.New("document is not sealed")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted document")
	ErrEmptyPassphrase = errors.New("passphrase is required")
)

// randRead is swapped in tests.
var randRead = rand.Read

// DeriveKey stretches passphrase into a 32-byte AES key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// IsSealed reports whether data starts with the sealed document header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext with a key derived from passphrase.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := randRead(salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := randRead(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	aead, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(magic)+saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, magic), nil
}

// Open reverses Seal.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	body := sealed[len(magic):]
	if len(body) < saltSize+nonceSize {
		return nil, ErrWrongPassphrase
	}
	salt, nonce, ct := body[:saltSize], body[saltSize:saltSize+nonceSize], body[saltSize+nonceSize:]

	aead, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ct, magic)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
