package lib

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey  = errors.New("encryption key must be 32 bytes for AES-256")
	ErrSealedShort = errors.New("sealed note too short")
)

func noteAEAD(key string) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealNote encrypts a customer's free-text note with AES-256-GCM. The owner id
// is bound as additional data, so a note copied onto another customer's row
// fails to open. The output is base64(nonce || ciphertext); empty stays empty.
func SealNote(plain, key string, owner uuid.UUID) (string, error) {
	if plain == "" {
		return "", nil
	}
	aead, err := noteAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), owner[:])
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenNote reverses SealNote for the same owner.
func OpenNote(sealed, key string, owner uuid.UUID) (string, error) {
	if sealed == "" {
		return "", nil
	}
	aead, err := noteAEAD(key)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode note: %w", err)
	}
	n := aead.NonceSize()
	if len(data) < n {
		return "", ErrSealedShort
	}

	plain, err := aead.Open(nil, data[:n], data[n:], owner[:])
	if err != nil {
		return "", fmt.Errorf("failed to open note: %w", err)
	}
	return string(plain), nil
}
