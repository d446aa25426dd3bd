// Package cryptoutil seals short secrets, such as backend access tokens, before they are stored.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sealer encrypts and decrypts stored secrets.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// Versioned prefix so the key or algorithm can rotate without rewriting stored values.
const sealedPrefixV1 = "v1:"

// ErrUnsealed is returned by Open for values that were stored without encryption.
var ErrUnsealed = errors.New("value is not sealed")

// AESGCM implements Sealer using AES-256-GCM.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM constructs an AESGCM sealer. key must be 32 bytes.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{aead: aead}, nil
}

// FromKey builds an AESGCM sealer from configuration. A 64-character hex key is decoded
// as-is; anything else is hashed with SHA-256. An empty key is an error.
func FromKey(key string) (*AESGCM, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("encryption key is required")
	}
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return NewAESGCM(decoded)
	}
	sum := sha256.Sum256([]byte(key))
	return NewAESGCM(sum[:])
}

// Seal encrypts plaintext with a random nonce and returns "v1:" + base64(nonce||ciphertext).
func (s *AESGCM) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	buf := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Open decrypts a value produced by Seal.
func (s *AESGCM) Open(sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefixV1) {
		return "", ErrUnsealed
	}
	data, err := base64.StdEncoding.DecodeString(sealed[len(sealedPrefixV1):])
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("sealed value too short")
	}
	pt, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
