// Package target turns an (entity, file property) pair into an opaque token a
// client can carry to the direct-upload endpoints and back.
package target

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/models"
	"golang.org/x/crypto/hkdf"
)

const (
	keyInfo        = "webfile target"
	pairSeparator  = "|"
	tokenSeparator = "."
)

var encoding = base64.RawURLEncoding

// Resolver looks up file property configurations. *mapping.Index implements it.
type Resolver interface {
	Lookup(entityClass, property string) (models.FilePropertyConfiguration, error)
}

// Encryptor is read-only after construction and safe for concurrent use.
type Encryptor struct {
	aead     cipher.AEAD
	resolver Resolver
}

// NewEncryptor derives an AES-256 key from secret.
func NewEncryptor(secret string, resolver Resolver) (*Encryptor, error) {
	if secret == "" {
		return nil, fmt.Errorf("target encryptor: empty secret")
	}
	key, err := DeriveKey(secret, keyInfo, 32)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encryptor{aead: aead, resolver: resolver}, nil
}

// DeriveKey expands secret into n bytes bound to info with HKDF-SHA256.
func DeriveKey(secret, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Encrypt returns the token for a configured pair. Unknown pairs fail with
// ErrConfigurationNotFound so no token is ever issued for them.
func (e *Encryptor) Encrypt(entityClass, property string) (string, error) {
	if _, err := e.resolver.Lookup(entityClass, property); err != nil {
		return "", err
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	plaintext := []byte(entityClass + pairSeparator + property)
	ciphertext := e.aead.Seal(nil, nonce, plaintext, nil)

	return encoding.EncodeToString(ciphertext) + tokenSeparator + encoding.EncodeToString(nonce), nil
}

// Decrypt resolves a token back to its configuration. Malformed, tampered or
// foreign tokens fail with ErrInvalidToken; pairs that are no longer configured
// fail with ErrConfigurationNotFound.
func (e *Encryptor) Decrypt(token string) (models.FilePropertyConfiguration, error) {
	var zero models.FilePropertyConfiguration

	parts := strings.Split(token, tokenSeparator)
	if len(parts) != 2 {
		return zero, fmt.Errorf("%w: malformed target", common.ErrInvalidToken)
	}

	ciphertext, err := encoding.DecodeString(parts[0])
	if err != nil {
		return zero, fmt.Errorf("%w: ciphertext encoding", common.ErrInvalidToken)
	}
	nonce, err := encoding.DecodeString(parts[1])
	if err != nil || len(nonce) != e.aead.NonceSize() {
		return zero, fmt.Errorf("%w: iv", common.ErrInvalidToken)
	}

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return zero, fmt.Errorf("%w: decryption failed", common.ErrInvalidToken)
	}
	if !utf8.Valid(plaintext) {
		return zero, fmt.Errorf("%w: not utf-8", common.ErrInvalidToken)
	}

	entityClass, property, ok := strings.Cut(string(plaintext), pairSeparator)
	if !ok || entityClass == "" || property == "" {
		return zero, fmt.Errorf("%w: malformed payload", common.ErrInvalidToken)
	}

	return e.resolver.Lookup(entityClass, property)
}
