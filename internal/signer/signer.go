// Package signer computes and verifies HMAC signatures over an ordered list of
// string fields.
package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/rohits-web03/webfile/internal/utils"
)

const DefaultAlgorithm = "sha256"

var algorithms = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Signer is immutable and safe for concurrent use.
type Signer struct {
	newHash func() hash.Hash
	key     []byte
}

// New returns a signer keyed with secret. An empty algorithm selects sha256.
func New(algorithm string, secret []byte) (*Signer, error) {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	h, ok := algorithms[strings.ToLower(algorithm)]
	if !ok {
		return nil, fmt.Errorf("signer: unsupported algorithm %q", algorithm)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("signer: empty secret")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Signer{newHash: h, key: key}, nil
}

// Canonicalize renders fields as a JSON array in the given order.
func Canonicalize(fields []string) ([]byte, error) {
	if fields == nil {
		fields = []string{}
	}
	return utils.MarshalJSON(fields)
}

// Sign returns the lowercase hex HMAC of the canonicalized fields.
func (s *Signer) Sign(fields ...string) (string, error) {
	sum, err := s.sum(fields)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// Verify recomputes the signature and compares it in constant time.
func (s *Signer) Verify(signature string, fields ...string) bool {
	want, err := s.Sign(fields...)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(signature))
}

func (s *Signer) sum(fields []string) ([]byte, error) {
	payload, err := Canonicalize(fields)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(s.newHash, s.key)
	mac.Write(payload)
	return mac.Sum(nil), nil
}
