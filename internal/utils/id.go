package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"path"
	"strings"
	"unicode"
)

const (
	uploadIDBytes    = 16 // 128-bit identifier
	uploadSegWidth   = 3
	uploadSegments   = 3
	maxFilenameRunes = 180
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateUploadPath returns prefix/aaa/bbb/ccc/<rest of id>/<filename> where the
// id is 128 random bits in hex. The short leading segments bound directory fan-out.
func GenerateUploadPath(prefix, filename string) (string, error) {
	b := make([]byte, uploadIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	id := hex.EncodeToString(b)

	parts := make([]string, 0, uploadSegments+3)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	for i := 0; i < uploadSegments; i++ {
		parts = append(parts, id[i*uploadSegWidth:(i+1)*uploadSegWidth])
	}
	parts = append(parts, id[uploadSegments*uploadSegWidth:], SanitizeFilename(filename))
	return path.Join(parts...), nil
}

// SanitizeFilename reduces a client supplied name to a safe single path segment.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))

	var b strings.Builder
	lastDash := false
	n := 0
	for _, r := range name {
		if n >= maxFilenameRunes {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if lastDash {
				continue
			}
			b.WriteRune('-')
			lastDash = true
		}
		n++
	}

	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "file"
	}
	return out
}
