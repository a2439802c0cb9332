package license

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// keyPattern matches the XXXX-XXXX-XXXX-XXXX key format. Input is accepted
// case-insensitively and normalized to uppercase.
var keyPattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Key is the license key value object. Keys are generated server-side and
// never accepted from clients except for lookup.
type Key string

// NewKey validates and normalizes a client-supplied license key.
func NewKey(raw string) (Key, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrKeyRequired
	}
	if !keyPattern.MatchString(normalized) {
		return "", ErrInvalidKeyFormat
	}
	return Key(normalized), nil
}

// GenerateKey creates a fresh random license key from crypto/rand.
func GenerateKey() (Key, error) {
	segments := make([]string, 4)
	for i := range segments {
		buf := make([]byte, 2)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate license key: %w", err)
		}
		segments[i] = strings.ToUpper(hex.EncodeToString(buf))
	}
	return Key(strings.Join(segments, "-")), nil
}

// String returns the string representation of the key.
func (k Key) String() string {
	return string(k)
}
