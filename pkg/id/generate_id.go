package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewEventID returns a canonical RFC 4122 v4 uuid string.
func NewEventID() string { return uuid.NewString() }

// ValidRequestID accepts a lowercase v1-v5 uuid or 32-char lowercase hex.
func ValidRequestID(s string) bool {
	if len(s) == 32 {
		return IsHex32(s)
	}
	if len(s) != 36 || strings.ToLower(s) != s {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Version() >= 1 && u.Version() <= 5 && u.Variant() == uuid.RFC4122
}

// IsHex32 reports whether s is 32 lowercase hex characters.
func IsHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
