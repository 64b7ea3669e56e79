package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameRunes = 100

// ErrInvalidFileName is returned for names that cannot be logged safely.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes a client-supplied upload name safe to log: path
// separators become underscores, control characters are dropped and the
// result is capped at maxFileNameRunes. Traversal patterns are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}

	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(name) {
		if n == maxFileNameRunes {
			break
		}
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
		n++
	}

	if b.Len() == 0 {
		return "", ErrInvalidFileName
	}
	return b.String(), nil
}
