package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short stable identifier for text that must not be
// logged verbatim.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:6])
}
