package analysis

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the SHA-256 of content as lowercase hex. It matches
// the checksum the submission store records for the same bytes.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
