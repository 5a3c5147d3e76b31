package usecase

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// SlipFingerprint computes the stable identity of a slip image: the SHA-256
// hex digest of the image's base64 encoding. Identical bytes always produce
// the same fingerprint, so duplicate detection never needs the provider.
func SlipFingerprint(raw []byte) string {
	b64 := base64.StdEncoding.EncodeToString(raw)
	sum := sha256.Sum256([]byte(b64))
	return hex.EncodeToString(sum[:])
}
