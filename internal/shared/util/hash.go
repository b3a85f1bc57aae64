package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives a stable, filesystem-safe prefix from a user ID so
// photo keys never embed the raw OAuth subject. 16 bytes of the digest is
// plenty for partitioning.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
