package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Text returns the hex SHA-256 of the input, used as a cache key for
// classifier score lookups.
func Text(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
