package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/stratus-tools/stratus-advisor/internal/models"
)

// Fingerprint computes the deterministic digest of a normalized
// (query, product) pair, used as the cache key and the log correlation
// key. Identical normalized pairs always map to the same digest.
func Fingerprint(query string, product models.Product) string {
	normalized := strings.ToLower(strings.TrimSpace(query)) + ":" + string(product)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
