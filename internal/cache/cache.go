package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/claimguard/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EvidenceKey generates a cache key for a claim's retrieved evidence.
// Keys are derived from the normalized claim text so the same assertion
// phrased with different casing or spacing hits the same entry.
func EvidenceKey(claimText string) string {
	return key("evidence", claimText)
}

// DecisionKey generates a cache key for a settled claim decision
func DecisionKey(claimText string) string {
	return key("decision", claimText)
}

func key(kind, claimText string) string {
	hash := sha256.Sum256([]byte(model.NormalizeClaimText(claimText)))
	return "claimguard:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
