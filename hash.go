package gomt

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a result cache key from a text hash and model identifier.
// The model identifier already encodes the language pair.
func CacheKey(hash, model string) string {
	return hash + ":" + model
}
