package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// Hasher computes keyed HMAC-SHA256 signatures of request bodies.
// Hash instances are pooled per Hasher, so two Hashers with different keys
// never share state.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher for hashKey, or nil when hashKey is empty.
// A nil *Hasher is valid and signs nothing.
//
// Example usage:
//
//	h := utils.NewHasher("my-secret-key")
//	req.SetHeader("HashSHA256", h.Sign(body))
func NewHasher(hashKey string) *Hasher {
	if hashKey == "" {
		return nil
	}

	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Hash computes the raw HMAC-SHA256 digest of data using a pooled hash
// instance. Returns nil for a nil Hasher.
func (h *Hasher) Hash(data []byte) []byte {
	if h == nil {
		return nil
	}

	hs := h.pool.Get().(hash.Hash)
	hs.Reset()

	hs.Write(data)
	sum := hs.Sum(nil)

	hs.Reset()
	h.pool.Put(hs)

	return sum
}

// Sign returns the hex-encoded HMAC-SHA256 digest of data, or an empty
// string for a nil Hasher.
func (h *Hasher) Sign(data []byte) string {
	if h == nil {
		return ""
	}
	return hex.EncodeToString(h.Hash(data))
}

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Unlike Hasher.Sign, this function creates a new HMAC instance on each
// call. Suitable for one-off checks such as verifying a signature in tests.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
