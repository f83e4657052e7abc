// Package idhash derives deterministic identifiers and lock keys.
package idhash

import (
	"hash/fnv"
	"strings"
)

// TokenLockKey derives a stable int64 advisory-lock key from a token
// address using FNV-1a. The address is lowercased first so mixed-case
// inputs map to the same lock.
func TokenLockKey(tokenAddress string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(tokenAddress)))
	return int64(h.Sum64())
}
