package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hasher derives an opaque credential digest from a company, username
// and PIN. The digest input format is fixed; the algorithm is pluggable.
type Hasher interface {
	HashPin(companyCode, username, pin string) string
}

// SHA256Hasher digests "companyCode:username:pin" to lowercase hex.
type SHA256Hasher struct{}

func (SHA256Hasher) HashPin(companyCode, username, pin string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", companyCode, username, pin)))
	return hex.EncodeToString(sum[:])
}

// VerifyPin checks a plaintext PIN against a stored digest.
func VerifyPin(h Hasher, companyCode, username, pin, pinHash string) bool {
	return pinHash != "" && h.HashPin(companyCode, username, pin) == pinHash
}
