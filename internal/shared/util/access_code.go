package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateAccessCode returns a random 6-digit portal access code.
func GenerateAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate access code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashAccessCode returns the hex-encoded SHA-256 digest of a code.
// Only the digest is persisted; the plain code is shown once to the lead.
func HashAccessCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// AccessCodeHint returns the last two characters of a code, used as a
// recovery hint on the portal login screen.
func AccessCodeHint(code string) string {
	if len(code) < 2 {
		return code
	}
	return code[len(code)-2:]
}
