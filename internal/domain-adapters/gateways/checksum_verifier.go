package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// checksumVerifier implements checksum verification using pure Go
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// VerifyContent verifies the SHA256 checksum of fetched file content.
// The expected sum is compared case-insensitively.
func (v *checksumVerifier) VerifyContent(content []byte, expectedSum string) error {
	expected := strings.ToLower(strings.TrimSpace(expectedSum))
	if len(expected) != sha256.Size*2 {
		return fmt.Errorf("invalid SHA256 checksum %q: want %d hex characters", expectedSum, sha256.Size*2)
	}

	actualSum := v.CalculateChecksum(content)
	if actualSum != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actualSum)
	}

	return nil
}

// CalculateChecksum calculates the hex encoded SHA256 checksum of content
func (v *checksumVerifier) CalculateChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
