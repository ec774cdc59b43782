package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	serialAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	SerialSuffixLength = 8
)

// GenerateSerialKey returns PREFIX-XXXXXXXX where the suffix is drawn uniformly
// from [A-Z0-9] using crypto/rand. Uniqueness is enforced by the store.
func GenerateSerialKey(prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("serial key prefix must not be empty")
	}
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("serial key prefix %q must contain only letters", prefix)
		}
	}

	max := big.NewInt(int64(len(serialAlphabet)))
	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + SerialSuffixLength)
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for i := 0; i < SerialSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		sb.WriteByte(serialAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
