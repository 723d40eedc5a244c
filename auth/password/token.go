package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// GenerateRecoveryCode creates a cryptographically secure random code of the
// specified byte length, returned as a hex-encoded string. Used as the
// single-use secondary credential in the password-recovery flow.
func GenerateRecoveryCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("password: generate recovery code: %w", err)
	}
	return hex.EncodeToString(b), nil
}
