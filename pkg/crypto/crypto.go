package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateRandomSeed returns 32 bytes from the system's secure random source,
// hex encoded.
func GenerateRandomSeed() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

func SHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}
