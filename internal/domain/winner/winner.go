// Package winner derives the winning ticket of a cycle from its random seed.
// The derivation only depends on the seed and the number of tickets, so anyone
// holding the persisted seed can verify the result.
package winner

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/questx-lab/lottery/pkg/crypto"
)

var ErrNoEntries = errors.New("cycle has no entries")

// SelectWinnerTicket hashes the hex seed with SHA-256, takes the top 53 bits
// of the digest as a fraction in [0, 1), and scales it to [0, totalEntries).
func SelectWinnerTicket(seed string, totalEntries int64) (int64, error) {
	if totalEntries <= 0 {
		return 0, ErrNoEntries
	}

	raw, err := hex.DecodeString(seed)
	if err != nil {
		return 0, fmt.Errorf("invalid seed: %w", err)
	}

	if len(raw) == 0 {
		return 0, errors.New("invalid seed: empty")
	}

	digest := crypto.SHA256(raw)
	fraction := float64(binary.BigEndian.Uint64(digest[:8])>>11) / (1 << 53)

	ticket := int64(fraction * float64(totalEntries))
	if ticket >= totalEntries {
		ticket = totalEntries - 1
	}

	return ticket, nil
}
