package winner

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/questx-lab/lottery/pkg/crypto"
	"github.com/stretchr/testify/require"
)

func TestSelectWinnerTicket_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		seed, err := crypto.GenerateRandomSeed()
		require.NoError(t, err)

		for _, total := range []int64{1, 2, 3, 10, 1000} {
			ticket, err := SelectWinnerTicket(seed, total)
			require.NoError(t, err)
			require.GreaterOrEqual(t, ticket, int64(0))
			require.Less(t, ticket, total)
		}
	}
}

func TestSelectWinnerTicket_Deterministic(t *testing.T) {
	seed := strings.Repeat("ab", 32)

	first, err := SelectWinnerTicket(seed, 7)
	require.NoError(t, err)

	second, err := SelectWinnerTicket(seed, 7)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// Independent recomputation of the derivation.
	raw, err := hex.DecodeString(seed)
	require.NoError(t, err)
	digest := crypto.SHA256(raw)
	fraction := float64(binary.BigEndian.Uint64(digest[:8])>>11) / (1 << 53)
	require.Equal(t, int64(fraction*7), first)
}

func TestSelectWinnerTicket_SingleEntry(t *testing.T) {
	ticket, err := SelectWinnerTicket(strings.Repeat("ff", 32), 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), ticket)
}

func TestSelectWinnerTicket_Invalid(t *testing.T) {
	_, err := SelectWinnerTicket(strings.Repeat("00", 32), 0)
	require.ErrorIs(t, err, ErrNoEntries)

	_, err = SelectWinnerTicket("not-hex", 3)
	require.Error(t, err)

	_, err = SelectWinnerTicket("", 3)
	require.Error(t, err)
}

func TestSelectWinnerTicket_Distribution(t *testing.T) {
	const total = 4
	counts := make([]int, total)
	for i := 0; i < 4000; i++ {
		seed, err := crypto.GenerateRandomSeed()
		require.NoError(t, err)

		ticket, err := SelectWinnerTicket(seed, total)
		require.NoError(t, err)
		counts[ticket]++
	}

	for _, c := range counts {
		require.Greater(t, c, 700)
	}
}
