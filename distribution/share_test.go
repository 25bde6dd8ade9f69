package distribution

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAllocateShare(t *testing.T) {
	for _, tc := range []struct {
		quantity int64
		share    Percent
		expected int64
	}{
		{quantity: 100, share: 333, expected: 33},
		{quantity: 100, share: 334, expected: 33},
		{quantity: 100, share: 1000, expected: 100},
		{quantity: 999, share: 1, expected: 0},
		{quantity: 1000, share: 1, expected: 1},
		{quantity: 1 << 62, share: 500, expected: 1 << 61},
	} {
		require.Equal(t, tc.expected, AllocateShare(tc.quantity, tc.share), "%d * %s", tc.quantity, tc.share)
	}
}

func TestPercent(t *testing.T) {
	require.Equal(t, "33.3%", Percent(333).String())
	require.Equal(t, "100.0%", MaxPercent.String())

	p, err := ParsePercent("33.4%")
	require.NoError(t, err)
	require.Equal(t, Percent(334), p)

	p, err = ParsePercent("5")
	require.NoError(t, err)
	require.Equal(t, Percent(50), p)

	_, err = ParsePercent("0.05")
	require.Error(t, err)

	require.False(t, Percent(0).IsValid())
	require.False(t, Percent(1001).IsValid())
	require.True(t, MinPercent.IsValid())
}

func TestSplit(t *testing.T) {
	x, y, z := util.Uint160{1}, util.Uint160{2}, util.Uint160{3}

	t.Run("remainder goes to the last declared", func(t *testing.T) {
		res := Split(100, []Recipient{{x, 333}, {y, 333}, {z, 334}})
		require.Equal(t, []Allocation{{z, 34}, {y, 33}, {x, 33}}, res)
	})

	t.Run("single recipient", func(t *testing.T) {
		require.Equal(t, []Allocation{{x, 7}}, Split(7, []Recipient{{x, 1000}}))
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, Split(7, nil))
	})

	t.Run("conservation", func(t *testing.T) {
		r := rand.New(rand.NewSource(42))
		for i := 0; i < 1000; i++ {
			a := Percent(r.Intn(998) + 1)
			b := Percent(r.Intn(int(MaxPercent-a-1)) + 1)
			recipients := []Recipient{{x, a}, {y, b}, {z, MaxPercent - a - b}}
			quantity := r.Int63n(1_000_000_000)

			var sum int64
			for _, al := range Split(quantity, recipients) {
				require.GreaterOrEqual(t, al.Amount, int64(0))
				sum += al.Amount
			}
			require.Equal(t, quantity, sum)
		}
	})
}
