package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/contracts/pcash"
	"github.com/paycash/pcash-contract/inheritance"
	"github.com/paycash/pcash-contract/internal/testutil"
	"github.com/paycash/pcash-contract/royalty"
	"github.com/paycash/pcash-contract/settlement"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestPrm(t *testing.T) Prm {
	tether := testutil.Account("tether")
	p := pcash.Params{
		Address: testutil.Account("pcash"),
		Inheritance: inheritance.Settings{
			MinPeriod:     86400,
			InitialPeriod: 31536000,
			MaxPeriod:     315360000,
		},
		Royalty: royalty.Settings{Period: 86400, Threshold: 1000, Cash: testutil.Cash},
		Settlement: settlement.Settings{
			Stable:     asset.Extended{Kind: testutil.Stable, Contract: tether},
			Collateral: asset.Extended{Kind: testutil.Collateral, Contract: testutil.Account("swap")},
			Cash:       testutil.Cash,
		},
	}

	c, err := pcash.New(p, storage.NewMemoryStore(), settlement.NewMemoryPools(), zaptest.NewLogger(t))
	require.NoError(t, err)

	return Prm{
		Logger: zaptest.NewLogger(t),
		Ledger: c,
		Clock:  func() uint32 { return 1_700_000_000 },
		State: State{
			Tokens: []TokenPrm{{Issuer: p.Address, MaxSupply: asset.New(1<<50, testutil.Cash)}},
			SwapPackage: asset.ExtendedAmount{
				Amount:   asset.New(10_000_000, testutil.Stable),
				Contract: tether,
			},
			RedemptionRates: []asset.Amount{asset.New(100_000, testutil.Cash)},
			RoyaltyHolders: []RoyaltyHolderPrm{
				{Account: testutil.Account("a"), Share: 300},
				{Account: testutil.Account("b"), Share: 200},
			},
		},
	}
}

func TestDeploy(t *testing.T) {
	prm := newTestPrm(t)
	c := prm.Ledger.(*pcash.Contract)

	require.NoError(t, Deploy(context.Background(), prm))

	v, err := c.StoredVersion()
	require.NoError(t, err)
	require.Equal(t, common.Version, v)

	tok, ok, err := c.Token(testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, prm.State.Tokens[0].MaxSupply, tok.MaxSupply)

	pkg, ok, err := c.SwapPackage(testutil.Stable.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, prm.State.SwapPackage, pkg)

	rate, ok, err := c.RedemptionRate(testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, prm.State.RedemptionRates[0], rate)

	hs, err := c.RoyaltyHolders()
	require.NoError(t, err)
	require.Len(t, hs, 2)

	t.Run("repeat", func(t *testing.T) {
		require.NoError(t, Deploy(context.Background(), prm))
	})

	t.Run("changed state", func(t *testing.T) {
		prm.State.RoyaltyHolders[0].Share = 500
		prm.State.RedemptionRates[0] = asset.New(200_000, testutil.Cash)
		require.NoError(t, Deploy(context.Background(), prm))

		rate, _, err := c.RedemptionRate(testutil.Cash.Symbol)
		require.NoError(t, err)
		require.Equal(t, int64(200_000), rate.Value)
	})

	t.Run("invalid state", func(t *testing.T) {
		prm.State.RoyaltyHolders = append(prm.State.RoyaltyHolders,
			RoyaltyHolderPrm{Account: testutil.Account("c"), Share: 400})
		require.ErrorIs(t, Deploy(context.Background(), prm), common.ErrInvariant)
	})
}

func TestDeploy_Context(t *testing.T) {
	prm := newTestPrm(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, Deploy(ctx, prm), context.Canceled)

	v, err := prm.Ledger.StoredVersion()
	require.NoError(t, err)
	require.Zero(t, v)
}
