package balance

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/internal/testutil"
	"github.com/stretchr/testify/require"
)

type hooksRecorder struct {
	opened, closed, spent []util.Uint160
}

func (h *hooksRecorder) AccountOpened(_ *common.Context, owner util.Uint160) error {
	h.opened = append(h.opened, owner)
	return nil
}

func (h *hooksRecorder) AccountsClosed(_ *common.Context, owner util.Uint160) error {
	h.closed = append(h.closed, owner)
	return nil
}

func (h *hooksRecorder) Spent(_ *common.Context, owner util.Uint160) error {
	h.spent = append(h.spent, owner)
	return nil
}

func newTestBook(t *testing.T) (*Book, *hooksRecorder, *testutil.Env) {
	h := new(hooksRecorder)
	b := New(h)
	e := testutil.NewEnv(t, testutil.Account("ledger"))
	require.NoError(t, b.Create(e.Admin(), e.Self, asset.New(1_000_000_000, testutil.Cash)))
	return b, h, e
}

func TestBook_Create(t *testing.T) {
	b, _, e := newTestBook(t)
	owner := testutil.Account("owner")

	t.Run("not admin", func(t *testing.T) {
		err := b.Create(e.Context(owner), owner, asset.New(10, testutil.Stable))
		require.ErrorIs(t, err, common.ErrAuthorization)
	})
	t.Run("duplicate", func(t *testing.T) {
		err := b.Create(e.Admin(), owner, asset.New(10, testutil.Cash))
		require.ErrorIs(t, err, common.ErrInvariant)
	})
	t.Run("non-positive", func(t *testing.T) {
		err := b.Create(e.Admin(), owner, asset.New(0, testutil.Stable))
		require.ErrorIs(t, err, common.ErrInvalidAmount)
	})
	t.Run("invalid symbol", func(t *testing.T) {
		err := b.Create(e.Admin(), owner, asset.New(1, asset.Kind{Symbol: "usd", Decimals: 2}))
		require.ErrorIs(t, err, common.ErrInvalidAmount)
	})

	tok, ok, err := b.Token(e.Admin(), testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(0), tok.Supply.Value)
	require.Equal(t, e.Self, tok.Issuer)
}

func TestBook_CreditDebit(t *testing.T) {
	b, h, e := newTestBook(t)
	owner := testutil.Account("owner")

	ctx := e.Admin()
	require.NoError(t, b.Credit(ctx, owner, asset.New(10, testutil.Cash)))
	require.NoError(t, b.Credit(ctx, owner, asset.New(5, testutil.Cash)))
	require.Equal(t, []util.Uint160{owner}, h.opened, "only the first credit opens the row")

	bal, ok, err := b.BalanceOf(ctx, owner, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(15), bal.Value)

	t.Run("overdraw", func(t *testing.T) {
		err := b.Debit(ctx, owner, asset.New(16, testutil.Cash))
		require.ErrorIs(t, err, common.ErrInsufficientBalance)

		bal, _, err := b.BalanceOf(ctx, owner, testutil.Cash.Symbol)
		require.NoError(t, err)
		require.Equal(t, int64(15), bal.Value)
	})
	t.Run("missing row", func(t *testing.T) {
		err := b.Debit(ctx, testutil.Account("nobody"), asset.New(1, testutil.Cash))
		require.ErrorIs(t, err, common.ErrInsufficientBalance)
	})
	t.Run("precision mismatch", func(t *testing.T) {
		err := b.Credit(ctx, owner, asset.New(1, asset.Kind{Symbol: testutil.Cash.Symbol, Decimals: 2}))
		require.ErrorIs(t, err, common.ErrInvalidAmount)
	})

	require.NoError(t, b.Debit(ctx, owner, asset.New(15, testutil.Cash)))
	bal, ok, err = b.BalanceOf(ctx, owner, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok, "zero row stays until closed")
	require.Equal(t, int64(0), bal.Value)
}

func TestBook_IssueRetire(t *testing.T) {
	b, _, e := newTestBook(t)
	owner := testutil.Account("owner")

	err := b.Issue(e.Context(owner), owner, asset.New(10, testutil.Cash), "")
	require.ErrorIs(t, err, common.ErrAuthorization)

	require.NoError(t, b.Issue(e.Admin(), owner, asset.New(10, testutil.Cash), "memo"))

	err = b.Issue(e.Admin(), owner, asset.New(1_000_000_000, testutil.Cash), "")
	require.ErrorIs(t, err, common.ErrInvalidAmount, "max supply is exceeded")

	err = b.Retire(e.Context(owner), owner, asset.New(5, testutil.Cash), "")
	require.ErrorIs(t, err, common.ErrAuthorization)

	require.NoError(t, b.Retire(e.Admin(), owner, asset.New(4, testutil.Cash), ""))

	tok, _, err := b.Token(e.Admin(), testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, int64(6), tok.Supply.Value)

	bal, _, err := b.BalanceOf(e.Admin(), owner, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, int64(6), bal.Value)
}

func TestBook_Transfer(t *testing.T) {
	b, h, e := newTestBook(t)
	alice, bob := testutil.Account("alice"), testutil.Account("bob")
	require.NoError(t, b.Mint(e.Admin(), alice, asset.New(100, testutil.Cash)))

	t.Run("to self", func(t *testing.T) {
		err := b.Transfer(e.Context(alice), alice, alice, asset.New(1, testutil.Cash), "")
		require.ErrorIs(t, err, common.ErrInvariant)
	})
	t.Run("no witness", func(t *testing.T) {
		err := b.Transfer(e.Context(bob), alice, bob, asset.New(1, testutil.Cash), "")
		require.ErrorIs(t, err, common.ErrAuthorization)
	})
	t.Run("unknown token", func(t *testing.T) {
		err := b.Transfer(e.Context(alice), alice, bob, asset.New(1, testutil.Stable), "")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
	t.Run("zero", func(t *testing.T) {
		err := b.Transfer(e.Context(alice), alice, bob, asset.New(0, testutil.Cash), "")
		require.ErrorIs(t, err, common.ErrInvalidAmount)
	})

	ctx := e.Context(alice)
	require.NoError(t, b.Transfer(ctx, alice, bob, asset.New(30, testutil.Cash), "hello"))
	require.Equal(t, []util.Uint160{alice}, h.spent)
	require.Len(t, ctx.Events(), 1)
	require.Equal(t, "Transfer", ctx.Events()[0].Name)

	bal, _, err := b.BalanceOf(ctx, bob, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, int64(30), bal.Value)
}

func TestBook_OpenClose(t *testing.T) {
	b, h, e := newTestBook(t)
	require.NoError(t, b.Create(e.Admin(), e.Self, asset.New(1_000_000, testutil.Stable)))
	owner, payer := testutil.Account("owner"), testutil.Account("payer")

	err := b.Open(e.Context(owner), owner, testutil.Cash, payer)
	require.ErrorIs(t, err, common.ErrAuthorization)

	err = b.Open(e.Context(payer), owner, asset.Kind{Symbol: testutil.Cash.Symbol, Decimals: 1}, payer)
	require.ErrorIs(t, err, common.ErrInvalidAmount)

	require.NoError(t, b.Open(e.Context(payer), owner, testutil.Cash, payer))
	require.NoError(t, b.Open(e.Context(payer), owner, testutil.Cash, payer))
	require.NoError(t, b.Open(e.Context(payer), owner, testutil.Stable, payer))
	require.Len(t, h.opened, 2)

	rows, err := b.Accounts(e.Admin(), owner)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, b.Credit(e.Admin(), owner, asset.New(1, testutil.Cash)))

	t.Run("non-zero", func(t *testing.T) {
		err := b.Close(e.Context(owner), owner, testutil.Cash)
		require.ErrorIs(t, err, common.ErrInvariant)
	})
	t.Run("no witness", func(t *testing.T) {
		err := b.Close(e.Context(payer), owner, testutil.Stable)
		require.ErrorIs(t, err, common.ErrAuthorization)
	})

	require.NoError(t, b.Close(e.Context(owner), owner, testutil.Stable))
	require.Empty(t, h.closed)

	err = b.Close(e.Context(owner), owner, testutil.Stable)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, b.Debit(e.Admin(), owner, asset.New(1, testutil.Cash)))
	require.NoError(t, b.Close(e.Context(owner), owner, testutil.Cash))
	require.Equal(t, []util.Uint160{owner}, h.closed)
}
