package pcash

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/inheritance"
	"github.com/paycash/pcash-contract/internal/testutil"
	"github.com/paycash/pcash-contract/royalty"
	"github.com/paycash/pcash-contract/settlement"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const now = 1_700_000_000

var (
	tether     = testutil.Account("tether")
	swap       = testutil.Account("swap")
	stable     = asset.Extended{Kind: testutil.Stable, Contract: tether}
	collateral = asset.Extended{Kind: testutil.Collateral, Contract: swap}
)

func newTestContract(t *testing.T) *Contract {
	p := Params{
		Address: testutil.Account("pcash"),
		Inheritance: inheritance.Settings{
			MinPeriod:     86400,
			InitialPeriod: 31536000,
			MaxPeriod:     315360000,
		},
		Royalty: royalty.Settings{
			Period:        86400,
			Threshold:     1000,
			CollectAmount: 100,
			Cash:          testutil.Cash,
			Source:        testutil.Account("source"),
			Account:       testutil.Account("royalty"),
		},
		Settlement: settlement.Settings{
			Stable:             stable,
			Collateral:         collateral,
			Cash:               testutil.Cash,
			CashPackage:        10,
			ExchangeMultiplier: 1,
			CashMultiplier:     10,
			Intent:             "withdraw",
		},
	}
	pools := settlement.NewMemoryPools(settlement.Pool{
		Token1: asset.ExtendedAmount{Amount: asset.New(1000, testutil.Stable), Contract: tether},
		Token2: asset.ExtendedAmount{Amount: asset.New(3000, testutil.Collateral), Contract: swap},
	})

	c, err := New(p, storage.NewMemoryStore(), pools, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func signed(signers ...util.Uint160) common.Invocation {
	return common.Invocation{Signers: signers, Time: now}
}

func (c *Contract) admin() common.Invocation {
	return signed(c.Address())
}

func (c *Contract) setup(t *testing.T) {
	_, err := c.Update(c.admin())
	require.NoError(t, err)
	_, err = c.Create(c.admin(), c.Address(), asset.New(1<<40, testutil.Cash))
	require.NoError(t, err)
	_, err = c.AddSwapIncome(c.admin(), asset.ExtendedAmount{Amount: asset.New(100, testutil.Stable), Contract: tether})
	require.NoError(t, err)
	_, err = c.AddSwapCash(c.admin(), asset.New(10, testutil.Cash))
	require.NoError(t, err)
}

func pay(from, to util.Uint160, ext asset.Extended, v int64) settlement.Payment {
	return settlement.Payment{Contract: ext.Contract, From: from, To: to, Quantity: asset.New(v, ext.Kind)}
}

func eventNames(r *Receipt) []string {
	res := make([]string, 0, len(r.Events))
	for i := range r.Events {
		res = append(res, r.Events[i].Name)
	}
	return res
}

func TestContract_Version(t *testing.T) {
	c := newTestContract(t)

	v, err := c.StoredVersion()
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = c.Update(signed())
	require.ErrorIs(t, err, common.ErrAuthorization)

	_, err = c.Update(c.admin())
	require.NoError(t, err)

	v, err = c.StoredVersion()
	require.NoError(t, err)
	require.Equal(t, common.Version, v)
	require.Equal(t, common.Version, c.Version())

	_, err = c.Update(c.admin())
	require.ErrorIs(t, err, common.ErrInvariant)
}

func TestContract_DepositLifecycle(t *testing.T) {
	c := newTestContract(t)
	c.setup(t)
	self, user := c.Address(), testutil.Account("user")

	cashOf := func(owner util.Uint160) int64 {
		bal, _, err := c.BalanceOf(owner, testutil.Cash.Symbol)
		require.NoError(t, err)
		return bal.Value
	}

	bundle := []settlement.Payment{pay(user, self, stable, 250), pay(user, self, collateral, 1000)}
	r, err := c.OnPayment(signed(user), bundle, bundle[1])
	require.NoError(t, err)
	require.Equal(t, []string{"Transfer", "Deposit"}, eventNames(r))
	require.Len(t, r.Transfers, 2)
	require.Equal(t, int64(2000), cashOf(user))

	_, ok, err := c.Member(user)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("failed intake leaves no trace", func(t *testing.T) {
		bundle := []settlement.Payment{pay(user, self, stable, 99), pay(user, self, collateral, 1000)}
		_, err := c.OnPayment(signed(user), bundle, bundle[1])
		require.ErrorIs(t, err, common.ErrInsufficientLot)

		ds, err := c.Deposits()
		require.NoError(t, err)
		require.Len(t, ds, 1)
	})

	t.Run("failed redemption rolls transfer back", func(t *testing.T) {
		_, err := c.Transfer(signed(user), user, self, asset.New(100, testutil.Cash), "usdt")
		require.ErrorIs(t, err, common.ErrInvalidIntent)

		require.Equal(t, int64(2000), cashOf(user))
		_, ok, err := c.BalanceOf(self, testutil.Cash.Symbol)
		require.NoError(t, err)
		require.False(t, ok)
	})

	r, err = c.Transfer(signed(user), user, self, asset.New(500, testutil.Cash), "withdraw")
	require.NoError(t, err)
	require.Equal(t, []string{"Transfer", "Transfer", "Redeem"}, eventNames(r))
	require.Equal(t, []common.Transfer{
		{Contract: swap, From: self, To: user, Amount: asset.New(150, testutil.Collateral), Memo: common.MemoDepositReturn},
		{Contract: tether, From: self, To: user, Amount: asset.New(50, testutil.Stable)},
	}, r.Transfers)
	require.Equal(t, int64(1500), cashOf(user))

	tok, _, err := c.Token(testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, int64(1500), tok.Supply.Value)

	r, err = c.SwapBack(signed(user), user, asset.New(1500, testutil.Cash), 0)
	require.NoError(t, err)
	require.Len(t, r.Transfers, 2)
	require.Equal(t, int64(0), cashOf(user))

	ds, err := c.DepositsOf(user)
	require.NoError(t, err)
	require.Empty(t, ds)
}

func TestContract_Royalty(t *testing.T) {
	c := newTestContract(t)
	c.setup(t)
	self, holder := c.Address(), testutil.Account("holder")
	source := c.params.Royalty.Source

	_, err := c.AddRoyaltyHolder(c.admin(), holder, 500)
	require.NoError(t, err)

	hs, err := c.RoyaltyHolders()
	require.NoError(t, err)
	require.Len(t, hs, 1)

	p := pay(source, self, collateral, 10000)
	r, err := c.OnPayment(signed(source), []settlement.Payment{p}, p)
	require.NoError(t, err)
	require.Equal(t, []string{"Notify"}, eventNames(r))
	require.Equal(t, []common.Transfer{{
		Contract: swap,
		From:     self,
		To:       holder,
		Amount:   asset.New(5000, testutil.Collateral),
		Memo:     common.MemoRoyalty,
	}}, r.Transfers)

	t.Run("foreign payments are ignored", func(t *testing.T) {
		p := pay(source, self, asset.Extended{Kind: testutil.Stable, Contract: testutil.Account("other")}, 1)
		r, err := c.OnPayment(signed(source), []settlement.Payment{p}, p)
		require.NoError(t, err)
		require.Empty(t, r.Events)
		require.Empty(t, r.Transfers)
	})

	_, err = c.RemoveRoyaltyHolder(c.admin(), holder)
	require.NoError(t, err)
	_, err = c.RemoveRoyaltyHolder(c.admin(), holder)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestContract_Notify(t *testing.T) {
	c := newTestContract(t)
	to := testutil.Account("observer")

	_, err := c.Notify(signed(to), "inheritance", to, util.Uint160{}, asset.New(1, testutil.Cash), "")
	require.ErrorIs(t, err, common.ErrAuthorization)

	r, err := c.Notify(c.admin(), "inheritance", to, util.Uint160{}, asset.New(1, testutil.Cash), "memo")
	require.NoError(t, err)
	require.Equal(t, []string{"Notify"}, eventNames(r))
}

func TestContract_Inheritance(t *testing.T) {
	c := newTestContract(t)
	c.setup(t)
	owner, heir := testutil.Account("owner"), testutil.Account("heir")

	_, err := c.Issue(c.admin(), owner, asset.New(100, testutil.Cash), "")
	require.NoError(t, err)

	_, err = c.DistributeInheritance(signed(heir), heir, owner, testutil.Cash.Symbol)
	require.ErrorIs(t, err, common.ErrInvariant)

	_, err = c.SetInheritanceDate(c.admin(), owner, 0)
	require.NoError(t, err)

	expired, err := c.ExpiredMembers(now + 1)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	inv := signed(heir)
	inv.Time = now + 1
	r, err := c.DistributeInheritance(inv, heir, owner, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, []string{"Notify", "Notify"}, eventNames(r))

	bal, _, err := c.BalanceOf(c.Address(), testutil.Cash.Symbol)
	require.NoError(t, err)
	require.Equal(t, int64(100), bal.Value)
}

func TestContract_CheckEvents(t *testing.T) {
	c := newTestContract(t)

	err := c.checkEvents([]state.NotificationEvent{{Name: "Unknown", Item: stackitem.NewArray(nil)}})
	require.ErrorIs(t, err, errUndeclaredEvent)

	err = c.checkEvents([]state.NotificationEvent{{
		Name: "Redeem",
		Item: stackitem.NewArray([]stackitem.Item{stackitem.Null{}}),
	}})
	require.ErrorIs(t, err, errUndeclaredEvent)
}

func TestContract_Invoke(t *testing.T) {
	c := newTestContract(t)

	var called bool
	_, err := c.invoke("unknown", c.admin(), func(*common.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, errUndeclaredMethod)
	require.False(t, called)

	for _, m := range c.Manifest().ABI.Methods {
		require.Zero(t, m.Offset, m.Name)
	}
}
