package dump

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/contracts/pcash"
	"github.com/paycash/pcash-contract/internal/testutil"
	"github.com/paycash/pcash-contract/settlement"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newLedger(t *testing.T, st storage.Store) *pcash.Contract {
	c, err := pcash.New(pcash.Params{Address: testutil.Account("pcash")}, st,
		settlement.NewMemoryPools(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestDump(t *testing.T) {
	var (
		dir   = t.TempDir()
		id    = ID{Label: "testnet", Time: 1_700_000_000}
		owner = testutil.Account("owner")
		src   = storage.NewMemoryStore()
		c     = newLedger(t, src)
		admin = common.Invocation{Signers: []util.Uint160{c.Address()}, Time: id.Time}
	)

	_, err := c.Update(admin)
	require.NoError(t, err)
	_, err = c.Create(admin, c.Address(), asset.New(1000, testutil.Cash))
	require.NoError(t, err)
	_, err = c.Issue(admin, owner, asset.New(300, testutil.Cash), "")
	require.NoError(t, err)

	cr, err := NewCreator(dir, id)
	require.NoError(t, err)

	w := cr.AddContract(Contract{
		Name:    "pcash",
		Address: address.Uint160ToString(c.Address()),
		Version: c.Version(),
	})
	require.NoError(t, w.WriteStore(src))
	require.NoError(t, cr.Flush())
	cr.Close()

	t.Run("existing", func(t *testing.T) {
		_, err := NewCreator(dir, id)
		require.Error(t, err)
	})

	var (
		ids       []ID
		contracts []Contract
		items     int
		dst       = storage.NewMemoryStore()
	)

	err = IterateDumps(dir, func(id ID, r *Reader) {
		ids = append(ids, id)
		r.IterateContracts(func(c Contract) { contracts = append(contracts, c) })
		r.IterateContractStorages(func(name string, key, value []byte) {
			require.Equal(t, "pcash", name)
			items++
		})
		require.NoError(t, r.Restore("pcash", dst))
		require.Error(t, r.Restore("unknown", dst))
	})
	require.NoError(t, err)

	require.Equal(t, []ID{id}, ids)
	require.Len(t, contracts, 1)
	require.Equal(t, common.Version, contracts[0].Version)
	require.NotZero(t, items)

	restored := newLedger(t, dst)

	v, err := restored.StoredVersion()
	require.NoError(t, err)
	require.Equal(t, common.Version, v)

	bal, ok, err := restored.BalanceOf(owner, testutil.Cash.Symbol)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 300, bal.Value)
}

func TestIterateDumps_Missing(t *testing.T) {
	var called bool
	require.NoError(t, IterateDumps(t.TempDir()+"/none", func(ID, *Reader) { called = true }))
	require.False(t, called)
}
