// Package testutil provides helpers for tests of the ledger components.
package testutil

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"go.uber.org/zap/zaptest"
)

// Well-known token kinds used in tests.
var (
	Stable     = asset.Kind{Symbol: "USDT", Decimals: 4}
	Collateral = asset.Kind{Symbol: "MLNK", Decimals: 8}
	Cash       = asset.Kind{Symbol: "USDCASH", Decimals: 5}
)

// Account returns deterministic account derived from the given name.
func Account(name string) util.Uint160 {
	return hash.Hash160([]byte(name))
}

// NewStore returns staged store over a fresh in-memory store.
func NewStore() *storage.MemCachedStore {
	return storage.NewMemCachedStore(storage.NewMemoryStore())
}

// Env is a sequence of invocations sharing the same store.
type Env struct {
	t     testing.TB
	Store *storage.MemCachedStore
	Self  util.Uint160
	Now   uint32
}

// NewEnv returns test environment of the ledger deployed at self.
func NewEnv(t testing.TB, self util.Uint160) *Env {
	return &Env{
		t:     t,
		Store: NewStore(),
		Self:  self,
		Now:   1_700_000_000,
	}
}

// Context returns invocation context signed by the given accounts at the
// current environment time.
func (e *Env) Context(signers ...util.Uint160) *common.Context {
	return common.NewContext(e.Self, common.Invocation{
		Signers: signers,
		Time:    e.Now,
	}, e.Store, zaptest.NewLogger(e.t))
}

// Admin returns invocation context signed by the ledger itself.
func (e *Env) Admin() *common.Context {
	return e.Context(e.Self)
}
