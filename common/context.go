package common

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/paycash/pcash-contract/asset"
	"go.uber.org/zap"
)

type (
	// Invocation is an authorization token supplied by the host with every
	// call: accounts that signed the call and the host time in seconds.
	Invocation struct {
		Signers []util.Uint160
		Time    uint32
	}

	// Transfer is an outbound call of the external token contract moving
	// Amount from the ledger to To.
	Transfer struct {
		Contract util.Uint160
		From     util.Uint160
		To       util.Uint160
		Amount   asset.Amount
		Memo     string
	}

	// Context is an execution context of a single invocation. All storage
	// writes go to the staged store, notifications and outbound transfers are
	// collected in memory. Context is not safe for concurrent use.
	Context struct {
		self   util.Uint160
		inv    Invocation
		store  *storage.MemCachedStore
		log    *zap.Logger
		events []state.NotificationEvent
		calls  []Transfer
	}
)

// NewContext returns invocation context of the ledger deployed at self.
func NewContext(self util.Uint160, inv Invocation, store *storage.MemCachedStore, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		self:  self,
		inv:   inv,
		store: store,
		log:   log,
	}
}

// Self returns address of the ledger.
func (c *Context) Self() util.Uint160 {
	return c.self
}

// Now returns host time of the invocation in seconds.
func (c *Context) Now() uint32 {
	return c.inv.Time
}

// CheckWitness checks whether acc signed the invocation.
func (c *Context) CheckWitness(acc util.Uint160) bool {
	for i := range c.inv.Signers {
		if c.inv.Signers[i] == acc {
			return true
		}
	}
	return false
}

// Log writes message into the invocation log.
func (c *Context) Log(msg string, fields ...zap.Field) {
	c.log.Debug(msg, fields...)
}

// Logger returns invocation logger.
func (c *Context) Logger() *zap.Logger {
	return c.log
}

// Notify emits notification of the ledger with the given arguments.
func (c *Context) Notify(name string, args ...any) {
	items := make([]stackitem.Item, 0, len(args))
	for i := range args {
		items = append(items, toStackItem(args[i]))
	}

	c.events = append(c.events, state.NotificationEvent{
		ScriptHash: c.self,
		Name:       name,
		Item:       stackitem.NewArray(items),
	})
}

// Events returns notifications emitted so far.
func (c *Context) Events() []state.NotificationEvent {
	return c.events
}

// SendTransfer schedules transfer of the external token issued by contract
// from the ledger to the given account. Zero amounts are skipped.
func (c *Context) SendTransfer(contract, to util.Uint160, amount asset.Amount, memo string) {
	if amount.Value == 0 {
		return
	}

	c.calls = append(c.calls, Transfer{
		Contract: contract,
		From:     c.self,
		To:       to,
		Amount:   amount,
		Memo:     memo,
	})
	c.Log("outbound transfer scheduled",
		zap.String("contract", address.Uint160ToString(contract)),
		zap.String("to", address.Uint160ToString(to)),
		zap.Stringer("amount", amount))
}

// Transfers returns outbound transfers scheduled so far.
func (c *Context) Transfers() []Transfer {
	return c.calls
}

// Get returns value stored by key or nil if there is none.
func (c *Context) Get(key []byte) ([]byte, error) {
	v, err := c.store.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read storage item: %w", err)
	}
	return v, nil
}

// Put stores value by key.
func (c *Context) Put(key, value []byte) {
	c.store.Put(key, value)
}

// Delete removes value stored by key.
func (c *Context) Delete(key []byte) {
	c.store.Delete(key)
}

// Find passes all items with the given key prefix to f in ascending key
// order until f returns false. Keys are passed with prefix. Storage must not
// be modified from f.
func (c *Context) Find(prefix []byte, f func(k, v []byte) bool) {
	c.store.Seek(storage.SeekRange{Prefix: prefix}, func(k, v []byte) bool {
		return f(bytes.Clone(k), bytes.Clone(v))
	})
}

// String returns human-readable transfer description.
func (t Transfer) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s) '%s'", address.Uint160ToString(t.Contract),
		address.Uint160ToString(t.From), address.Uint160ToString(t.To), t.Amount, t.Memo)
}

func toStackItem(v any) stackitem.Item {
	switch v := v.(type) {
	case nil:
		return stackitem.Null{}
	case util.Uint160:
		return stackitem.NewByteArray(v.BytesBE())
	case *util.Uint160:
		if v == nil {
			return stackitem.Null{}
		}
		return stackitem.NewByteArray(v.BytesBE())
	case asset.Amount:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.NewBigInteger(big.NewInt(v.Value)),
			stackitem.NewByteArray([]byte(v.Kind.Symbol)),
			stackitem.NewBigInteger(big.NewInt(int64(v.Kind.Decimals))),
		})
	case int64:
		return stackitem.NewBigInteger(big.NewInt(v))
	case uint64:
		return stackitem.NewBigInteger(new(big.Int).SetUint64(v))
	case uint32:
		return stackitem.NewBigInteger(big.NewInt(int64(v)))
	case int:
		return stackitem.NewBigInteger(big.NewInt(int64(v)))
	case string:
		return stackitem.NewByteArray([]byte(v))
	case []byte:
		return stackitem.NewByteArray(v)
	case bool:
		return stackitem.NewBool(v)
	default:
		return stackitem.Make(v)
	}
}
