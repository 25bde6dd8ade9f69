package pcash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/balance"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/contracts"
	"github.com/paycash/pcash-contract/inheritance"
	"github.com/paycash/pcash-contract/royalty"
	"github.com/paycash/pcash-contract/settlement"
	"go.uber.org/zap"
)

const versionKey = 'v'

type (
	// Params groups settings of the contract components.
	Params struct {
		// Address of the contract, signer of administrative invocations
		Address     util.Uint160
		Inheritance inheritance.Settings
		Royalty     royalty.Settings
		Settlement  settlement.Settings
	}

	// Receipt describes successfully persisted invocation.
	Receipt struct {
		ID        uuid.UUID
		Method    string
		Events    []state.NotificationEvent
		Transfers []common.Transfer
	}

	// Contract is the PCash ledger contract. It is safe for concurrent use.
	Contract struct {
		mtx      sync.Mutex
		params   Params
		store    storage.Store
		log      *zap.Logger
		manifest manifest.Manifest

		book        *balance.Book
		inheritance *inheritance.Registry
		royalty     *royalty.Royalty
		settlement  *settlement.Engine
	}
)

var (
	errUndeclaredEvent  = errors.New("undeclared event")
	errUndeclaredMethod = errors.New("undeclared method")
)

// New returns contract working on top of the given persistent store. Prices
// of the deposited pairs are taken from prices.
func New(p Params, store storage.Store, prices settlement.PriceSource, log *zap.Logger) (*Contract, error) {
	if log == nil {
		log = zap.NewNop()
	}

	c, err := contracts.GetPCash()
	if err != nil {
		return nil, fmt.Errorf("read contract manifest: %w", err)
	}

	reg := inheritance.New(p.Inheritance)
	return &Contract{
		params:      p,
		store:       store,
		log:         log,
		manifest:    c.Manifest,
		book:        balance.New(reg),
		inheritance: reg,
		royalty:     royalty.New(p.Royalty),
		settlement:  settlement.New(p.Settlement, prices),
	}, nil
}

// Address returns address of the contract.
func (c *Contract) Address() util.Uint160 {
	return c.params.Address
}

// Manifest returns ABI manifest of the contract.
func (c *Contract) Manifest() manifest.Manifest {
	return c.manifest
}

// Version returns version of the contract code.
func (c *Contract) Version() int {
	return common.Version
}

// StoredVersion returns version the storage was last updated to, zero if the
// storage was never initialized.
func (c *Contract) StoredVersion() (int, error) {
	var v int
	err := c.view(func(ctx *common.Context) error {
		var err error
		v, err = storedVersion(ctx)
		return err
	})
	return v, err
}

// Update initializes the storage or migrates it from the previous version.
// It can be invoked only by the contract.
func (c *Contract) Update(inv common.Invocation) (*Receipt, error) {
	return c.invoke("update", inv, func(ctx *common.Context) error {
		if err := common.CheckAdminWitness(ctx); err != nil {
			return err
		}

		from, err := storedVersion(ctx)
		if err != nil {
			return err
		}
		if from != 0 {
			if err := common.CheckVersion(from); err != nil {
				return fmt.Errorf("%w: update: %v", common.ErrInvariant, err)
			}
		}

		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(common.Version))
		ctx.Put([]byte{versionKey}, b[:])

		ctx.Log("storage updated", zap.Int("from", from), zap.Int("to", common.Version))
		return nil
	})
}

func storedVersion(ctx *common.Context) (int, error) {
	v, err := ctx.Get([]byte{versionKey})
	if err != nil || len(v) != 4 {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(v)), nil
}

// invoke runs f on a staged store and persists it only if f succeeds and all
// produced notifications are declared in the manifest. The method itself must
// be declared there too.
func (c *Contract) invoke(method string, inv common.Invocation, f func(ctx *common.Context) error) (*Receipt, error) {
	if c.manifest.ABI.GetMethod(method, -1) == nil {
		return nil, fmt.Errorf("%w: %s", errUndeclaredMethod, method)
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	id := uuid.New()
	log := c.log.With(zap.Stringer("invocation", id), zap.String("method", method))

	staged := storage.NewMemCachedStore(c.store)
	ctx := common.NewContext(c.params.Address, inv, staged, log)

	err := f(ctx)
	if err == nil {
		err = c.checkEvents(ctx.Events())
	}
	if err != nil {
		log.Debug("invocation failed", zap.Error(err))
		return nil, err
	}

	if _, err := staged.Persist(); err != nil {
		return nil, fmt.Errorf("persist %s invocation: %w", method, err)
	}

	log.Debug("invocation persisted",
		zap.Int("events", len(ctx.Events())),
		zap.Int("transfers", len(ctx.Transfers())))

	return &Receipt{
		ID:        id,
		Method:    method,
		Events:    ctx.Events(),
		Transfers: ctx.Transfers(),
	}, nil
}

// view runs f on a staged store which is never persisted.
func (c *Contract) view(f func(ctx *common.Context) error) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	ctx := common.NewContext(c.params.Address, common.Invocation{}, storage.NewMemCachedStore(c.store), c.log)
	return f(ctx)
}

func (c *Contract) checkEvents(evs []state.NotificationEvent) error {
	for i := range evs {
		e := c.manifest.ABI.GetEvent(evs[i].Name)
		if e == nil {
			return fmt.Errorf("%w: %s", errUndeclaredEvent, evs[i].Name)
		}
		if n := evs[i].Item.Len(); n != len(e.Parameters) {
			return fmt.Errorf("%w: %s has %d parameters instead of %d", errUndeclaredEvent, evs[i].Name, n, len(e.Parameters))
		}
	}
	return nil
}
