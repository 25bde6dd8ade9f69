package deploy

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/balance"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/contracts/pcash"
	"github.com/paycash/pcash-contract/distribution"
	"github.com/paycash/pcash-contract/royalty"
	"go.uber.org/zap"
)

// Ledger groups operations of the PCash ledger contract required for its
// bootstrap.
type Ledger interface {
	// Address returns address of the contract. Administrative invocations are
	// signed by it.
	Address() util.Uint160

	StoredVersion() (int, error)
	Update(common.Invocation) (*pcash.Receipt, error)

	Token(symbol string) (balance.Token, bool, error)
	Create(inv common.Invocation, issuer util.Uint160, maxSupply asset.Amount) (*pcash.Receipt, error)

	SwapPackage(symbol string) (asset.ExtendedAmount, bool, error)
	AddSwapIncome(inv common.Invocation, income asset.ExtendedAmount) (*pcash.Receipt, error)

	RedemptionRate(symbol string) (asset.Amount, bool, error)
	AddSwapCash(inv common.Invocation, cash asset.Amount) (*pcash.Receipt, error)

	RoyaltyHolders() ([]royalty.Holder, error)
	AddRoyaltyHolder(inv common.Invocation, acc util.Uint160, share distribution.Percent) (*pcash.Receipt, error)
}

// TokenPrm groups parameters of own token registration.
type TokenPrm struct {
	Issuer    util.Uint160
	MaxSupply asset.Amount
}

// RoyaltyHolderPrm groups parameters of the royalty holder.
type RoyaltyHolderPrm struct {
	Account util.Uint160
	Share   distribution.Percent
}

// State is the ledger state to bootstrap.
type State struct {
	Tokens []TokenPrm
	// Lot size of the stable token, zero value is skipped
	SwapPackage     asset.ExtendedAmount
	RedemptionRates []asset.Amount
	RoyaltyHolders  []RoyaltyHolderPrm
}

// Prm groups all parameters of the ledger bootstrap procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	Ledger Ledger

	// Returns time of the invocations in seconds.
	Clock func() uint32

	State State
}

// Deploy brings the ledger to the given state: initializes or updates the
// storage, registers own tokens, sets lot size and redemption rates and adds
// royalty holders.
//
// Deploy is idempotent: the state that is already there is left untouched,
// so it can be safely repeated after a failure. Deploy aborts by context or
// on the first failed invocation.
func Deploy(ctx context.Context, prm Prm) error {
	admin := func() common.Invocation {
		return common.Invocation{
			Signers: []util.Uint160{prm.Ledger.Address()},
			Time:    prm.Clock(),
		}
	}

	for _, stage := range []struct {
		name string
		f    func(common.Invocation) error
	}{
		{"storage version", func(inv common.Invocation) error { return syncVersion(prm, inv) }},
		{"tokens", func(inv common.Invocation) error { return syncTokens(prm, inv) }},
		{"swap package", func(inv common.Invocation) error { return syncSwapPackage(prm, inv) }},
		{"redemption rates", func(inv common.Invocation) error { return syncRates(prm, inv) }},
		{"royalty holders", func(inv common.Invocation) error { return syncRoyaltyHolders(prm, inv) }},
	} {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("bootstrap interrupted before %s: %w", stage.name, err)
		}

		prm.Logger.Info("synchronizing " + stage.name + "...")

		if err := stage.f(admin()); err != nil {
			return fmt.Errorf("sync %s: %w", stage.name, err)
		}

		prm.Logger.Info(stage.name + " successfully synchronized")
	}

	return nil
}

func syncVersion(prm Prm, inv common.Invocation) error {
	v, err := prm.Ledger.StoredVersion()
	if err != nil {
		return fmt.Errorf("get stored version: %w", err)
	}
	if v == common.Version {
		prm.Logger.Debug("storage is already of the latest version", zap.Int("version", v))
		return nil
	}

	_, err = prm.Ledger.Update(inv)
	if err != nil {
		return fmt.Errorf("update storage from version %d: %w", v, err)
	}

	prm.Logger.Info("storage updated", zap.Int("from", v), zap.Int("to", common.Version))
	return nil
}

func syncTokens(prm Prm, inv common.Invocation) error {
	for _, t := range prm.State.Tokens {
		_, ok, err := prm.Ledger.Token(t.MaxSupply.Kind.Symbol)
		if err != nil {
			return fmt.Errorf("get token %s: %w", t.MaxSupply.Kind.Symbol, err)
		}
		if ok {
			prm.Logger.Debug("token is already registered", zap.String("symbol", t.MaxSupply.Kind.Symbol))
			continue
		}

		_, err = prm.Ledger.Create(inv, t.Issuer, t.MaxSupply)
		if err != nil {
			return fmt.Errorf("create token %s: %w", t.MaxSupply.Kind.Symbol, err)
		}

		prm.Logger.Info("token registered", zap.Stringer("max_supply", t.MaxSupply),
			zap.String("issuer", address.Uint160ToString(t.Issuer)))
	}
	return nil
}

func syncSwapPackage(prm Prm, inv common.Invocation) error {
	income := prm.State.SwapPackage
	if income.Value == 0 {
		prm.Logger.Debug("swap package is not configured, skip")
		return nil
	}

	cur, ok, err := prm.Ledger.SwapPackage(income.Kind.Symbol)
	if err != nil {
		return fmt.Errorf("get swap package: %w", err)
	}
	if ok && cur == income {
		prm.Logger.Debug("swap package is already set", zap.Stringer("income", income))
		return nil
	}

	_, err = prm.Ledger.AddSwapIncome(inv, income)
	if err != nil {
		return fmt.Errorf("set swap package: %w", err)
	}

	prm.Logger.Info("swap package set", zap.Stringer("income", income))
	return nil
}

func syncRates(prm Prm, inv common.Invocation) error {
	for _, rate := range prm.State.RedemptionRates {
		cur, ok, err := prm.Ledger.RedemptionRate(rate.Kind.Symbol)
		if err != nil {
			return fmt.Errorf("get redemption rate of %s: %w", rate.Kind.Symbol, err)
		}
		if ok && cur == rate {
			prm.Logger.Debug("redemption rate is already set", zap.Stringer("rate", rate))
			continue
		}

		_, err = prm.Ledger.AddSwapCash(inv, rate)
		if err != nil {
			return fmt.Errorf("set redemption rate of %s: %w", rate.Kind.Symbol, err)
		}

		prm.Logger.Info("redemption rate set", zap.Stringer("rate", rate))
	}
	return nil
}

func syncRoyaltyHolders(prm Prm, inv common.Invocation) error {
	holders, err := prm.Ledger.RoyaltyHolders()
	if err != nil {
		return fmt.Errorf("get royalty holders: %w", err)
	}

	shares := make(map[util.Uint160]distribution.Percent, len(holders))
	for i := range holders {
		shares[holders[i].Account] = holders[i].Share
	}

	for _, h := range prm.State.RoyaltyHolders {
		if share, ok := shares[h.Account]; ok && share == h.Share {
			prm.Logger.Debug("royalty holder is already set",
				zap.String("account", address.Uint160ToString(h.Account)))
			continue
		}

		_, err = prm.Ledger.AddRoyaltyHolder(inv, h.Account, h.Share)
		if err != nil {
			return fmt.Errorf("add royalty holder %s: %w", address.Uint160ToString(h.Account), err)
		}

		prm.Logger.Info("royalty holder set",
			zap.String("account", address.Uint160ToString(h.Account)),
			zap.Stringer("share", h.Share))
	}
	return nil
}
