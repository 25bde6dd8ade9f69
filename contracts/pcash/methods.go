package pcash

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/distribution"
	"github.com/paycash/pcash-contract/settlement"
)

// Create registers new own token. It can be invoked only by the contract.
func (c *Contract) Create(inv common.Invocation, issuer util.Uint160, maxSupply asset.Amount) (*Receipt, error) {
	return c.invoke("create", inv, func(ctx *common.Context) error {
		return c.book.Create(ctx, issuer, maxSupply)
	})
}

// Issue mints own tokens. It can be invoked only by the token issuer.
func (c *Contract) Issue(inv common.Invocation, to util.Uint160, quantity asset.Amount, memo string) (*Receipt, error) {
	return c.invoke("issue", inv, func(ctx *common.Context) error {
		return c.book.Issue(ctx, to, quantity, memo)
	})
}

// Retire burns own tokens of the owner. It can be invoked only by the
// contract.
func (c *Contract) Retire(inv common.Invocation, owner util.Uint160, quantity asset.Amount, memo string) (*Receipt, error) {
	return c.invoke("retire", inv, func(ctx *common.Context) error {
		return c.book.Retire(ctx, owner, quantity, memo)
	})
}

// Transfer moves own tokens. Tokens transferred to the contract itself are
// redeemed, memo must carry the redemption intent then.
func (c *Contract) Transfer(inv common.Invocation, from, to util.Uint160, quantity asset.Amount, memo string) (*Receipt, error) {
	return c.invoke("transfer", inv, func(ctx *common.Context) error {
		if err := c.book.Transfer(ctx, from, to, quantity, memo); err != nil {
			return err
		}
		if to != ctx.Self() {
			return nil
		}
		return c.settlement.Redeem(ctx, c.book, from, quantity, memo)
	})
}

// Open creates zero balance row of the owner.
func (c *Contract) Open(inv common.Invocation, owner util.Uint160, kind asset.Kind, payer util.Uint160) (*Receipt, error) {
	return c.invoke("open", inv, func(ctx *common.Context) error {
		return c.book.Open(ctx, owner, kind, payer)
	})
}

// Close removes zero balance row of the owner. Closing the last row removes
// the owner's inheritance configuration.
func (c *Contract) Close(inv common.Invocation, owner util.Uint160, kind asset.Kind) (*Receipt, error) {
	return c.invoke("close", inv, func(ctx *common.Context) error {
		return c.book.Close(ctx, owner, kind)
	})
}

// SetInheritanceDate replaces inactivity period of the owner. It can be
// invoked only by the contract.
func (c *Contract) SetInheritanceDate(inv common.Invocation, owner util.Uint160, period uint32) (*Receipt, error) {
	return c.invoke("setInheritanceDate", inv, func(ctx *common.Context) error {
		return c.inheritance.SetInactivePeriod(ctx, owner, period)
	})
}

// UpdateInactivePeriod sets inactivity period of the owner.
func (c *Contract) UpdateInactivePeriod(inv common.Invocation, owner util.Uint160, period uint32) (*Receipt, error) {
	return c.invoke("updateInactivePeriod", inv, func(ctx *common.Context) error {
		return c.inheritance.UpdateInactivePeriod(ctx, owner, period)
	})
}

// UpdateHeirs sets heirs of the owner.
func (c *Contract) UpdateHeirs(inv common.Invocation, owner util.Uint160, heirs []distribution.Recipient) (*Receipt, error) {
	return c.invoke("updateHeirs", inv, func(ctx *common.Context) error {
		return c.inheritance.UpdateHeirs(ctx, owner, heirs)
	})
}

// DistributeInheritance pays balance of the expired owner out to the heirs.
func (c *Contract) DistributeInheritance(inv common.Invocation, initiator, owner util.Uint160, symbol string) (*Receipt, error) {
	return c.invoke("distributeInheritance", inv, func(ctx *common.Context) error {
		return c.inheritance.Distribute(ctx, c.book, initiator, owner, symbol)
	})
}

// AddRoyaltyHolder adds or updates royalty holder. It can be invoked only by
// the contract.
func (c *Contract) AddRoyaltyHolder(inv common.Invocation, acc util.Uint160, share distribution.Percent) (*Receipt, error) {
	return c.invoke("addRoyaltyHolder", inv, func(ctx *common.Context) error {
		return c.royalty.Add(ctx, acc, share)
	})
}

// RemoveRoyaltyHolder removes royalty holder. It can be invoked only by the
// contract.
func (c *Contract) RemoveRoyaltyHolder(inv common.Invocation, acc util.Uint160) (*Receipt, error) {
	return c.invoke("removeRoyaltyHolder", inv, func(ctx *common.Context) error {
		return c.royalty.Remove(ctx, acc)
	})
}

// RoyaltyFanOut pays royalty holders their shares of contract-owned balances.
func (c *Contract) RoyaltyFanOut(inv common.Invocation, payer util.Uint160) (*Receipt, error) {
	return c.invoke("royaltyFanOut", inv, func(ctx *common.Context) error {
		return c.royalty.FanOut(ctx, c.book, payer)
	})
}

// CollectCash moves cash from the royalty account to the royalty source.
func (c *Contract) CollectCash(inv common.Invocation) (*Receipt, error) {
	return c.invoke("collectCash", inv, func(ctx *common.Context) error {
		return c.royalty.Collect(ctx, c.book)
	})
}

// AddSwapIncome sets lot size of the stable token. It can be invoked only by
// the contract.
func (c *Contract) AddSwapIncome(inv common.Invocation, income asset.ExtendedAmount) (*Receipt, error) {
	return c.invoke("addSwapIncome", inv, func(ctx *common.Context) error {
		return c.settlement.AddSwapIncome(ctx, income)
	})
}

// AddSwapCash sets redemption rate of own token. It can be invoked only by
// the contract.
func (c *Contract) AddSwapCash(inv common.Invocation, cash asset.Amount) (*Receipt, error) {
	return c.invoke("addSwapCash", inv, func(ctx *common.Context) error {
		return c.settlement.AddSwapCash(ctx, c.book, cash)
	})
}

// SwapBack unwinds cash part of the user's deposit.
func (c *Contract) SwapBack(inv common.Invocation, user util.Uint160, cash asset.Amount, id uint64) (*Receipt, error) {
	return c.invoke("swapBack", inv, func(ctx *common.Context) error {
		return c.settlement.SwapBack(ctx, c.book, user, cash, id)
	})
}

// MigrateDeposit re-inserts the deposit under a fresh id. It can be invoked
// only by the contract.
func (c *Contract) MigrateDeposit(inv common.Invocation, id uint64) (*Receipt, error) {
	return c.invoke("migrateDeposit", inv, func(ctx *common.Context) error {
		return c.settlement.MigrateDeposit(ctx, id)
	})
}

// Notify re-broadcasts an event to the recipient. It can be invoked only by
// the contract.
func (c *Contract) Notify(inv common.Invocation, actionType string, to, from util.Uint160, quantity asset.Amount, memo string) (*Receipt, error) {
	return c.invoke("notify", inv, func(ctx *common.Context) error {
		if err := common.CheckAdminWitness(ctx); err != nil {
			return err
		}
		common.SendNotify(ctx, actionType, to, from, quantity, memo)
		return nil
	})
}

// OnPayment handles current, a transfer of an external token made within a
// transaction with the given transfers. Collateral paid by the royalty source
// is distributed among royalty holders, stable and collateral payments of
// other senders are matched into deposits. Other transfers are ignored.
func (c *Contract) OnPayment(inv common.Invocation, bundle []settlement.Payment, current settlement.Payment) (*Receipt, error) {
	return c.invoke("onPayment", inv, func(ctx *common.Context) error {
		if current.To != ctx.Self() {
			return nil
		}

		s := c.params.Settlement
		switch {
		case current.From == c.params.Royalty.Source && current.Quantity.Kind == s.Collateral.Kind:
			return c.royalty.Distribute(ctx, current.Quantity, s.Collateral.Contract)
		case current.Contract == s.Stable.Contract || current.Contract == s.Collateral.Contract:
			return c.settlement.Intake(ctx, c.book, bundle, current)
		default:
			return nil
		}
	})
}
