package pcash

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/balance"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/inheritance"
	"github.com/paycash/pcash-contract/royalty"
	"github.com/paycash/pcash-contract/settlement"
)

// BalanceOf returns owner's balance of own token.
func (c *Contract) BalanceOf(owner util.Uint160, symbol string) (asset.Amount, bool, error) {
	var (
		res asset.Amount
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.book.BalanceOf(ctx, owner, symbol)
		return
	})
	return res, ok, err
}

// Token returns stats of own token.
func (c *Contract) Token(symbol string) (balance.Token, bool, error) {
	var (
		res balance.Token
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.book.Token(ctx, symbol)
		return
	})
	return res, ok, err
}

// Accounts returns all balance rows of the owner.
func (c *Contract) Accounts(owner util.Uint160) ([]asset.Amount, error) {
	var res []asset.Amount
	err := c.view(func(ctx *common.Context) (err error) {
		res, err = c.book.Accounts(ctx, owner)
		return
	})
	return res, err
}

// Member returns inheritance configuration of the owner.
func (c *Contract) Member(owner util.Uint160) (inheritance.Member, bool, error) {
	var (
		res inheritance.Member
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.inheritance.Member(ctx, owner)
		return
	})
	return res, ok, err
}

// ExpiredMembers returns inheritance members expired before now.
func (c *Contract) ExpiredMembers(now uint32) ([]inheritance.Member, error) {
	var res []inheritance.Member
	err := c.view(func(ctx *common.Context) (err error) {
		res, err = c.inheritance.Expired(ctx, now)
		return
	})
	return res, err
}

// RoyaltyHolders returns all royalty holders.
func (c *Contract) RoyaltyHolders() ([]royalty.Holder, error) {
	var res []royalty.Holder
	err := c.view(func(ctx *common.Context) (err error) {
		res, err = c.royalty.Holders(ctx)
		return
	})
	return res, err
}

// SwapPackage returns lot size of the token.
func (c *Contract) SwapPackage(symbol string) (asset.ExtendedAmount, bool, error) {
	var (
		res asset.ExtendedAmount
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.settlement.SwapPackage(ctx, symbol)
		return
	})
	return res, ok, err
}

// RedemptionRate returns redemption rate of own token.
func (c *Contract) RedemptionRate(symbol string) (asset.Amount, bool, error) {
	var (
		res asset.Amount
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.settlement.RedemptionRate(ctx, symbol)
		return
	})
	return res, ok, err
}

// Deposit returns the deposit with the given id.
func (c *Contract) Deposit(id uint64) (settlement.Deposit, bool, error) {
	var (
		res settlement.Deposit
		ok  bool
	)
	err := c.view(func(ctx *common.Context) (err error) {
		res, ok, err = c.settlement.Deposit(ctx, id)
		return
	})
	return res, ok, err
}

// DepositsOf returns deposits of the owner.
func (c *Contract) DepositsOf(owner util.Uint160) ([]settlement.Deposit, error) {
	var res []settlement.Deposit
	err := c.view(func(ctx *common.Context) (err error) {
		res, err = c.settlement.DepositsOf(ctx, owner)
		return
	})
	return res, err
}

// Deposits returns all deposits in bulk redemption order.
func (c *Contract) Deposits() ([]settlement.Deposit, error) {
	var res []settlement.Deposit
	err := c.view(func(ctx *common.Context) (err error) {
		res, err = c.settlement.Deposits(ctx)
		return
	})
	return res, err
}
