package settlement

import (
	"fmt"

	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"go.uber.org/zap"
)

const (
	swapPackagePrefix = 'p'
	ratePrefix        = 'r'
)

// AddSwapIncome sets lot size of the stable token. It can be invoked only by
// the ledger.
func (e *Engine) AddSwapIncome(ctx *common.Context, income asset.ExtendedAmount) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}
	if !income.IsPositive() {
		return fmt.Errorf("%w: add swap income: asset amount must be positive", common.ErrInvalidAmount)
	}
	if !income.Kind.IsValid() {
		return fmt.Errorf("%w: add swap income: invalid symbol", common.ErrInvalidAmount)
	}
	if income.Extended() != e.settings.Stable {
		return fmt.Errorf("%w: add swap income: income symbol is not %s symbol",
			common.ErrInvalidAmount, e.settings.Stable.Symbol)
	}

	if err := common.SetSerialized(ctx, common.Key(swapPackagePrefix, []byte(income.Kind.Symbol)), &income); err != nil {
		return err
	}

	ctx.Log("swap package set", zap.Stringer("income", income))
	return nil
}

// AddSwapCash sets redemption rate of the own token. The token must exist.
// It can be invoked only by the ledger.
func (e *Engine) AddSwapCash(ctx *common.Context, ledger Ledger, cash asset.Amount) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}

	t, ok, err := ledger.Token(ctx, cash.Kind.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: add swap cash: token with symbol %s does not exist, create token before add",
			common.ErrNotFound, cash.Kind.Symbol)
	}
	if cash.Kind != t.Supply.Kind {
		return fmt.Errorf("%w: add swap cash: symbol precision mismatch", common.ErrInvalidAmount)
	}
	if !cash.IsPositive() {
		return fmt.Errorf("%w: add swap cash: must add positive quantity", common.ErrInvalidAmount)
	}

	if err := common.SetSerialized(ctx, common.Key(ratePrefix, []byte(cash.Kind.Symbol)), &cash); err != nil {
		return err
	}

	ctx.Log("redemption rate set", zap.Stringer("cash", cash))
	return nil
}

// SwapPackage returns lot size of the token with the given symbol.
func (e *Engine) SwapPackage(ctx *common.Context, symbol string) (asset.ExtendedAmount, bool, error) {
	var v asset.ExtendedAmount
	ok, err := common.GetSerialized(ctx, common.Key(swapPackagePrefix, []byte(symbol)), &v)
	return v, ok, err
}

// RedemptionRate returns redemption rate of the own token with the given
// symbol.
func (e *Engine) RedemptionRate(ctx *common.Context, symbol string) (asset.Amount, bool, error) {
	var v asset.Amount
	ok, err := common.GetSerialized(ctx, common.Key(ratePrefix, []byte(symbol)), &v)
	return v, ok, err
}
