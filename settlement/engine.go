package settlement

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/balance"
	"github.com/paycash/pcash-contract/common"
	"go.uber.org/zap"
)

type (
	// Settings are parameters of the settlement engine.
	Settings struct {
		// Token quantized into lots, aggregated to the redeemer
		Stable asset.Extended
		// Token returned to deposit owners, orders the pool
		Collateral asset.Extended
		// Kind of cash minted for deposits
		Cash asset.Kind
		// Cash units per redemption rate unit
		CashPackage int64
		// Minimal redeemed cash in redemption rate units
		ExchangeMultiplier int64
		// Cash minted per stable unit
		CashMultiplier int64
		// Memo of bulk redemption transfers
		Intent string
	}

	// Ledger is a balance ledger of own tokens.
	Ledger interface {
		Token(ctx *common.Context, symbol string) (balance.Token, bool, error)
		Mint(ctx *common.Context, to util.Uint160, quantity asset.Amount) error
		Burn(ctx *common.Context, owner util.Uint160, quantity asset.Amount) error
		Move(ctx *common.Context, from, to util.Uint160, quantity asset.Amount, memo string) error
	}

	// Payment is an inbound transfer of an external token to the ledger.
	Payment struct {
		// Contract issuing the token
		Contract util.Uint160
		From     util.Uint160
		To       util.Uint160
		Quantity asset.Amount
		Memo     string
	}

	// Engine is the settlement engine.
	Engine struct {
		settings Settings
		prices   PriceSource
		pool     pool
	}
)

// Extended returns transferred quantity bound to the issuing contract.
func (p Payment) Extended() asset.ExtendedAmount {
	return asset.ExtendedAmount{Amount: p.Quantity, Contract: p.Contract}
}

// New returns settlement engine using the given price source.
func New(s Settings, prices PriceSource) *Engine {
	return &Engine{settings: s, prices: prices}
}

// Intake handles current, one of the transfers of bundle. Bundle is the full
// list of transfers of the transaction. Transfers to the ledger must be
// exactly one stable and one collateral payment from the same sender. The
// deposit is processed once, when the last of them is observed.
func (e *Engine) Intake(ctx *common.Context, ledger Ledger, bundle []Payment, current Payment) error {
	var in []Payment
	for i := range bundle {
		if bundle[i].To == ctx.Self() {
			in = append(in, bundle[i])
		}
	}
	if !e.isValidBundle(in) {
		return fmt.Errorf("%w: invalid deposits", common.ErrInvalidDeposit)
	}
	switch current {
	case in[0]:
		return nil
	case in[1]:
	default:
		return fmt.Errorf("%w: current transfer is not a deposit of the bundle", common.ErrInvalidDeposit)
	}

	from := in[0].From
	a, b := in[0].Extended().Extended(), in[1].Extended().Extended()
	p, ok := findPool(e.prices, a, b)
	if !ok {
		return fmt.Errorf("%w: on income: pool by hash %s does not exist",
			common.ErrNoPrice, asset.PairKeyString(asset.PairKey(a, b)))
	}

	stableIn, collateralIn := in[0].Quantity, in[1].Quantity
	if in[0].Extended().Extended() != e.settings.Stable {
		stableIn, collateralIn = collateralIn, stableIn
	}

	stableDep, collateralDep, err := e.match(ctx, p, stableIn, collateralIn)
	if err != nil {
		return err
	}

	ctx.SendTransfer(e.settings.Stable.Contract, from,
		stableIn.Minus(stableDep.Value), common.MemoDepositRefund)
	ctx.SendTransfer(e.settings.Collateral.Contract, from,
		collateralIn.Minus(collateralDep.Value), common.MemoDepositRefund)

	cash := asset.New(stableDep.Value*e.settings.CashMultiplier, e.settings.Cash)
	if err := ledger.Mint(ctx, from, cash); err != nil {
		return err
	}

	id, err := e.pool.nextID(ctx)
	if err != nil {
		return err
	}
	d := Deposit{
		ID:           id,
		Owner:        from,
		CollateralIn: collateralDep,
		StableIn:     stableDep,
		CashOut:      cash,
		Created:      ctx.Now(),
	}
	if err := e.pool.put(ctx, d); err != nil {
		return err
	}

	ctx.Log("deposit created", zap.Uint64("id", id),
		zap.String("owner", address.Uint160ToString(from)),
		zap.Stringer("collateral", collateralDep),
		zap.Stringer("stable", stableDep),
		zap.Stringer("cash", cash))
	ctx.Notify("Deposit", id, from, collateralDep, stableDep, cash)
	return nil
}

func (e *Engine) isValidBundle(in []Payment) bool {
	if len(in) != 2 || in[0].From != in[1].From {
		return false
	}
	a, b := in[0].Extended().Extended(), in[1].Extended().Extended()
	return (a == e.settings.Stable && b == e.settings.Collateral) ||
		(a == e.settings.Collateral && b == e.settings.Stable)
}

// match quantizes paired deposit into whole lots. Lot of the collateral is
// the stable lot at the pool price rounded up.
func (e *Engine) match(ctx *common.Context, p Pool, stableIn, collateralIn asset.Amount) (asset.Amount, asset.Amount, error) {
	stableRes, collateralRes := p.Token1.Value, p.Token2.Value
	if p.Token1.Extended() != e.settings.Stable {
		stableRes, collateralRes = collateralRes, stableRes
	}
	if stableRes <= 0 || collateralRes <= 0 {
		return asset.Amount{}, asset.Amount{}, fmt.Errorf("%w: on income: pool %s has empty reserves",
			common.ErrNoPrice, asset.PairKeyString(p.Key()))
	}

	pkg, ok, err := e.SwapPackage(ctx, stableIn.Kind.Symbol)
	if err != nil {
		return asset.Amount{}, asset.Amount{}, err
	}
	if !ok {
		return asset.Amount{}, asset.Amount{}, fmt.Errorf("%w: on income: no swap income object found", common.ErrNotFound)
	}

	lot := pkg.Value
	collateralLot, ok := common.CeilMulDiv(lot, collateralRes, stableRes)
	if !ok {
		return asset.Amount{}, asset.Amount{}, fmt.Errorf("%w: on income: collateral lot overflow", common.ErrNoPrice)
	}
	if stableIn.Value < lot || collateralIn.Value < collateralLot {
		return asset.Amount{}, asset.Amount{}, fmt.Errorf("%w: on income: invalid income amount", common.ErrInsufficientLot)
	}

	lots := min(stableIn.Value/lot, collateralIn.Value/collateralLot)
	return asset.New(lots*lot, stableIn.Kind), asset.New(lots*collateralLot, collateralIn.Kind), nil
}

// SwapBack returns cash part of the user's deposit: the cash is burned and
// proportional stable and collateral amounts are transferred to the user.
// It can be invoked only by the deposit owner.
func (e *Engine) SwapBack(ctx *common.Context, ledger Ledger, user util.Uint160, cash asset.Amount, id uint64) error {
	if err := common.CheckOwnerWitness(ctx, user); err != nil {
		return err
	}

	d, ok, err := e.pool.get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: swap back: deposit information is not found", common.ErrNotFound)
	}
	if d.Owner != user {
		return fmt.Errorf("%w: swap back: the user is not the owner of the deposit", common.ErrAuthorization)
	}
	if cash.Kind != d.CashOut.Kind {
		return fmt.Errorf("%w: swap back: symbol precision mismatch", common.ErrInvalidAmount)
	}
	if cash.Value < e.settings.CashPackage || cash.Value%e.settings.CashPackage != 0 {
		return fmt.Errorf("%w: swap back: invalid cash amount", common.ErrInvalidAmount)
	}
	if cash.Value > d.CashOut.Value {
		return fmt.Errorf("%w: swap back: cash amount must be less than deposit amount", common.ErrInvalidAmount)
	}

	collateral, stable := d.Release(cash.Value)
	if err := e.shrink(ctx, d, cash.Value, collateral, stable); err != nil {
		return err
	}
	if err := ledger.Burn(ctx, user, cash); err != nil {
		return err
	}

	ctx.SendTransfer(e.settings.Stable.Contract, user, stable, "")
	ctx.SendTransfer(e.settings.Collateral.Contract, user, collateral, "")

	ctx.Log("deposit swapped back", zap.Uint64("id", id), zap.Stringer("cash", cash))
	return nil
}

// shrink subtracts released amounts from the deposit erasing it when all of
// its cash is released.
func (e *Engine) shrink(ctx *common.Context, d Deposit, cash int64, collateral, stable asset.Amount) error {
	if cash == d.CashOut.Value {
		e.pool.erase(ctx, d)
		return nil
	}

	old := d
	d.CashOut = d.CashOut.Minus(cash)
	d.CollateralIn = d.CollateralIn.Minus(collateral.Value)
	d.StableIn = d.StableIn.Minus(stable.Value)
	return e.pool.update(ctx, old, d)
}

// Redeem handles quantity of own tokens transferred by from to the ledger
// with the given memo. Quantity is converted into cash units and deposits
// are drained in pool order: collateral goes back to every deposit owner,
// stable is sent to from at once. Cash not covered by deposits is refunded,
// the rest of quantity is burned.
func (e *Engine) Redeem(ctx *common.Context, ledger Ledger, from util.Uint160, quantity asset.Amount, memo string) error {
	rate, ok, err := e.RedemptionRate(ctx, quantity.Kind.Symbol)
	if err != nil {
		return err
	}
	if !ok || rate.Kind != quantity.Kind {
		return fmt.Errorf("%w: redeem: %s is not cash token", common.ErrInvalidAmount, quantity.Kind)
	}
	if quantity.Value < rate.Value || quantity.Value%rate.Value != 0 {
		return fmt.Errorf("%w: redeem: invalid quantity amount", common.ErrInvalidAmount)
	}
	if quantity.Kind == e.settings.Cash && quantity.Value < rate.Value*e.settings.ExchangeMultiplier {
		return fmt.Errorf("%w: redeem: invalid quantity amount", common.ErrInvalidAmount)
	}

	_, ok, err = e.SwapPackage(ctx, e.settings.Stable.Symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: redeem: no swap income object found", common.ErrNotFound)
	}
	if memo != e.settings.Intent {
		return fmt.Errorf("%w: redeem: invalid memo '%s'", common.ErrInvalidIntent, memo)
	}

	sum := quantity.Value / rate.Value * e.settings.CashPackage
	stableSum := asset.Zero(e.settings.Stable.Kind)

	for sum > 0 {
		d, ok, err := e.pool.head(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		part := min(sum, d.CashOut.Value)
		collateral, stable := d.Release(part)
		if err := e.shrink(ctx, d, part, collateral, stable); err != nil {
			return err
		}

		ctx.SendTransfer(e.settings.Collateral.Contract, d.Owner, collateral, common.MemoDepositReturn)
		stableSum = stableSum.Plus(stable.Value)
		sum -= part
	}

	// only the matched part is burned
	refund := asset.New(common.MulDiv(sum, rate.Value, e.settings.CashPackage), quantity.Kind)
	if refund.IsPositive() {
		if err := ledger.Move(ctx, ctx.Self(), from, refund, ""); err != nil {
			return err
		}
	}
	ctx.SendTransfer(e.settings.Stable.Contract, from, stableSum, "")
	if burned := quantity.Minus(refund.Value); burned.IsPositive() {
		if err := ledger.Burn(ctx, ctx.Self(), burned); err != nil {
			return err
		}
	}

	ctx.Log("redeemed", zap.String("from", address.Uint160ToString(from)),
		zap.Stringer("quantity", quantity), zap.Stringer("refund", refund),
		zap.Stringer("stable", stableSum))
	ctx.Notify("Redeem", from, quantity, refund)
	return nil
}

// MigrateDeposit re-inserts the deposit under a fresh id keeping every other
// field. Missing deposits are ignored. It can be invoked only by the ledger.
func (e *Engine) MigrateDeposit(ctx *common.Context, id uint64) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}

	d, ok, err := e.pool.get(ctx, id)
	if err != nil || !ok {
		return err
	}
	e.pool.erase(ctx, d)

	d.ID, err = e.pool.nextID(ctx)
	if err != nil {
		return err
	}
	if err := e.pool.put(ctx, d); err != nil {
		return err
	}

	ctx.Log("deposit migrated", zap.Uint64("from", id), zap.Uint64("to", d.ID))
	return nil
}

// Deposit returns the deposit with the given id.
func (e *Engine) Deposit(ctx *common.Context, id uint64) (Deposit, bool, error) {
	return e.pool.get(ctx, id)
}

// DepositsOf returns deposits of the owner ordered by id.
func (e *Engine) DepositsOf(ctx *common.Context, owner util.Uint160) ([]Deposit, error) {
	return e.pool.list(ctx, common.Key(ownerPrefix, owner[:]))
}

// Deposits returns all deposits in bulk redemption order.
func (e *Engine) Deposits(ctx *common.Context) ([]Deposit, error) {
	return e.pool.list(ctx, []byte{orderPrefix})
}
