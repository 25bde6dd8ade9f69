package royalty

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/distribution"
	"go.uber.org/zap"
)

type (
	// Settings are parameters of royalty payouts.
	Settings struct {
		// Holder dates are truncated to it, in seconds
		Period uint32
		// Minimal payout quantity and minimal fanned out balance
		Threshold int64
		// Quantity of cash moved by Collect
		CollectAmount int64
		// Cash token kind
		Cash asset.Kind
		// Account paying royalties in and receiving collected cash
		Source util.Uint160
		// Account allowed to collect cash
		Account util.Uint160
	}

	// Ledger is a balance ledger of own tokens.
	Ledger interface {
		Move(ctx *common.Context, from, to util.Uint160, quantity asset.Amount, memo string) error
		Accounts(ctx *common.Context, owner util.Uint160) ([]asset.Amount, error)
	}

	// Royalty manages royalty holders and payouts.
	Royalty struct {
		settings Settings
	}
)

// New returns royalty manager with the given settings.
func New(s Settings) *Royalty {
	return &Royalty{settings: s}
}

// Add adds a royalty holder or changes the share of the existing one. The
// effective date of a new holder is the current day. It can be invoked only
// by the ledger.
func (r *Royalty) Add(ctx *common.Context, acc util.Uint160, share distribution.Percent) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}
	if !share.IsValid() {
		return fmt.Errorf("%w: add royalty holder: royalty %s is not valid", common.ErrInvariant, share)
	}

	holders, err := r.Holders(ctx)
	if err != nil {
		return err
	}

	var (
		sum = share
		h   = Holder{Account: acc, Share: share}
		ok  bool
	)
	for i := range holders {
		if holders[i].Account == acc {
			h.Date, ok = holders[i].Date, true
			continue
		}
		sum += holders[i].Share
	}
	if sum > distribution.MaxPercent {
		return fmt.Errorf("%w: add royalty holder: royalties sum %s is not valid", common.ErrInvariant, sum)
	}
	if !ok {
		h.Date = r.currentDay(ctx)
	}

	if err := common.SetSerialized(ctx, holderKey(acc), &h); err != nil {
		return err
	}

	ctx.Log("royalty holder set",
		zap.String("account", address.Uint160ToString(acc)),
		zap.Stringer("share", share))
	return nil
}

// Remove removes the royalty holder. It can be invoked only by the ledger.
func (r *Royalty) Remove(ctx *common.Context, acc util.Uint160) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}

	var h Holder
	ok, err := common.GetSerialized(ctx, holderKey(acc), &h)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: remove royalty holder: account %s does not exist",
			common.ErrNotFound, address.Uint160ToString(acc))
	}

	ctx.Delete(holderKey(acc))
	return nil
}

// Holders returns royalty holders in storage order.
func (r *Royalty) Holders(ctx *common.Context) ([]Holder, error) {
	var (
		res     []Holder
		lastErr error
	)

	ctx.Find([]byte{holderPrefix}, func(_, v []byte) bool {
		var h Holder
		br := io.NewBinReaderFromBuf(v)
		h.DecodeBinary(br)
		if br.Err != nil {
			lastErr = fmt.Errorf("decode royalty holder: %w", br.Err)
			return false
		}
		res = append(res, h)
		return true
	})
	return res, lastErr
}

// Distribute pays quantity received from the royalty source out to the
// holders. Every holder gets its floor share transferred from contract, the
// rest stays on the ledger.
func (r *Royalty) Distribute(ctx *common.Context, quantity asset.Amount, contract util.Uint160) error {
	if quantity.Value < r.settings.Threshold {
		return fmt.Errorf("%w: distribute royalty: invalid distribution token amount", common.ErrInvalidAmount)
	}

	holders, err := r.Holders(ctx)
	if err != nil {
		return err
	}

	sum := asset.Zero(quantity.Kind)
	for i := range holders {
		v := asset.New(distribution.AllocateShare(quantity.Value, holders[i].Share), quantity.Kind)
		ctx.SendTransfer(contract, holders[i].Account, v, common.MemoRoyalty)
		sum = sum.Plus(v.Value)
	}

	common.SendNotify(ctx, common.NotifyRoyalty, ctx.Self(), util.Uint160{}, sum.Neg(),
		"Total amount of distribution: "+quantity.String())

	ctx.Log("royalty distributed", zap.Stringer("quantity", quantity),
		zap.Stringer("distributed", sum), zap.Int("holders", len(holders)))
	return nil
}

// FanOut pays every holder its share of every ledger-owned balance not less
// than the threshold. It can be invoked by any payer.
func (r *Royalty) FanOut(ctx *common.Context, ledger Ledger, payer util.Uint160) error {
	if err := common.CheckWitness(ctx, payer); err != nil {
		return err
	}

	holders, err := r.Holders(ctx)
	if err != nil {
		return err
	}
	rows, err := ledger.Accounts(ctx, ctx.Self())
	if err != nil {
		return err
	}

	for i := range holders {
		for _, row := range rows {
			if row.Value < r.settings.Threshold {
				continue
			}
			v := distribution.AllocateShare(row.Value, holders[i].Share)
			if v == 0 {
				continue
			}
			err := ledger.Move(ctx, ctx.Self(), holders[i].Account, asset.New(v, row.Kind), common.MemoRoyalty)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Collect moves configured quantity of cash from the royalty account through
// the ledger to the royalty source. It can be invoked only by the royalty
// account.
func (r *Royalty) Collect(ctx *common.Context, ledger Ledger) error {
	if err := common.CheckWitness(ctx, r.settings.Account); err != nil {
		return err
	}

	amount := asset.New(r.settings.CollectAmount, r.settings.Cash)
	if err := ledger.Move(ctx, r.settings.Account, ctx.Self(), amount, common.MemoCollect); err != nil {
		return err
	}
	return ledger.Move(ctx, ctx.Self(), r.settings.Source, amount, common.MemoCollect)
}

func (r *Royalty) currentDay(ctx *common.Context) uint32 {
	now := ctx.Now()
	if r.settings.Period == 0 {
		return now
	}
	return now - now%r.settings.Period
}
