package inheritance

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/distribution"
	"go.uber.org/zap"
)

var errTooManyHeirs = errors.New("too many heirs")

type (
	// Settings are inactivity period bounds in seconds.
	Settings struct {
		MinPeriod     uint32
		InitialPeriod uint32
		MaxPeriod     uint32
	}

	// Ledger is a balance ledger inheritance is paid from.
	Ledger interface {
		Credit(ctx *common.Context, owner util.Uint160, amount asset.Amount) error
		Debit(ctx *common.Context, owner util.Uint160, amount asset.Amount) error
		BalanceOf(ctx *common.Context, owner util.Uint160, symbol string) (asset.Amount, bool, error)
	}

	// Registry manages inheritance members. It implements balance.Hooks so
	// that member lifecycle follows owner's balance rows.
	Registry struct {
		settings Settings
	}
)

// New returns inheritance registry with the given period bounds.
func New(s Settings) *Registry {
	return &Registry{settings: s}
}

// AccountOpened creates default member for the owner unless it exists.
func (r *Registry) AccountOpened(ctx *common.Context, owner util.Uint160) error {
	_, ok, err := r.Member(ctx, owner)
	if err != nil || ok {
		return err
	}

	m := Member{
		Owner:          owner,
		Expiry:         ctx.Now() + r.settings.InitialPeriod,
		InactivePeriod: r.settings.InitialPeriod,
		Heirs: []distribution.Recipient{{
			Account: ctx.Self(),
			Share:   distribution.MaxPercent,
		}},
	}
	if err := r.put(ctx, m); err != nil {
		return err
	}

	ctx.Log("inheritance member created", zap.String("owner", address.Uint160ToString(owner)))
	return nil
}

// AccountsClosed removes the owner's member.
func (r *Registry) AccountsClosed(ctx *common.Context, owner util.Uint160) error {
	m, ok, err := r.Member(ctx, owner)
	if err != nil || !ok {
		return err
	}

	ctx.Delete(memberKey(owner))
	ctx.Delete(expiryKey(m.Expiry, owner))

	ctx.Log("inheritance member closed", zap.String("owner", address.Uint160ToString(owner)))
	return nil
}

// Spent extends expiry of the owner's member by its inactive period. It is
// the heartbeat of an active account.
func (r *Registry) Spent(ctx *common.Context, owner util.Uint160) error {
	m, ok, err := r.Member(ctx, owner)
	if err != nil || !ok {
		return err
	}

	ctx.Delete(expiryKey(m.Expiry, owner))
	m.Expiry = ctx.Now() + m.InactivePeriod
	return r.put(ctx, m)
}

// UpdateInactivePeriod sets new inactivity period of the owner and restarts
// the timer. It can be invoked only by the owner.
func (r *Registry) UpdateInactivePeriod(ctx *common.Context, owner util.Uint160, period uint32) error {
	if err := common.CheckOwnerWitness(ctx, owner); err != nil {
		return err
	}

	m, err := r.existing(ctx, "update inactive period", owner)
	if err != nil {
		return err
	}
	if period < r.settings.MinPeriod || period > r.settings.MaxPeriod {
		return fmt.Errorf("%w: update inactive period: invalid inactive period %d", common.ErrInvariant, period)
	}

	ctx.Delete(expiryKey(m.Expiry, owner))
	m.Expiry = ctx.Now() + period
	m.InactivePeriod = period
	return r.put(ctx, m)
}

// SetInactivePeriod replaces inactivity period of the owner keeping the time
// the timer was last restarted at. It can be invoked only by the ledger.
func (r *Registry) SetInactivePeriod(ctx *common.Context, owner util.Uint160, period uint32) error {
	if err := common.CheckAdminWitness(ctx); err != nil {
		return err
	}

	m, err := r.existing(ctx, "set inactive period", owner)
	if err != nil {
		return err
	}

	ctx.Delete(expiryKey(m.Expiry, owner))
	expiry := int64(m.Expiry) - int64(m.InactivePeriod) + int64(period)
	if expiry < 0 {
		expiry = 0
	}
	m.Expiry = uint32(expiry)
	m.InactivePeriod = period
	return r.put(ctx, m)
}

// UpdateHeirs replaces the owner's heirs. It can be invoked only by the owner.
// Heirs must be 1-3 unique accounts other than the owner with shares within
// [MinPercent, MaxPercent] summing up to exactly MaxPercent.
func (r *Registry) UpdateHeirs(ctx *common.Context, owner util.Uint160, heirs []distribution.Recipient) error {
	if err := common.CheckOwnerWitness(ctx, owner); err != nil {
		return err
	}

	m, err := r.existing(ctx, "update heirs", owner)
	if err != nil {
		return err
	}
	if err := ValidateHeirs(owner, heirs); err != nil {
		return err
	}

	m.Heirs = append([]distribution.Recipient(nil), heirs...)
	return r.put(ctx, m)
}

// ValidateHeirs checks explicit heirs configuration of the owner.
func ValidateHeirs(owner util.Uint160, heirs []distribution.Recipient) error {
	for i := range heirs {
		if heirs[i].Account == owner {
			return fmt.Errorf("%w: update heirs: owner can not be in heirs list", common.ErrInvariant)
		}
	}
	if len(heirs) < 1 || len(heirs) > MaxHeirs {
		return fmt.Errorf("%w: update heirs: invalid heirs amount %d", common.ErrInvariant, len(heirs))
	}

	seen := make(map[util.Uint160]struct{}, len(heirs))
	for i := range heirs {
		seen[heirs[i].Account] = struct{}{}
	}
	if len(seen) != len(heirs) {
		return fmt.Errorf("%w: update heirs: heirs must be unique", common.ErrInvariant)
	}

	for i := range heirs {
		if !heirs[i].Share.IsValid() {
			return fmt.Errorf("%w: update heirs: invalid share %s", common.ErrInvariant, heirs[i].Share)
		}
	}
	if sum := distribution.Sum(heirs); sum != distribution.MaxPercent {
		return fmt.Errorf("%w: update heirs: shares sum up to %s", common.ErrInvariant, sum)
	}
	return nil
}

// Distribute pays the owner's balance of the given token out to the heirs
// once the owner's timer has expired. Default members pay everything to the
// ledger itself, configured ones split the balance with distribution.Split.
// Heirs configuration and timer stay untouched.
func (r *Registry) Distribute(ctx *common.Context, ledger Ledger, initiator, owner util.Uint160, symbol string) error {
	if err := common.CheckWitness(ctx, initiator); err != nil {
		return err
	}

	m, err := r.existing(ctx, "distribute inheritance", owner)
	if err != nil {
		return err
	}
	if m.Expiry >= ctx.Now() {
		return fmt.Errorf("%w: distribute inheritance: inheritance date is not expired", common.ErrInvariant)
	}

	bal, ok, err := ledger.BalanceOf(ctx, owner, symbol)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: distribute inheritance: token %s does not exist", common.ErrNotFound, symbol)
	}
	if !bal.IsPositive() {
		return fmt.Errorf("%w: distribute inheritance: distribute amount should be positive", common.ErrInvalidAmount)
	}

	var allocations []distribution.Allocation
	if m.IsDefault(ctx.Self()) {
		allocations = []distribution.Allocation{{Account: ctx.Self(), Amount: bal.Value}}
	} else {
		allocations = distribution.Split(bal.Value, m.Heirs)
	}

	for _, a := range allocations {
		amount := asset.New(a.Amount, bal.Kind)
		if err := ledger.Credit(ctx, a.Account, amount); err != nil {
			return err
		}
		if err := ledger.Debit(ctx, owner, amount); err != nil {
			return err
		}
		common.SendNotify(ctx, common.NotifyInheritance, a.Account, owner, amount, "")
	}
	common.SendNotify(ctx, common.NotifyInheritance, owner, util.Uint160{}, bal.Neg(), "")

	ctx.Log("inheritance distributed", zap.String("owner", address.Uint160ToString(owner)),
		zap.Stringer("amount", bal), zap.Int("heirs", len(allocations)))
	return nil
}

// Member returns inheritance member of the owner.
func (r *Registry) Member(ctx *common.Context, owner util.Uint160) (Member, bool, error) {
	var m Member
	ok, err := common.GetSerialized(ctx, memberKey(owner), &m)
	return m, ok, err
}

// Expired returns members which timers expired before now in expiry order.
func (r *Registry) Expired(ctx *common.Context, now uint32) ([]Member, error) {
	var owners []util.Uint160

	ctx.Find([]byte{expiryPrefix}, func(k, v []byte) bool {
		if len(k) != 1+4+util.Uint160Size || len(v) != util.Uint160Size {
			return true
		}
		if binary.BigEndian.Uint32(k[1:]) >= now {
			return false
		}
		var owner util.Uint160
		copy(owner[:], v)
		owners = append(owners, owner)
		return true
	})

	res := make([]Member, 0, len(owners))
	for i := range owners {
		m, ok, err := r.Member(ctx, owners[i])
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, m)
		}
	}
	return res, nil
}

func (r *Registry) existing(ctx *common.Context, op string, owner util.Uint160) (Member, error) {
	m, ok, err := r.Member(ctx, owner)
	if err != nil {
		return m, err
	}
	if !ok {
		return m, fmt.Errorf("%w: %s: account %s is not found", common.ErrNotFound, op, address.Uint160ToString(owner))
	}
	return m, nil
}

func (r *Registry) put(ctx *common.Context, m Member) error {
	if err := common.SetSerialized(ctx, memberKey(m.Owner), &m); err != nil {
		return err
	}
	ctx.Put(expiryKey(m.Expiry, m.Owner), m.Owner.BytesBE())
	return nil
}
