package settlement

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
	"github.com/paycash/pcash-contract/common"
)

const (
	depositPrefix = 'd'
	orderPrefix   = 'o'
	ownerPrefix   = 'w'
	nextIDKey     = 'n'
)

// Deposit is a matched paired deposit. All three amounts stay proportional
// to the ratio they had at creation.
type Deposit struct {
	ID           uint64
	Owner        util.Uint160
	CollateralIn asset.Amount
	StableIn     asset.Amount
	CashOut      asset.Amount
	Created      uint32
}

// EncodeBinary implements io.Serializable.
func (d Deposit) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(d.ID)
	w.WriteBytes(d.Owner[:])
	d.CollateralIn.EncodeBinary(w)
	d.StableIn.EncodeBinary(w)
	d.CashOut.EncodeBinary(w)
	w.WriteU32LE(d.Created)
}

// DecodeBinary implements io.Serializable.
func (d *Deposit) DecodeBinary(r *io.BinReader) {
	d.ID = r.ReadU64LE()
	r.ReadBytes(d.Owner[:])
	d.CollateralIn.DecodeBinary(r)
	d.StableIn.DecodeBinary(r)
	d.CashOut.DecodeBinary(r)
	d.Created = r.ReadU32LE()
}

// Release returns collateral and stable amounts backing cash part of the
// deposit. Cash must not exceed CashOut.
func (d Deposit) Release(cash int64) (collateral, stable asset.Amount) {
	if cash == d.CashOut.Value {
		return d.CollateralIn, d.StableIn
	}
	collateral = asset.New(common.MulDiv(d.CollateralIn.Value, cash, d.CashOut.Value), d.CollateralIn.Kind)
	stable = asset.New(common.MulDiv(d.StableIn.Value, cash, d.CashOut.Value), d.StableIn.Kind)
	return
}

func be64(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func be32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func depositKey(id uint64) []byte {
	return common.Key(depositPrefix, be64(id))
}

// orderKey sorts deposits by collateral amount, creation time and id.
// Amounts at rest are non-negative, so big-endian order of the raw value is
// numeric order.
func orderKey(d Deposit) []byte {
	return common.Key(orderPrefix, be64(uint64(d.CollateralIn.Value)), be32(d.Created), be64(d.ID))
}

func ownerKey(owner util.Uint160, id uint64) []byte {
	return common.Key(ownerPrefix, owner[:], be64(id))
}

// pool is the storage of deposit records and their indexes.
type pool struct{}

func (pool) get(ctx *common.Context, id uint64) (Deposit, bool, error) {
	var d Deposit
	ok, err := common.GetSerialized(ctx, depositKey(id), &d)
	return d, ok, err
}

func (pool) put(ctx *common.Context, d Deposit) error {
	if err := common.SetSerialized(ctx, depositKey(d.ID), &d); err != nil {
		return err
	}
	ctx.Put(orderKey(d), be64(d.ID))
	ctx.Put(ownerKey(d.Owner, d.ID), be64(d.ID))
	return nil
}

func (pool) erase(ctx *common.Context, d Deposit) {
	ctx.Delete(depositKey(d.ID))
	ctx.Delete(orderKey(d))
	ctx.Delete(ownerKey(d.Owner, d.ID))
}

// update replaces stored deposit old with d keeping indexes consistent.
func (p pool) update(ctx *common.Context, old, d Deposit) error {
	ctx.Delete(orderKey(old))
	return p.put(ctx, d)
}

func (pool) nextID(ctx *common.Context) (uint64, error) {
	v, err := ctx.Get([]byte{nextIDKey})
	if err != nil {
		return 0, err
	}

	var id uint64
	if len(v) == 8 {
		id = binary.BigEndian.Uint64(v)
	}
	ctx.Put([]byte{nextIDKey}, be64(id+1))
	return id, nil
}

// ids returns ids stored as values under the prefix in key order.
func (pool) ids(ctx *common.Context, prefix []byte, limit int) []uint64 {
	var res []uint64
	ctx.Find(prefix, func(_, v []byte) bool {
		if len(v) == 8 {
			res = append(res, binary.BigEndian.Uint64(v))
		}
		return limit <= 0 || len(res) < limit
	})
	return res
}

func (p pool) list(ctx *common.Context, prefix []byte) ([]Deposit, error) {
	ids := p.ids(ctx, prefix, 0)
	res := make([]Deposit, 0, len(ids))
	for _, id := range ids {
		d, ok, err := p.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: deposit %d is indexed but missing", common.ErrInvariant, id)
		}
		res = append(res, d)
	}
	return res, nil
}

// head returns the deposit drained first by bulk redemption.
func (p pool) head(ctx *common.Context) (Deposit, bool, error) {
	ids := p.ids(ctx, []byte{orderPrefix}, 1)
	if len(ids) == 0 {
		return Deposit{}, false, nil
	}
	return p.get(ctx, ids[0])
}
