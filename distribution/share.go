package distribution

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/common"
	"github.com/shopspring/decimal"
)

// Percent is a share expressed in tenths of a percent: 1 is 0.1%, 1000 is 100%.
type Percent int64

const (
	// MinPercent is the smallest share a recipient may get.
	MinPercent Percent = 1
	// MaxPercent is the whole, 100%.
	MaxPercent Percent = 1000
)

// IsValid checks that the share is within [MinPercent, MaxPercent].
func (p Percent) IsValid() bool {
	return p >= MinPercent && p <= MaxPercent
}

// String returns share in "33.3%" form.
func (p Percent) String() string {
	return decimal.New(int64(p), -1).StringFixed(1) + "%"
}

// ParsePercent decodes share from "33.3" or "33.3%" form. Only one fractional
// digit is allowed.
func ParsePercent(s string) (Percent, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid percent '%s': %w", s, err)
	}

	tenths := d.Shift(1)
	if !tenths.IsInteger() {
		return 0, fmt.Errorf("invalid percent '%s': more than one decimal place", s)
	}
	return Percent(tenths.IntPart()), nil
}

type (
	// Recipient is an account receiving Share of the distributed quantity.
	Recipient struct {
		Account util.Uint160
		Share   Percent
	}

	// Allocation is a part of the distributed quantity given to Account.
	Allocation struct {
		Account util.Uint160
		Amount  int64
	}
)

// EncodeBinary implements io.Serializable.
func (r Recipient) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(r.Account[:])
	w.WriteU64LE(uint64(r.Share))
}

// DecodeBinary implements io.Serializable.
func (r *Recipient) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(r.Account[:])
	r.Share = Percent(br.ReadU64LE())
}

// AllocateShare returns floor(quantity * share / 100%). Quantity must be
// non-negative.
func AllocateShare(quantity int64, share Percent) int64 {
	return common.MulDiv(quantity, int64(share), int64(MaxPercent))
}

// Sum returns total share of the recipients.
func Sum(recipients []Recipient) Percent {
	var s Percent
	for i := range recipients {
		s += recipients[i].Share
	}
	return s
}

// Split divides quantity among recipients so that allocations sum up to
// quantity exactly. Recipients are walked in reverse declared order: the
// last-declared recipient comes first and gets the quantity left after every
// other recipient got its floor share, so it absorbs all rounding dust.
// Allocations are returned in walk order. Shares must sum up to MaxPercent.
func Split(quantity int64, recipients []Recipient) []Allocation {
	if len(recipients) == 0 {
		return nil
	}

	res := make([]Allocation, 0, len(recipients))
	last := len(recipients) - 1

	var others int64
	for i := 0; i < last; i++ {
		others += AllocateShare(quantity, recipients[i].Share)
	}
	res = append(res, Allocation{Account: recipients[last].Account, Amount: quantity - others})

	for i := last - 1; i >= 0; i-- {
		res = append(res, Allocation{
			Account: recipients[i].Account,
			Amount:  AllocateShare(quantity, recipients[i].Share),
		})
	}
	return res
}
