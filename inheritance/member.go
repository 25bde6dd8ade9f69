package inheritance

import (
	"encoding/binary"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/distribution"
)

// MaxHeirs is the maximum number of explicitly configured heirs.
const MaxHeirs = 3

const (
	memberPrefix = 'i'
	expiryPrefix = 'e'
)

// Member is an inheritance configuration of a single owner.
type Member struct {
	Owner util.Uint160
	// Time after which balances of the owner can be distributed
	Expiry uint32
	// Inactivity period in seconds used to move Expiry
	InactivePeriod uint32
	// Heirs in declared order
	Heirs []distribution.Recipient
}

// IsDefault checks whether the member was never configured explicitly, i.e.
// its only heir is the ledger itself.
func (m Member) IsDefault(self util.Uint160) bool {
	return len(m.Heirs) == 1 && m.Heirs[0].Account == self
}

// EncodeBinary implements io.Serializable.
func (m Member) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(m.Owner[:])
	w.WriteU32LE(m.Expiry)
	w.WriteU32LE(m.InactivePeriod)
	w.WriteVarUint(uint64(len(m.Heirs)))
	for i := range m.Heirs {
		m.Heirs[i].EncodeBinary(w)
	}
}

// DecodeBinary implements io.Serializable.
func (m *Member) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(m.Owner[:])
	m.Expiry = r.ReadU32LE()
	m.InactivePeriod = r.ReadU32LE()

	n := r.ReadVarUint()
	if n > MaxHeirs {
		r.Err = errTooManyHeirs
		return
	}
	m.Heirs = make([]distribution.Recipient, n)
	for i := range m.Heirs {
		m.Heirs[i].DecodeBinary(r)
	}
}

func memberKey(owner util.Uint160) []byte {
	return common.Key(memberPrefix, owner[:])
}

func expiryKey(expiry uint32, owner util.Uint160) []byte {
	var ts [4]byte
	binary.BigEndian.PutUint32(ts[:], expiry)
	return common.Key(expiryPrefix, ts[:], owner[:])
}
