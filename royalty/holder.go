package royalty

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/common"
	"github.com/paycash/pcash-contract/distribution"
)

const holderPrefix = 'h'

// Holder is a royalty recipient.
type Holder struct {
	// Day the holder was added at
	Date    uint32
	Account util.Uint160
	Share   distribution.Percent
}

// EncodeBinary implements io.Serializable.
func (h Holder) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Date)
	w.WriteBytes(h.Account[:])
	w.WriteU64LE(uint64(h.Share))
}

// DecodeBinary implements io.Serializable.
func (h *Holder) DecodeBinary(r *io.BinReader) {
	h.Date = r.ReadU32LE()
	r.ReadBytes(h.Account[:])
	h.Share = distribution.Percent(r.ReadU64LE())
}

func holderKey(acc util.Uint160) []byte {
	return common.Key(holderPrefix, acc[:])
}
