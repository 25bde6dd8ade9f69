package asset

import (
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// PairKey returns the key of the liquidity pool trading a against b. The key
// depends on argument order: PairKey(a, b) and PairKey(b, a) differ, so
// lookups must probe both.
func PairKey(a, b Extended) util.Uint256 {
	return hash.Sha256([]byte(a.String() + "/" + b.String()))
}

// PairKeyString returns base58 text form of the pair key.
func PairKeyString(k util.Uint256) string {
	return base58.Encode(k.BytesBE())
}
