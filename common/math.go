package common

import "math/big"

// MulDiv returns floor(a*b/c) for non-negative a, b and positive c. The
// product is computed without overflow, the caller guarantees the quotient
// fits int64 (b <= c is sufficient).
func MulDiv(a, b, c int64) int64 {
	var r big.Int
	r.Mul(big.NewInt(a), big.NewInt(b))
	r.Quo(&r, big.NewInt(c))
	return r.Int64()
}

// CeilMulDiv returns ceil(a*b/c) for non-negative a, b and positive c. It
// returns false if the result does not fit int64.
func CeilMulDiv(a, b, c int64) (int64, bool) {
	var r, m big.Int
	r.Mul(big.NewInt(a), big.NewInt(b))
	r.QuoRem(&r, big.NewInt(c), &m)
	if m.Sign() != 0 {
		r.Add(&r, big.NewInt(1))
	}
	if !r.IsInt64() {
		return 0, false
	}
	return r.Int64(), true
}
