package asset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/shopspring/decimal"
)

const (
	// MaxSymbolLen is the longest ticker accepted by the ledger.
	MaxSymbolLen = 7
	// MaxDecimals is the highest precision accepted by the ledger.
	MaxDecimals = 18
)

var errInvalidFormat = errors.New("invalid amount format")

type (
	// Kind identifies a token by its ticker symbol and precision. Two amounts
	// are of the same kind only when both fields match.
	Kind struct {
		Symbol   string
		Decimals uint8
	}

	// Extended is a Kind bound to the contract that issues it.
	Extended struct {
		Kind
		Contract util.Uint160
	}

	// Amount is a signed fixed-point quantity of some Kind. Value is expressed
	// in the smallest units of the kind.
	Amount struct {
		Value int64
		Kind  Kind
	}

	// ExtendedAmount is an Amount issued by a particular contract.
	ExtendedAmount struct {
		Amount
		Contract util.Uint160
	}
)

// IsValid checks that the symbol consists of 1-7 upper-case latin letters and
// precision does not exceed MaxDecimals.
func (k Kind) IsValid() bool {
	if len(k.Symbol) == 0 || len(k.Symbol) > MaxSymbolLen || k.Decimals > MaxDecimals {
		return false
	}
	for i := 0; i < len(k.Symbol); i++ {
		if k.Symbol[i] < 'A' || k.Symbol[i] > 'Z' {
			return false
		}
	}
	return true
}

// String returns "<decimals>,<symbol>".
func (k Kind) String() string {
	return fmt.Sprintf("%d,%s", k.Decimals, k.Symbol)
}

// EncodeBinary implements io.Serializable.
func (k Kind) EncodeBinary(w *io.BinWriter) {
	w.WriteString(k.Symbol)
	w.WriteB(k.Decimals)
}

// DecodeBinary implements io.Serializable.
func (k *Kind) DecodeBinary(r *io.BinReader) {
	k.Symbol = r.ReadString(MaxSymbolLen)
	k.Decimals = r.ReadB()
}

// String returns "<symbol>@<contract address>". It is the canonical text form
// used to derive pair keys.
func (e Extended) String() string {
	return e.Symbol + "@" + address.Uint160ToString(e.Contract)
}

// New returns amount of the given kind.
func New(v int64, k Kind) Amount {
	return Amount{Value: v, Kind: k}
}

// Zero returns zero amount of the given kind.
func Zero(k Kind) Amount {
	return Amount{Kind: k}
}

// SameKind checks whether both amounts are of the same kind.
func (a Amount) SameKind(b Amount) bool {
	return a.Kind == b.Kind
}

// IsPositive checks that amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.Value > 0
}

// Neg returns negated amount.
func (a Amount) Neg() Amount {
	return Amount{Value: -a.Value, Kind: a.Kind}
}

// Plus returns a+v of the same kind.
func (a Amount) Plus(v int64) Amount {
	return Amount{Value: a.Value + v, Kind: a.Kind}
}

// Minus returns a-v of the same kind.
func (a Amount) Minus(v int64) Amount {
	return Amount{Value: a.Value - v, Kind: a.Kind}
}

// Decimal returns amount as a decimal number.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Value, -int32(a.Kind.Decimals))
}

// String returns amount in "<number> <symbol>" form with exactly Decimals
// fractional digits, e.g. "1.0000 USDT".
func (a Amount) String() string {
	return a.Decimal().StringFixed(int32(a.Kind.Decimals)) + " " + a.Kind.Symbol
}

// EncodeBinary implements io.Serializable.
func (a Amount) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(a.Value))
	a.Kind.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (a *Amount) DecodeBinary(r *io.BinReader) {
	a.Value = int64(r.ReadU64LE())
	a.Kind.DecodeBinary(r)
}

// Parse decodes amount from "<number> <symbol>" form. Precision is taken from
// the number of fractional digits, so "1.0000 USDT" is of kind "4,USDT".
func Parse(s string) (Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Amount{}, fmt.Errorf("%w: '%s'", errInvalidFormat, s)
	}

	var decimals uint8
	if i := strings.IndexByte(fields[0], '.'); i >= 0 {
		if len(fields[0])-i-1 > MaxDecimals {
			return Amount{}, fmt.Errorf("%w: too many decimals in '%s'", errInvalidFormat, s)
		}
		decimals = uint8(len(fields[0]) - i - 1)
	}

	d, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", errInvalidFormat, err)
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return Amount{}, fmt.Errorf("%w: '%s'", errInvalidFormat, s)
	}

	k := Kind{Symbol: fields[1], Decimals: decimals}
	if !k.IsValid() {
		return Amount{}, fmt.Errorf("%w: invalid symbol '%s'", errInvalidFormat, fields[1])
	}

	return Amount{Value: shifted.IntPart(), Kind: k}, nil
}

// Extended returns the issuer-bound kind of the amount.
func (e ExtendedAmount) Extended() Extended {
	return Extended{Kind: e.Kind, Contract: e.Contract}
}

// String returns "<amount>@<contract address>".
func (e ExtendedAmount) String() string {
	return e.Amount.String() + "@" + address.Uint160ToString(e.Contract)
}

// EncodeBinary implements io.Serializable.
func (e ExtendedAmount) EncodeBinary(w *io.BinWriter) {
	e.Amount.EncodeBinary(w)
	w.WriteBytes(e.Contract[:])
}

// DecodeBinary implements io.Serializable.
func (e *ExtendedAmount) DecodeBinary(r *io.BinReader) {
	e.Amount.DecodeBinary(r)
	r.ReadBytes(e.Contract[:])
}
