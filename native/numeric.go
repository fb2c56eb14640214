package native

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/vexport/vexport/schema"
)

var (
	big1  = big.NewInt(1)
	big2  = big.NewInt(2)
	big10 = big.NewInt(10)
)

// appendNumeric writes a numeric field. Precision up to 18 uses the fixed
// 8-byte scaled-integer encoding; anything wider gets a length-prefixed
// two's-complement blob so no precision is ever lost.
func appendNumeric(buf []byte, col schema.Column, r *big.Rat) ([]byte, error) {
	unscaled := scaleHalfUp(r, col.Scale)

	if col.Precision >= 1 && col.Precision <= schema.MaxFixedNumericPrecision {
		limit := new(big.Int).Exp(big10, big.NewInt(col.Precision), nil)
		if new(big.Int).Abs(unscaled).Cmp(limit) >= 0 || !unscaled.IsInt64() {
			return nil, fmt.Errorf("%w: %s does not fit numeric(%d,%d)",
				ErrNumericOverflow, r.RatString(), col.Precision, col.Scale)
		}
		return binary.LittleEndian.AppendUint64(buf, uint64(unscaled.Int64())), nil
	}

	return appendLengthPrefixed(buf, twosComplementBytes(unscaled))
}

// scaleHalfUp returns round(r * 10^scale), rounding ties away from zero to
// match the source engine (not banker's rounding).
func scaleHalfUp(r *big.Rat, scale int64) *big.Int {
	pow := new(big.Int).Exp(big10, big.NewInt(scale), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(pow))

	q, rem := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	rem.Abs(rem).Mul(rem, big2)
	if rem.Cmp(scaled.Denom()) >= 0 {
		if scaled.Num().Sign() < 0 {
			q.Sub(q, big1)
		} else {
			q.Add(q, big1)
		}
	}
	return q
}

// twosComplementBytes returns the minimal big-endian two's-complement
// representation of v.
func twosComplementBytes(v *big.Int) []byte {
	if v.Sign() >= 0 {
		b := v.Bytes()
		if len(b) == 0 {
			return []byte{0}
		}
		if b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}

	n := (v.BitLen() + 8) / 8 // one spare bit for the sign
	if n == 0 {
		n = 1
	}
	mod := new(big.Int).Lsh(big1, uint(8*n))
	b := new(big.Int).Add(mod, v).Bytes()

	out := make([]byte, n)
	copy(out[n-len(b):], b)
	for len(out) > 1 && out[0] == 0xFF && out[1]&0x80 != 0 {
		out = out[1:]
	}
	return out
}
