// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package fixed

import (
	"math/big"
)

// BigPrecision is the mantissa precision, in bits, used for conversions
// between Number and big.Float. It covers every bit of a Number.
const BigPrecision = Words*32 + 32

// FromBig converts x to a Number.
//
// The integer part is taken by truncation toward zero with the sign kept
// aside, the fraction is scaled by 2^FractionBits and truncated, both are
// packed into words, and the whole value is negated if x was negative.
// Integer parts that do not fit WholeWords words wrap.
func FromBig(x *big.Float) Number {
	if x.Sign() == 0 || x.IsInf() {
		return Zero
	}
	negative := x.Signbit()

	prec := x.Prec() + FractionBits + 64
	abs := new(big.Float).SetPrec(prec).Abs(x)

	whole, _ := abs.Int(nil)
	frac := new(big.Float).SetPrec(prec).Sub(abs, new(big.Float).SetPrec(prec).SetInt(whole))
	frac.SetMantExp(frac, FractionBits)
	fracInt, _ := frac.Int(nil)

	var n Number
	packWords(n[WholeWords:], fracInt)
	packWords(n[:WholeWords], whole)

	if negative {
		return Negate(n)
	}
	return n
}

// packWords stores the low len(dst)*32 bits of v into dst, most significant
// word first.
func packWords(dst []uint32, v *big.Int) {
	mask := new(big.Int).SetUint64(0xFFFFFFFF)
	rest := new(big.Int).Set(v)
	word := new(big.Int)
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = uint32(word.And(rest, mask).Uint64()) //nolint:gosec // masked to 32 bits
		rest.Rsh(rest, 32)
	}
}

// FromFloat64 converts a native float to a Number.
// It panics if v is NaN, as big.Float does.
func FromFloat64(v float64) Number {
	return FromBig(big.NewFloat(v))
}

// Big returns the exact value of n as a big.Float.
func Big(n Number) *big.Float {
	negative := IsNegative(n)
	mag := Abs(n)

	v := new(big.Int)
	for _, w := range mag {
		v.Lsh(v, 32)
		v.Or(v, new(big.Int).SetUint64(uint64(w)))
	}

	f := new(big.Float).SetPrec(BigPrecision).SetInt(v)
	f.SetMantExp(f, -FractionBits)
	if negative {
		f.Neg(f)
	}
	return f
}

// Float64 returns the nearest float64 to n.
func Float64(n Number) float64 {
	f, _ := Big(n).Float64()
	return f
}

// String formats n as a decimal with enough digits to identify it.
func (n Number) String() string {
	return Big(n).Text('g', 40)
}
