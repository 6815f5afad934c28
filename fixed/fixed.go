// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fixed implements signed fixed-point numbers wide enough for deep
// zooms into the complex plane.
//
// A Number is a fixed array of 32-bit words in two's complement, most
// significant word first. The leading WholeWords words hold the sign bit and
// the integer part; the trailing FractionWords words hold the fraction. With
// the default layout a Number has 32 integer bits (including sign) and 96
// fractional bits.
//
// All arithmetic wraps silently on overflow and truncates on multiplication.
// No operation in this package reports an error; callers that need range
// checks must perform them on the inputs.
package fixed

// Word layout. Changing WholeWords or FractionWords changes the precision of
// every Number and of the GPU kernel, which is generated from these values.
const (
	// WholeWords is the number of words holding the sign and integer part.
	WholeWords = 1

	// FractionWords is the number of words holding the fraction.
	FractionWords = 3

	// Words is the total number of words in a Number.
	Words = WholeWords + FractionWords

	// FractionBits is the fractional resolution in bits.
	FractionBits = FractionWords * 32
)

// Number is a signed fixed-point value, most significant word first.
type Number [Words]uint32

// Common constants.
var (
	// Zero is the additive identity.
	Zero = Number{}

	// One is the smallest positive value (one unit in the last place).
	One = Number{Words - 1: 1}

	// Four is the squared escape radius.
	Four = FromInt(4)
)

const signMask = 1 << 31

// FromInt returns the Number with integer part v and a zero fraction.
// Values outside the representable integer range wrap.
func FromInt(v int64) Number {
	var n Number
	u := uint64(v) //nolint:gosec // two's complement reinterpretation is intended
	for i := WholeWords - 1; i >= 0; i-- {
		n[i] = uint32(u) //nolint:gosec // truncation to word
		u >>= 32
	}
	return n
}

// Add returns a+b. The sum is computed from the least significant word
// upward, carrying bit 32 of each word sum into the next word. Overflow out
// of the most significant word is discarded.
func Add(a, b Number) Number {
	var c Number
	var carry uint64
	for i := Words - 1; i >= 0; i-- {
		sum := uint64(a[i]) + uint64(b[i]) + carry
		c[i] = uint32(sum) //nolint:gosec // low word of the sum
		carry = sum >> 32
	}
	return c
}

// Increment returns a plus one unit in the last place.
func Increment(a Number) Number {
	return Add(a, One)
}

// Negate returns the two's complement negation of a.
// Negating the most negative value returns it unchanged.
func Negate(a Number) Number {
	for i := range a {
		a[i] = ^a[i]
	}
	return Increment(a)
}

// Sub returns a-b.
func Sub(a, b Number) Number {
	return Add(a, Negate(b))
}

// IsNegative reports whether the sign bit of a is set.
func IsNegative(a Number) bool {
	return a[0]&signMask != 0
}

// Sign returns -1, 0 or +1 depending on the sign of a.
func Sign(a Number) int {
	switch {
	case IsNegative(a):
		return -1
	case a == Zero:
		return 0
	default:
		return 1
	}
}

// GreaterThan reports whether a > b.
// Operands of different sign are ordered by their sign bits alone, so the
// comparison is exact even where b-a would overflow.
func GreaterThan(a, b Number) bool {
	na, nb := IsNegative(a), IsNegative(b)
	if na != nb {
		return nb
	}
	return IsNegative(Sub(b, a))
}

// GreaterOrEqual reports whether a >= b.
func GreaterOrEqual(a, b Number) bool {
	na, nb := IsNegative(a), IsNegative(b)
	if na != nb {
		return nb
	}
	return !IsNegative(Sub(a, b))
}

// Abs returns the absolute value of a.
func Abs(a Number) Number {
	if IsNegative(a) {
		return Negate(a)
	}
	return a
}

// mulWindow is the index of the first product word kept by Mul.
// The full product has 2*WholeWords integer words; the leading
// WholeWords-1 of them always overflow the result.
const mulWindow = 2*WholeWords - 1

// Mul returns the signed product a*b.
//
// The magnitudes are multiplied schoolbook style into a double-width
// accumulator of 32x32->64 bit partial products, carries are propagated, and
// the Words words aligned with the integer and fraction range are kept. Low
// order bits beyond the fraction are truncated, not rounded, and integer
// overflow wraps.
func Mul(a, b Number) Number {
	negative := IsNegative(a) != IsNegative(b)
	a, b = Abs(a), Abs(b)

	var acc [2 * Words]uint64
	for i := Words - 1; i >= 0; i-- {
		for j := Words - 1; j >= 0; j-- {
			p := uint64(a[i]) * uint64(b[j])
			acc[i+j+1] += p & 0xFFFFFFFF
			acc[i+j] += p >> 32
		}
	}
	for i := 2*Words - 1; i > 0; i-- {
		acc[i-1] += acc[i] >> 32
		acc[i] &= 0xFFFFFFFF
	}

	var c Number
	for i := range c {
		c[i] = uint32(acc[mulWindow+i]) //nolint:gosec // carries already folded
	}
	if negative {
		return Negate(c)
	}
	return c
}

// Square returns a*a.
func Square(a Number) Number {
	return Mul(a, a)
}

// Double returns a+a.
func Double(a Number) Number {
	return Add(a, a)
}
