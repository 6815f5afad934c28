// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package escape implements the escape-time test for z <- z^2 + c.
//
// The orbit of c starts at z = 0. Each step updates
//
//	y = 2*x*y + Im(c)
//	x = x^2 - y^2 + Re(c)
//
// reusing the squares from the previous step, and the orbit escapes at
// step i when x^2 + y^2 > 4. The result is the 0-based escape step, or
// NotEscaped when the budget runs out first. A point with |c| > 2 escapes at
// step 0 and the origin never escapes.
package escape

import (
	"fmt"

	"github.com/gogpu/mandel/fixed"
	"github.com/gogpu/mandel/grid"
)

// NotEscaped is the iteration value of a point whose orbit stayed bounded
// for the whole budget. Such points are treated as members of the set.
const NotEscaped int32 = -1

// Precision selects the number representation of an evaluator.
type Precision uint8

const (
	// PrecisionNative evaluates in float64.
	PrecisionNative Precision = iota

	// PrecisionExtended evaluates in fixed.Number.
	PrecisionExtended
)

// String implements fmt.Stringer.
func (p Precision) String() string {
	switch p {
	case PrecisionNative:
		return "native"
	case PrecisionExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// ParsePrecision returns the Precision named by Precision.String.
func ParsePrecision(name string) (Precision, error) {
	switch name {
	case "native":
		return PrecisionNative, nil
	case "extended":
		return PrecisionExtended, nil
	}
	return PrecisionNative, fmt.Errorf("escape: unknown precision %q", name)
}

// Native returns the escape step of c in float64 arithmetic.
func Native(c grid.Point, maxIter int) int32 {
	var x, y, x2, y2 float64
	for i := range maxIter {
		y = (x+x)*y + c.Im
		x = x2 - y2 + c.Re
		x2 = x * x
		y2 = y * y
		if x2+y2 > 4 {
			return int32(i) //nolint:gosec // budget fits int32
		}
	}
	return NotEscaped
}

// Fixed returns the escape step of c in fixed-point arithmetic.
func Fixed(c grid.FixedPoint, maxIter int) int32 {
	var x, y, x2, y2 fixed.Number
	for i := range maxIter {
		y = fixed.Add(fixed.Mul(fixed.Double(x), y), c.Im)
		x = fixed.Add(fixed.Sub(x2, y2), c.Re)
		x2 = fixed.Square(x)
		y2 = fixed.Square(y)
		if fixed.GreaterThan(fixed.Add(x2, y2), fixed.Four) {
			return int32(i) //nolint:gosec // budget fits int32
		}
	}
	return NotEscaped
}
