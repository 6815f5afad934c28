// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package escape

import "github.com/gogpu/mandel/grid"

// Evaluator is a point set together with the escape test for its precision.
// Eval must be safe to call concurrently for distinct k.
type Evaluator interface {
	// Len returns the number of points.
	Len() int

	// Precision reports the number representation of the points.
	Precision() Precision

	// Eval returns the escape step of point k.
	Eval(k, maxIter int) int32
}

// NativeSet evaluates float64 points.
type NativeSet []grid.Point

var _ Evaluator = NativeSet(nil)

// Len implements Evaluator.
func (s NativeSet) Len() int { return len(s) }

// Precision implements Evaluator. It always returns PrecisionNative.
func (s NativeSet) Precision() Precision { return PrecisionNative }

// Eval implements Evaluator with Native.
func (s NativeSet) Eval(k, maxIter int) int32 { return Native(s[k], maxIter) }

// FixedSet evaluates fixed-point points.
type FixedSet []grid.FixedPoint

var _ Evaluator = FixedSet(nil)

// Len implements Evaluator.
func (s FixedSet) Len() int { return len(s) }

// Precision implements Evaluator. It always returns PrecisionExtended.
func (s FixedSet) Precision() Precision { return PrecisionExtended }

// Eval implements Evaluator with Fixed.
func (s FixedSet) Eval(k, maxIter int) int32 { return Fixed(s[k], maxIter) }

// Run evaluates every point of e sequentially into a new iteration field.
// It is the reference against which parallel dispatchers are checked.
func Run(e Evaluator, maxIter int) []int32 {
	out := make([]int32, e.Len())
	RunRange(e, maxIter, out, 0, len(out))
	return out
}

// RunRange evaluates points [start, end) of e into out[start:end].
func RunRange(e Evaluator, maxIter int, out []int32, start, end int) {
	for k := start; k < end; k++ {
		out[k] = e.Eval(k, maxIter)
	}
}
