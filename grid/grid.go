// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package grid maps pixel coordinates onto the complex plane.
//
// A grid of width*height pixels is laid out row-major: the point for row i
// and column j is stored at index j + i*width. Columns span the real axis
// from ReStart to ReEnd and rows span the imaginary axis from ImStart to
// ImEnd. End bounds are exclusive: pixel index extent would land on End.
package grid

import (
	"errors"
	"fmt"

	"github.com/gogpu/mandel/fixed"
)

// Grid errors.
var (
	// ErrInvalidSize is returned when a grid dimension is not positive.
	ErrInvalidSize = errors.New("grid: width and height must be positive")

	// ErrInvalidBound is returned when a decimal bound cannot be parsed.
	ErrInvalidBound = errors.New("grid: invalid bound")
)

// Point is a point of the complex plane in native precision.
type Point struct {
	Re, Im float64
}

// FixedPoint is a point of the complex plane in extended precision.
type FixedPoint struct {
	Re, Im fixed.Number
}

// Bounds is a rectangle of the complex plane in native precision.
type Bounds struct {
	ReStart, ReEnd float64
	ImStart, ImEnd float64
}

// String implements fmt.Stringer.
func (b Bounds) String() string {
	return fmt.Sprintf("re[%g, %g] im[%g, %g]", b.ReStart, b.ReEnd, b.ImStart, b.ImEnd)
}

// MapValue maps pixel in [0, extent) linearly onto [start, end).
func MapValue(pixel, extent int, start, end float64) float64 {
	return float64(pixel)*(end-start)/float64(extent) + start
}

// Points returns the native-precision point set for a width*height grid.
func Points(width, height int, b Bounds) ([]Point, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	re := make([]float64, width)
	for j := range re {
		re[j] = MapValue(j, width, b.ReStart, b.ReEnd)
	}

	points := make([]Point, width*height)
	for i := range height {
		im := MapValue(i, height, b.ImStart, b.ImEnd)
		row := points[i*width : (i+1)*width]
		for j := range row {
			row[j] = Point{Re: re[j], Im: im}
		}
	}
	return points, nil
}
