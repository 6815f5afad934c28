// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package grid

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/gogpu/mandel/fixed"
)

// BigPrecision is the mantissa precision, in bits, of the intermediate
// decimal arithmetic used for extended-precision mapping. It exceeds the
// fixed-point resolution so that mapping adds no error of its own.
const BigPrecision = 256

// BoundsText is a rectangle of the complex plane given as decimal strings.
// Extended-precision bounds are carried as text so that they never pass
// through float64.
type BoundsText struct {
	ReStart, ReEnd string
	ImStart, ImEnd string
}

// TextBounds formats native bounds as the shortest decimals that round-trip.
func TextBounds(b Bounds) BoundsText {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return BoundsText{
		ReStart: f(b.ReStart), ReEnd: f(b.ReEnd),
		ImStart: f(b.ImStart), ImEnd: f(b.ImEnd),
	}
}

// BigBounds is a parsed BoundsText.
type BigBounds struct {
	ReStart, ReEnd *big.Float
	ImStart, ImEnd *big.Float
}

// Parse parses all four bounds.
func (t BoundsText) Parse() (BigBounds, error) {
	var bb BigBounds
	fields := []struct {
		name string
		text string
		dst  **big.Float
	}{
		{"re-start", t.ReStart, &bb.ReStart},
		{"re-end", t.ReEnd, &bb.ReEnd},
		{"im-start", t.ImStart, &bb.ImStart},
		{"im-end", t.ImEnd, &bb.ImEnd},
	}
	for _, f := range fields {
		v, _, err := big.ParseFloat(f.text, 10, BigPrecision, big.ToNearestEven)
		if err != nil {
			return BigBounds{}, fmt.Errorf("%w: %s %q: %w", ErrInvalidBound, f.name, f.text, err)
		}
		if v.IsInf() {
			return BigBounds{}, fmt.Errorf("%w: %s %q is infinite", ErrInvalidBound, f.name, f.text)
		}
		*f.dst = v
	}
	return bb, nil
}

// Native returns the bounds rounded to float64.
func (bb BigBounds) Native() Bounds {
	f := func(v *big.Float) float64 {
		x, _ := v.Float64()
		return x
	}
	return Bounds{
		ReStart: f(bb.ReStart), ReEnd: f(bb.ReEnd),
		ImStart: f(bb.ImStart), ImEnd: f(bb.ImEnd),
	}
}

// MapValueBig is MapValue evaluated in BigPrecision decimal arithmetic.
func MapValueBig(pixel, extent int, start, end *big.Float) *big.Float {
	v := new(big.Float).SetPrec(BigPrecision).Sub(end, start)
	v.Mul(v, new(big.Float).SetPrec(BigPrecision).SetInt64(int64(pixel)))
	v.Quo(v, new(big.Float).SetPrec(BigPrecision).SetInt64(int64(extent)))
	return v.Add(v, start)
}

// FixedPoints returns the extended-precision point set for a width*height
// grid. Each coordinate is mapped in BigPrecision arithmetic and then
// truncated to fixed.Number.
func FixedPoints(width, height int, t BoundsText) ([]FixedPoint, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	bb, err := t.Parse()
	if err != nil {
		return nil, err
	}

	re := make([]fixed.Number, width)
	for j := range re {
		re[j] = fixed.FromBig(MapValueBig(j, width, bb.ReStart, bb.ReEnd))
	}

	points := make([]FixedPoint, width*height)
	for i := range height {
		im := fixed.FromBig(MapValueBig(i, height, bb.ImStart, bb.ImEnd))
		row := points[i*width : (i+1)*width]
		for j := range row {
			row[j] = FixedPoint{Re: re[j], Im: im}
		}
	}
	return points, nil
}
