// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package palette

// ramp is a cyclic piecewise-linear color ramp with anchors spaced evenly
// over length values.
type ramp struct {
	anchors []Color
	length  int
	step    float64
}

func newRamp(anchors []Color, length int) ramp {
	return ramp{
		anchors: anchors,
		length:  length,
		step:    float64(length) / float64(len(anchors)-1),
	}
}

// at returns the color of value v. Values wrap every length, so at(v) and
// at(v+length) are equal.
func (r ramp) at(v int) Color {
	adj := v % r.length
	if adj < 0 {
		adj += r.length
	}
	val := float64(adj)

	for i := 1; i < len(r.anchors); i++ {
		if r.step*float64(i) > val {
			ratio := (val - r.step*float64(i-1)) / r.step
			return lerp(r.anchors[i-1], r.anchors[i], ratio)
		}
	}
	// step*(n-1) rounded below val; only reachable through float error.
	return r.anchors[len(r.anchors)-1]
}

// lerp interpolates each channel from a to b, truncating toward zero.
func lerp(a, b Color, t float64) Color {
	return Color{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := int(float64(a) + float64(int(b)-int(a))*t)
	return uint8(min(max(v, 0), 255)) //nolint:gosec // clamped to [0, 255]
}
