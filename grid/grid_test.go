// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package grid

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/gogpu/mandel/fixed"
)

func TestMapValue(t *testing.T) {
	tests := []struct {
		name       string
		pixel      int
		extent     int
		start, end float64
		want       float64
	}{
		{"first pixel is start", 0, 900, -2, 1, -2},
		{"midpoint", 450, 900, -2, 1, -0.5},
		{"extent lands on end", 3, 3, -2, 1, 1},
		{"reversed range", 1, 4, 1, -1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapValue(tt.pixel, tt.extent, tt.start, tt.end); got != tt.want {
				t.Errorf("MapValue(%d, %d, %v, %v) = %v, want %v",
					tt.pixel, tt.extent, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestPointsLayout(t *testing.T) {
	b := Bounds{ReStart: -2, ReEnd: 1, ImStart: -1, ImEnd: 1}
	points, err := Points(3, 2, b)
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("len = %d, want 6", len(points))
	}
	for i := range 2 {
		for j := range 3 {
			p := points[j+i*3]
			if want := MapValue(j, 3, -2, 1); p.Re != want {
				t.Errorf("points[%d].Re = %v, want %v", j+i*3, p.Re, want)
			}
			if want := MapValue(i, 2, -1, 1); p.Im != want {
				t.Errorf("points[%d].Im = %v, want %v", j+i*3, p.Im, want)
			}
		}
	}
}

func TestPointsInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {-3, 4}} {
		if _, err := Points(size[0], size[1], Bounds{}); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Points(%d, %d) error = %v, want ErrInvalidSize", size[0], size[1], err)
		}
		if _, err := FixedPoints(size[0], size[1], BoundsText{"0", "1", "0", "1"}); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("FixedPoints(%d, %d) error = %v, want ErrInvalidSize", size[0], size[1], err)
		}
	}
}

func TestFixedPointsMatchNative(t *testing.T) {
	b := Bounds{ReStart: -2, ReEnd: 1, ImStart: -1, ImEnd: 1}
	native, err := Points(7, 5, b)
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	ext, err := FixedPoints(7, 5, TextBounds(b))
	if err != nil {
		t.Fatalf("FixedPoints: %v", err)
	}
	for k := range native {
		if d := math.Abs(fixed.Float64(ext[k].Re) - native[k].Re); d > 1e-15 {
			t.Errorf("point %d: Re differs by %g", k, d)
		}
		if d := math.Abs(fixed.Float64(ext[k].Im) - native[k].Im); d > 1e-15 {
			t.Errorf("point %d: Im differs by %g", k, d)
		}
	}
}

func TestFixedPointsDeepZoom(t *testing.T) {
	// Adjacent pixels of a region narrower than float64 can resolve must
	// still map to distinct, monotonic coordinates.
	bt := BoundsText{
		ReStart: "-0.153004885037500013708",
		ReEnd:   "-0.1530048850375000137081",
		ImStart: "1.0396113703",
		ImEnd:   "1.0396113704",
	}
	points, err := FixedPoints(4, 1, bt)
	if err != nil {
		t.Fatalf("FixedPoints: %v", err)
	}
	for j := 1; j < len(points); j++ {
		if !fixed.GreaterThan(points[j-1].Re, points[j].Re) {
			t.Errorf("Re[%d] = %s not greater than Re[%d] = %s", j-1, points[j-1].Re, j, points[j].Re)
		}
	}
}

func TestFixedPointsTruncation(t *testing.T) {
	points, err := FixedPoints(1, 1, BoundsText{"-1.25", "0", "0.5", "1"})
	if err != nil {
		t.Fatalf("FixedPoints: %v", err)
	}
	if want := fixed.FromBig(big.NewFloat(-1.25)); points[0].Re != want {
		t.Errorf("Re = %x, want %x", points[0].Re, want)
	}
	if want := (fixed.Number{0, 0x80000000, 0, 0}); points[0].Im != want {
		t.Errorf("Im = %x, want %x", points[0].Im, want)
	}
}

func TestParseBoundsInvalid(t *testing.T) {
	tests := []BoundsText{
		{"x", "1", "0", "1"},
		{"0", "", "0", "1"},
		{"0", "1", "Inf", "1"},
	}
	for _, bt := range tests {
		if _, err := bt.Parse(); !errors.Is(err, ErrInvalidBound) {
			t.Errorf("Parse(%+v) error = %v, want ErrInvalidBound", bt, err)
		}
	}
}

func TestBigBoundsNative(t *testing.T) {
	bb, err := BoundsText{"-2", "1", "-1", "1"}.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Bounds{ReStart: -2, ReEnd: 1, ImStart: -1, ImEnd: 1}
	if got := bb.Native(); got != want {
		t.Errorf("Native() = %v, want %v", got, want)
	}
}
