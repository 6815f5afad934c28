// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package palette turns an iteration field into colors.
//
// Every palette is built on a cyclic ramp: anchor colors spaced evenly over
// a cycle of CycleLength values, interpolated linearly per channel. The
// kinds differ in the value they feed the ramp:
//
//   - Cyclic feeds the escape step itself.
//   - Histogram feeds the share of points that escaped earlier, so every
//     iteration band gets color bandwidth in proportion to its population.
//   - Exponential feeds (step/maxIter)^Exponent scaled to the cycle.
//   - Grayscale is Cyclic over a black, white, black ramp.
//
// Points that never escaped are always black.
//
// Example:
//
//	m, err := palette.New(palette.Histogram, palette.DefaultSpec(), 700)
//	if err != nil {
//	    return err
//	}
//	colors := m.Paint(field)
package palette

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// ErrInvalidPalette is returned by New for a palette that cannot color
// every escape step.
var ErrInvalidPalette = errors.New("palette: invalid palette")

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

// Black is the color of points that never escaped.
var Black = Color{}

// Kind selects how escape steps are fed to the ramp.
type Kind int

const (
	// Cyclic colors each escape step directly.
	Cyclic Kind = iota

	// Histogram equalizes color bandwidth across iteration bands.
	Histogram

	// Exponential compresses color transitions toward low escape steps.
	Exponential

	// Grayscale is Cyclic over a fixed black, white, black ramp.
	Grayscale
)

var kindNames = [...]string{
	Cyclic:      "cyclic",
	Histogram:   "histogram",
	Exponential: "exponential",
	Grayscale:   "grayscale",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind with the given name, ignoring case.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(name, n) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidPalette, name)
}

// Defaults used by DefaultSpec and for zero Spec fields.
const (
	DefaultCycleLength = 150
	DefaultHueScale    = 1.175
	DefaultExponent    = 2.0
)

// Spec describes the ramp and the tuning of the derived kinds.
type Spec struct {
	// Anchors are the ramp colors, at least two. The ramp runs from the
	// first to the last anchor over one cycle, so a cycle that should wrap
	// smoothly repeats the first anchor at the end.
	Anchors []Color

	// CycleLength is the number of values in one cycle of the ramp.
	CycleLength int

	// HueScale multiplies the histogram share before it is fed to the
	// ramp. Zero selects DefaultHueScale.
	HueScale float64

	// Exponent is the power of the Exponential kind. Zero selects
	// DefaultExponent.
	Exponent float64
}

// DefaultSpec returns the deep blue ramp the renderer uses by default.
func DefaultSpec() Spec {
	return Spec{
		Anchors:     []Color{{7, 6, 38}, {140, 143, 213}, {7, 6, 38}},
		CycleLength: DefaultCycleLength,
	}
}

// VioletSpec returns the deep blue to violet ramp.
func VioletSpec() Spec {
	return Spec{
		Anchors:     []Color{{7, 6, 38}, {240, 43, 213}, {7, 6, 38}},
		CycleLength: DefaultCycleLength,
	}
}

// grayAnchors is the fixed ramp of the Grayscale kind.
var grayAnchors = []Color{{0, 0, 0}, {255, 255, 255}, {0, 0, 0}}

// Mapper colors an iteration field. Paint returns one color per element of
// field, in the same order, and never modifies field.
type Mapper interface {
	Kind() Kind
	Paint(field []int32) []Color
}

// Option configures a Mapper.
type Option func(*options)

type options struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers sets the number of goroutines Paint uses. Zero or negative
// selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger for paint diagnostics. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// debug logs to the configured logger, if any.
func (o options) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

// New validates spec and returns the Mapper for kind. maxIter is the
// iteration budget the field was computed with.
func New(kind Kind, spec Spec, maxIter int, opts ...Option) (Mapper, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if kind == Grayscale {
		spec.Anchors = grayAnchors
	}
	if err := spec.validate(kind, maxIter); err != nil {
		return nil, err
	}

	r := newRamp(spec.Anchors, spec.CycleLength)
	switch kind {
	case Cyclic, Grayscale:
		return &cyclicMapper{kind: kind, ramp: r, opts: o}, nil
	case Histogram:
		scale := spec.HueScale
		if scale == 0 {
			scale = DefaultHueScale
		}
		return &histogramMapper{ramp: r, maxIter: maxIter, scale: scale, opts: o}, nil
	case Exponential:
		exp := spec.Exponent
		if exp == 0 {
			exp = DefaultExponent
		}
		return &exponentialMapper{ramp: r, maxIter: maxIter, exponent: exp, opts: o}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidPalette, kind)
}

// Validate reports whether spec can color a field for the given kind and
// budget. It performs the same checks as New.
func (s Spec) Validate(kind Kind, maxIter int) error {
	if kind == Grayscale {
		s.Anchors = grayAnchors
	}
	return s.validate(kind, maxIter)
}

func (s Spec) validate(kind Kind, maxIter int) error {
	switch {
	case kind < Cyclic || kind > Grayscale:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidPalette, kind)
	case len(s.Anchors) < 2:
		return fmt.Errorf("%w: %d anchors, need at least 2", ErrInvalidPalette, len(s.Anchors))
	case s.CycleLength < 1:
		return fmt.Errorf("%w: cycle length %d, need at least 1", ErrInvalidPalette, s.CycleLength)
	case maxIter < 1:
		return fmt.Errorf("%w: iteration budget %d, need at least 1", ErrInvalidPalette, maxIter)
	case s.HueScale < 0 || math.IsNaN(s.HueScale) || math.IsInf(s.HueScale, 0):
		return fmt.Errorf("%w: hue scale %v", ErrInvalidPalette, s.HueScale)
	case s.Exponent < 0 || math.IsNaN(s.Exponent) || math.IsInf(s.Exponent, 0):
		return fmt.Errorf("%w: exponent %v", ErrInvalidPalette, s.Exponent)
	}
	return nil
}
