// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mandel

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/grid"
	"github.com/gogpu/mandel/internal/gpu"
	"github.com/gogpu/mandel/internal/image"
	"github.com/gogpu/mandel/palette"
)

// Strategy selects where escape steps are computed.
type Strategy int

const (
	// StrategyAuto tries the GPU and falls back to the local worker pool
	// when no device can be used or the GPU rejects the point set.
	StrategyAuto Strategy = iota

	// StrategyLocal evaluates on the local worker pool.
	StrategyLocal

	// StrategyOffload evaluates on the GPU and fails if it cannot.
	StrategyOffload
)

// String returns "auto", "local" or "offload".
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyLocal:
		return "local"
	case StrategyOffload:
		return "offload"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the Strategy named by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{StrategyAuto, StrategyLocal, StrategyOffload} {
		if s.String() == name {
			return s, nil
		}
	}
	return StrategyAuto, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
}

// Output formats and row orientations accepted by WithFormat and
// WithOrientation.
type (
	Format      = image.Format
	Orientation = image.Orientation
)

const (
	FormatAuto = image.FormatAuto
	FormatPNG  = image.FormatPNG
	FormatJPEG = image.FormatJPEG
	FormatTIFF = image.FormatTIFF
	FormatBMP  = image.FormatBMP

	BottomUp = image.BottomUp
	TopDown  = image.TopDown
)

// Defaults applied by NewConfig.
const (
	DefaultWidth   = 900
	DefaultHeight  = 600
	DefaultMaxIter = 700
	DefaultOutput  = "./mandelbrot_set.png"
)

// Config is an immutable render configuration. Build it with NewConfig.
type Config struct {
	bounds      grid.BoundsText
	bigBounds   grid.BigBounds
	width       int
	height      int
	maxIter     int
	precision   escape.Precision
	paletteKind palette.Kind
	paletteSpec palette.Spec

	strategy      Strategy
	workers       int
	adapter       string
	workgroupSize int
	gpuTimeout    time.Duration
	provider      gpucontext.DeviceProvider

	output      string
	format      Format
	orientation Orientation
	caption     bool
}

// Option configures a Config.
type Option func(*configOptions)

// configOptions holds the values collected from Options before validation.
type configOptions struct {
	cfg Config
	err error
}

// defaultOptions returns the default configuration: the deep zoom region
// at 900x600 with a budget of 700, extended precision, the cyclic deep
// blue palette, written to ./mandelbrot_set.png.
func defaultOptions() configOptions {
	return configOptions{cfg: Config{
		bounds:      DeepZoom,
		width:       DefaultWidth,
		height:      DefaultHeight,
		maxIter:     DefaultMaxIter,
		precision:   escape.PrecisionExtended,
		paletteKind: palette.Cyclic,
		paletteSpec: palette.DefaultSpec(),
		strategy:    StrategyAuto,
		output:      DefaultOutput,
		orientation: BottomUp,
	}}
}

// WithBounds sets the plane rectangle from float64 bounds.
func WithBounds(b grid.Bounds) Option {
	return func(o *configOptions) {
		o.cfg.bounds = grid.TextBounds(b)
	}
}

// WithBoundsText sets the plane rectangle from decimal strings. At
// extended precision the strings are mapped without passing through
// float64.
func WithBoundsText(t grid.BoundsText) Option {
	return func(o *configOptions) {
		o.cfg.bounds = t
	}
}

// WithRegion sets the plane rectangle to a named entry of Regions.
func WithRegion(name string) Option {
	return func(o *configOptions) {
		b, ok := Regions[name]
		if !ok {
			o.err = fmt.Errorf("%w: unknown region %q", ErrInvalidConfig, name)
			return
		}
		o.cfg.bounds = b
	}
}

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *configOptions) {
		o.cfg.width = width
		o.cfg.height = height
	}
}

// WithMaxIter sets the iteration budget.
func WithMaxIter(n int) Option {
	return func(o *configOptions) {
		o.cfg.maxIter = n
	}
}

// WithPrecision selects native (float64) or extended (fixed-point)
// iteration.
func WithPrecision(p escape.Precision) Option {
	return func(o *configOptions) {
		o.cfg.precision = p
	}
}

// WithPalette selects the palette kind and its ramp. The anchors are
// copied.
func WithPalette(kind palette.Kind, spec palette.Spec) Option {
	return func(o *configOptions) {
		spec.Anchors = slices.Clone(spec.Anchors)
		o.cfg.paletteKind = kind
		o.cfg.paletteSpec = spec
	}
}

// WithStrategy selects where escape steps are computed.
func WithStrategy(s Strategy) Option {
	return func(o *configOptions) {
		o.cfg.strategy = s
	}
}

// WithWorkers sets the worker pool size. Zero selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *configOptions) {
		o.cfg.workers = n
	}
}

// WithAdapter selects the first GPU adapter whose name contains substr.
// Matching is case-sensitive; "" matches any adapter.
func WithAdapter(substr string) Option {
	return func(o *configOptions) {
		o.cfg.adapter = substr
	}
}

// WithWorkgroupSize sets the GPU work-group size. Zero selects 64.
func WithWorkgroupSize(n int) Option {
	return func(o *configOptions) {
		o.cfg.workgroupSize = n
	}
}

// WithGPUTimeout bounds the wait for one GPU batch. Zero selects one hour.
func WithGPUTimeout(d time.Duration) Option {
	return func(o *configOptions) {
		o.cfg.gpuTimeout = d
	}
}

// WithDeviceProvider runs the GPU kernel on a device owned by the host
// application instead of opening one. The provider must also expose
// HalDevice() any and HalQueue() any returning wgpu/hal types.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *configOptions) {
		o.cfg.provider = p
	}
}

// WithOutput sets the output file path. An empty path skips writing.
func WithOutput(path string) Option {
	return func(o *configOptions) {
		o.cfg.output = path
	}
}

// WithFormat sets the output format. FormatAuto selects it from the
// output path extension.
func WithFormat(f Format) Option {
	return func(o *configOptions) {
		o.cfg.format = f
	}
}

// WithOrientation sets the row order of the output image.
func WithOrientation(or Orientation) Option {
	return func(o *configOptions) {
		o.cfg.orientation = or
	}
}

// WithCaption draws the bounds and budget in the image corner.
func WithCaption(on bool) Option {
	return func(o *configOptions) {
		o.cfg.caption = on
	}
}

// NewConfig applies opts over the defaults and validates the result.
// Errors wrap ErrInvalidConfig.
func NewConfig(opts ...Option) (*Config, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
		if o.err != nil {
			return nil, o.err
		}
	}
	cfg := o.cfg
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.width < 1 || c.height < 1 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.width, c.height)
	}
	if c.maxIter < 1 || c.maxIter > math.MaxInt32 {
		return fmt.Errorf("%w: iteration budget %d", ErrInvalidConfig, c.maxIter)
	}

	bb, err := c.bounds.Parse()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.bigBounds = bb

	if c.precision != escape.PrecisionNative && c.precision != escape.PrecisionExtended {
		return fmt.Errorf("%w: unknown precision %v", ErrInvalidConfig, c.precision)
	}
	if err := c.paletteSpec.Validate(c.paletteKind, c.maxIter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.strategy {
	case StrategyAuto, StrategyLocal, StrategyOffload:
	default:
		return fmt.Errorf("%w: unknown strategy %v", ErrInvalidConfig, c.strategy)
	}
	if c.workers < 0 {
		return fmt.Errorf("%w: %d workers", ErrInvalidConfig, c.workers)
	}
	if c.workgroupSize < 0 || c.workgroupSize > gpu.MaxWorkgroupSize {
		return fmt.Errorf("%w: workgroup size %d outside [1, %d]", ErrInvalidConfig, c.workgroupSize, gpu.MaxWorkgroupSize)
	}
	if c.gpuTimeout < 0 {
		return fmt.Errorf("%w: GPU timeout %v", ErrInvalidConfig, c.gpuTimeout)
	}

	if !c.format.IsValid() {
		return fmt.Errorf("%w: unknown format %v", ErrInvalidConfig, c.format)
	}
	if c.output != "" && c.format == FormatAuto {
		f, err := image.FormatFromPath(c.output)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.format = f
	}
	if c.orientation != BottomUp && c.orientation != TopDown {
		return fmt.Errorf("%w: unknown orientation %v", ErrInvalidConfig, c.orientation)
	}
	return nil
}

// Bounds returns the plane rectangle as decimal strings.
func (c *Config) Bounds() grid.BoundsText { return c.bounds }

// NativeBounds returns the plane rectangle rounded to float64.
func (c *Config) NativeBounds() grid.Bounds { return c.bigBounds.Native() }

// Size returns the image size in pixels.
func (c *Config) Size() (width, height int) { return c.width, c.height }

// MaxIter returns the iteration budget.
func (c *Config) MaxIter() int { return c.maxIter }

// Precision returns the iteration precision.
func (c *Config) Precision() escape.Precision { return c.precision }

// Palette returns the palette kind and a copy of its spec.
func (c *Config) Palette() (palette.Kind, palette.Spec) {
	spec := c.paletteSpec
	spec.Anchors = slices.Clone(spec.Anchors)
	return c.paletteKind, spec
}

// Strategy returns the evaluation strategy.
func (c *Config) Strategy() Strategy { return c.strategy }

// Output returns the output path and its resolved format.
func (c *Config) Output() (path string, format Format) { return c.output, c.format }

// Orientation returns the output row order.
func (c *Config) Orientation() Orientation { return c.orientation }
