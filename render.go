// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mandel

import (
	"context"
	"fmt"
	stdimage "image"
	"log/slog"
	"time"

	"github.com/gogpu/mandel/dispatch"
	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/grid"
	"github.com/gogpu/mandel/internal/image"
	"github.com/gogpu/mandel/palette"
)

// Timings holds the wall time of each render stage.
type Timings struct {
	Mapping  time.Duration // pixel grid to plane points
	Escape   time.Duration // escape steps
	Coloring time.Duration // palette
	Image    time.Duration // encoding and writing the file
}

// Total returns the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Mapping + t.Escape + t.Coloring + t.Image
}

// Result is the outcome of one Render.
type Result struct {
	Width, Height int

	// Field holds the escape step of every point in row-major order, with
	// row 0 at the smallest imaginary part. Points that never escaped hold
	// escape.NotEscaped.
	Field []int32

	// Colors holds the palette color of every point, in Field order.
	Colors []palette.Color

	Timings Timings
}

// InSet returns the number of points that never escaped.
func (r *Result) InSet() int {
	n := 0
	for _, v := range r.Field {
		if v == escape.NotEscaped {
			n++
		}
	}
	return n
}

// Image returns the colors as an image with rows in orientation o.
func (r *Result) Image(o Orientation) (*stdimage.RGBA, error) {
	return image.Raster(r.Colors, r.Width, r.Height, o)
}

// Render computes, colors and, when an output path is set, writes the image
// described by cfg. Errors are wrapped with the failing stage name.
func Render(ctx context.Context, cfg *Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	log := Logger()
	res := &Result{Width: cfg.width, Height: cfg.height}

	start := time.Now()
	points, err := cfg.evaluator()
	if err != nil {
		return nil, fmt.Errorf("mandel: mapping: %w", err)
	}
	res.Timings.Mapping = time.Since(start)

	start = time.Now()
	d, release, err := cfg.dispatcher(log)
	if err != nil {
		return nil, fmt.Errorf("mandel: escape: %w", err)
	}
	res.Field, err = d.Dispatch(ctx, points, cfg.maxIter)
	release()
	if err != nil {
		return nil, fmt.Errorf("mandel: escape: %w", err)
	}
	res.Timings.Escape = time.Since(start)

	start = time.Now()
	m, err := palette.New(cfg.paletteKind, cfg.paletteSpec, cfg.maxIter,
		palette.WithWorkers(cfg.workers), palette.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("mandel: coloring: %w", err)
	}
	res.Colors = m.Paint(res.Field)
	res.Timings.Coloring = time.Since(start)

	if cfg.output != "" {
		start = time.Now()
		opts := image.Options{Format: cfg.format, Orientation: cfg.orientation}
		if cfg.caption {
			opts.Caption = cfg.captionLines()
		}
		if err := image.Save(cfg.output, res.Colors, cfg.width, cfg.height, opts); err != nil {
			return nil, fmt.Errorf("mandel: image: %w", err)
		}
		res.Timings.Image = time.Since(start)
	}

	log.Info("mandel: render complete",
		"size", fmt.Sprintf("%dx%d", cfg.width, cfg.height),
		"max_iter", cfg.maxIter,
		"precision", cfg.precision,
		"strategy", cfg.strategy,
		"mapping", res.Timings.Mapping,
		"escape", res.Timings.Escape,
		"coloring", res.Timings.Coloring,
		"image", res.Timings.Image)
	return res, nil
}

// evaluator maps the pixel grid onto the plane at the configured precision.
func (c *Config) evaluator() (escape.Evaluator, error) {
	if c.precision == escape.PrecisionNative {
		points, err := grid.Points(c.width, c.height, c.bigBounds.Native())
		if err != nil {
			return nil, err
		}
		return escape.NativeSet(points), nil
	}
	points, err := grid.FixedPoints(c.width, c.height, c.bounds)
	if err != nil {
		return nil, err
	}
	return escape.FixedSet(points), nil
}

// dispatcher builds the dispatcher for the configured strategy. release
// frees any device it opened and must be called once the dispatcher is no
// longer used.
func (c *Config) dispatcher(log *slog.Logger) (d dispatch.Dispatcher, release func(), err error) {
	local := dispatch.Local{Workers: c.workers, Logger: log}
	if c.strategy == StrategyLocal {
		return local, func() {}, nil
	}
	if c.strategy == StrategyAuto && c.precision != escape.PrecisionExtended {
		log.Debug("mandel: GPU kernel needs extended precision, using local workers")
		return local, func() {}, nil
	}

	off, err := dispatch.NewOffload(dispatch.OffloadConfig{
		Adapter:       c.adapter,
		WorkgroupSize: c.workgroupSize,
		Timeout:       c.gpuTimeout,
		Provider:      c.provider,
	})
	if err != nil {
		if c.strategy == StrategyAuto && dispatch.IsBackendError(err) {
			log.Warn("mandel: GPU unavailable, using local workers", "error", err)
			return local, func() {}, nil
		}
		return nil, nil, err
	}
	log.Info("mandel: GPU selected",
		"adapter", off.Adapter(),
		"workgroup", off.WorkgroupSize())

	if c.strategy == StrategyOffload {
		return off, off.Close, nil
	}
	return dispatch.Fallback{Primary: off, Secondary: local, Logger: log}, off.Close, nil
}

// captionLines describes the render for the image caption.
func (c *Config) captionLines() []string {
	return []string{
		fmt.Sprintf("re [%s, %s]", c.bounds.ReStart, c.bounds.ReEnd),
		fmt.Sprintf("im [%s, %s]", c.bounds.ImStart, c.bounds.ImEnd),
		fmt.Sprintf("%d iterations, %v precision", c.maxIter, c.precision),
	}
}

// IsBackendError reports whether err came from the GPU path: no usable
// device, a kernel that failed to build or run, or a point set the GPU
// cannot evaluate.
func IsBackendError(err error) bool {
	return dispatch.IsBackendError(err)
}
