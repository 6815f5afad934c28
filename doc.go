// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mandel renders escape-time images of the Mandelbrot set.
//
// # Overview
//
// A render maps a width x height pixel grid onto a rectangle of the complex
// plane, iterates z = z*z + c for every point until |z| exceeds 2 or the
// iteration budget runs out, colors the resulting iteration field with a
// palette and writes it as an image file.
//
// # Quick Start
//
//	import "github.com/gogpu/mandel"
//
//	cfg, err := mandel.NewConfig(
//	    mandel.WithRegion("seahorse-valley"),
//	    mandel.WithSize(1920, 1080),
//	    mandel.WithMaxIter(1000),
//	    mandel.WithOutput("seahorse.png"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := mandel.Render(context.Background(), cfg)
//
// # Precision
//
// Native precision iterates in float64. Extended precision iterates in
// 128-bit fixed point (32 integer and 96 fractional bits) and maps the grid
// from decimal bounds without rounding them through float64, which keeps
// deep zooms sharp long after float64 runs out of bits.
//
// # Strategies
//
// StrategyLocal evaluates points on a worker pool. StrategyOffload
// evaluates extended-precision points on a GPU through gogpu/wgpu.
// StrategyAuto tries the GPU and falls back to the worker pool when no
// device is usable. Every strategy produces the same iteration field.
//
// # Architecture
//
// The pipeline is organized into:
//   - fixed: fixed-point arithmetic
//   - grid: pixel to plane mapping
//   - escape: the per-point escape test
//   - dispatch: local, GPU and fallback execution
//   - palette: iteration field to colors
//   - internal/image: file output
package mandel
