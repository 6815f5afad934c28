// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dispatch runs the escape-time evaluator over a whole point set.
//
// A Dispatcher turns an escape.Evaluator into an iteration field whose
// element k always belongs to point k. Three strategies are provided:
//
//   - Local partitions the points into contiguous spans and evaluates them on
//     a work-stealing worker pool.
//   - Offload evaluates extended-precision points on a GPU compute device.
//   - Fallback tries one dispatcher and, on a backend failure, another.
//
// Every strategy produces the same field as escape.Run.
package dispatch

import (
	"context"
	"errors"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/internal/gpu"
)

// Dispatcher evaluates every point of an Evaluator.
type Dispatcher interface {
	// Dispatch returns the iteration field for e. The field has e.Len()
	// elements in point order.
	Dispatch(ctx context.Context, e escape.Evaluator, maxIter int) ([]int32, error)
}

// Backend errors. Offload returns them wrapped with detail; Fallback
// recovers from all of them.
var (
	// ErrBackendUnavailable is returned when no compute device matches the
	// requested adapter or the device cannot be opened.
	ErrBackendUnavailable = gpu.ErrBackendUnavailable

	// ErrBackendBuild is returned when the compute kernel cannot be built.
	ErrBackendBuild = gpu.ErrBackendBuild

	// ErrBackendExecution is returned when buffer setup, submission, the
	// fence wait or read-back fails.
	ErrBackendExecution = gpu.ErrBackendExecution

	// ErrUnsupportedPrecision is returned when a dispatcher cannot evaluate
	// the precision of the given point set.
	ErrUnsupportedPrecision = errors.New("dispatch: unsupported precision")
)

// IsBackendError reports whether err is one of the errors a Fallback
// recovers from.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, ErrBackendBuild) ||
		errors.Is(err, ErrBackendExecution) ||
		errors.Is(err, ErrUnsupportedPrecision)
}
