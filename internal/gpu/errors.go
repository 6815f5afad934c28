// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Backend errors. Every error returned by this package wraps exactly one of
// them, so callers can decide on a fallback with errors.Is.
var (
	// ErrBackendUnavailable is returned when no HAL backend or no adapter
	// matching the configured name is present, or the device cannot be opened.
	ErrBackendUnavailable = errors.New("gpu: compute backend unavailable")

	// ErrBackendBuild is returned when the kernel fails to compile or the
	// pipeline cannot be created.
	ErrBackendBuild = errors.New("gpu: kernel build failed")

	// ErrBackendExecution is returned when buffer allocation, submission,
	// the fence wait or readback fails.
	ErrBackendExecution = errors.New("gpu: kernel execution failed")
)
