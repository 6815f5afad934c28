// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu runs the escape-time iteration as a compute kernel through
// gogpu/wgpu's HAL layer.
//
// The kernel works on extended-precision points only. WGSL has no portable
// 64-bit float, so the device evaluates the same 128-bit fixed-point
// recurrence as package escape, word for word, and its results are
// bit-identical to the host evaluator.
//
// # Lifecycle
//
//	k, err := gpu.NewKernel(gpu.Config{Adapter: "NVIDIA"})
//	if err != nil {
//	    // errors.Is(err, gpu.ErrBackendUnavailable) etc.
//	}
//	defer k.Close()
//	iters, err := k.Run(points, maxIter)
//
// NewKernel selects the first adapter whose name contains Config.Adapter,
// opens a device, compiles the WGSL source to SPIR-V with naga and builds the
// compute pipeline. Run packs the points into a storage buffer, dispatches
// the kernel in batches, waits on a fence and reads the results back.
// A Kernel can also borrow a device owned by the host application through
// NewKernelWithProvider.
package gpu
