// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/mandel/fixed"
	"github.com/gogpu/mandel/grid"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultWorkgroupSize = 64
	DefaultTimeout       = time.Hour

	// MaxWorkgroupSize is the largest work-group size accepted. It matches
	// the WebGPU minimum for maxComputeInvocationsPerWorkgroup.
	MaxWorkgroupSize = 256

	// maxBatchPoints bounds the points per submission so the input buffer
	// (32 bytes per point) stays within common storage binding limits.
	maxBatchPoints = 1 << 20

	// maxGroupsPerDim is the WebGPU limit on workgroups per dispatch
	// dimension.
	maxGroupsPerDim = 65535
)

// Config describes how a Kernel selects its device and launches work.
type Config struct {
	// Adapter is matched case-sensitively as a substring of the adapter
	// name. The first matching adapter is used; "" matches any adapter.
	Adapter string

	// WorkgroupSize is the number of invocations per work-group.
	WorkgroupSize int

	// Timeout bounds the fence wait of one batch. The HAL requires a
	// finite bound; the default is long enough to act as "wait forever"
	// for any realistic render.
	Timeout time.Duration

	// Factory creates the HAL instance. Nil selects the Vulkan backend.
	Factory InstanceFactory
}

func (c Config) withDefaults() (Config, error) {
	if c.WorkgroupSize == 0 {
		c.WorkgroupSize = DefaultWorkgroupSize
	}
	if c.WorkgroupSize < 1 || c.WorkgroupSize > MaxWorkgroupSize {
		return c, fmt.Errorf("%w: workgroup size %d outside [1, %d]", ErrBackendBuild, c.WorkgroupSize, MaxWorkgroupSize)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c, nil
}

// Buffer layout shared with kernels/escape_fixed.wgsl.
const (
	pointBytes  = 2 * fixed.Words * 4
	resultBytes = 4
	paramsBytes = 16
)

// packPoints encodes points as consecutive little-endian u32 words:
// the real part's words most significant first, then the imaginary part's.
func packPoints(points []grid.FixedPoint) []byte {
	buf := make([]byte, len(points)*pointBytes)
	off := 0
	for _, p := range points {
		for _, w := range p.Re {
			binary.LittleEndian.PutUint32(buf[off:], w)
			off += 4
		}
		for _, w := range p.Im {
			binary.LittleEndian.PutUint32(buf[off:], w)
			off += 4
		}
	}
	return buf
}

// unpackResults decodes little-endian i32 iteration counts into dst.
func unpackResults(dst []int32, src []byte) {
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(src[i*resultBytes:])) //nolint:gosec // two's complement reinterpretation
	}
}

// dispatchSize splits n invocations into a 2D grid of work-groups that
// respects the per-dimension limit. rowStride is the number of invocations
// per grid row and is passed to the kernel to rebuild the linear index.
func dispatchSize(n, workgroupSize int) (groupsX, groupsY, rowStride uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups == 0 {
		return 0, 0, 0
	}
	gx := min(groups, maxGroupsPerDim)
	gy := (groups + gx - 1) / gx
	return uint32(gx), uint32(gy), uint32(gx * workgroupSize) //nolint:gosec // bounded by maxBatchPoints
}

// makeParams encodes the kernel's uniform block.
func makeParams(count, maxIter int, rowStride uint32) []byte {
	buf := make([]byte, paramsBytes)
	binary.LittleEndian.PutUint32(buf[0:], uint32(count))   //nolint:gosec // bounded by maxBatchPoints
	binary.LittleEndian.PutUint32(buf[4:], uint32(maxIter)) //nolint:gosec // validated by caller
	binary.LittleEndian.PutUint32(buf[8:], rowStride)
	return buf
}
