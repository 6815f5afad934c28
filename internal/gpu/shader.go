// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga"

	"github.com/gogpu/mandel/internal/cache"
)

//go:embed kernels/escape_fixed.wgsl
var escapeFixedWGSL string

// workgroupPlaceholder is substituted with the configured work-group size
// before compilation.
const workgroupPlaceholder = "WORKGROUP_SIZE"

// spirvCache holds compiled kernels by work-group size, so repeated renders
// skip WGSL compilation.
var spirvCache = cache.New[int, []uint32](8)

// kernelSPIRV returns the compiled escape kernel for the given work-group
// size. The returned slice is shared and must not be modified.
func kernelSPIRV(workgroupSize int) ([]uint32, error) {
	return spirvCache.GetOrCreate(workgroupSize, func() ([]uint32, error) {
		return compileSPIRV(kernelSource(workgroupSize))
	})
}

// kernelSource returns the escape kernel WGSL for the given work-group size.
func kernelSource(workgroupSize int) string {
	return strings.ReplaceAll(escapeFixedWGSL, workgroupPlaceholder, strconv.Itoa(workgroupSize))
}

// compileSPIRV compiles WGSL source to SPIR-V words.
// SPIR-V is a stream of little-endian 32-bit words.
func compileSPIRV(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: compile WGSL: %w", ErrBackendBuild, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d is not word aligned", ErrBackendBuild, len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
