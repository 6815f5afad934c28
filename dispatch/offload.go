// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/internal/gpu"
)

// InstanceFactory creates HAL instances. Every hal.Backend satisfies it.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// OffloadConfig selects and configures the compute device.
type OffloadConfig struct {
	// Adapter is a case-sensitive substring of the adapter name. The first
	// adapter whose name contains it is used.
	Adapter string

	// WorkgroupSize is the kernel work-group size. Zero selects 64.
	WorkgroupSize int

	// Timeout bounds the wait for one batch. Zero selects one hour.
	Timeout time.Duration

	// Provider, when set, supplies a device owned by the host application
	// and Adapter is ignored. It must also expose HalDevice() any and
	// HalQueue() any.
	Provider gpucontext.DeviceProvider

	// Factory creates the HAL instance when Provider is nil. Nil selects
	// the Vulkan backend.
	Factory InstanceFactory
}

// Offload evaluates extended-precision points on a GPU.
//
// The device kernel implements the fixed-point recurrence of escape.Fixed
// bit for bit. Native-precision point sets are rejected with
// ErrUnsupportedPrecision.
type Offload struct {
	kernel *gpu.Kernel
}

var _ Dispatcher = (*Offload)(nil)

// NewOffload opens the compute device and builds the escape kernel.
// It returns an error wrapping ErrBackendUnavailable or ErrBackendBuild.
func NewOffload(cfg OffloadConfig) (*Offload, error) {
	gcfg := gpu.Config{
		Adapter:       cfg.Adapter,
		WorkgroupSize: cfg.WorkgroupSize,
		Timeout:       cfg.Timeout,
	}
	if cfg.Factory != nil {
		gcfg.Factory = cfg.Factory
	}

	var (
		k   *gpu.Kernel
		err error
	)
	if cfg.Provider != nil {
		k, err = gpu.NewKernelWithProvider(cfg.Provider, gcfg)
	} else {
		k, err = gpu.NewKernel(gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("dispatch: offload: %w", err)
	}
	return &Offload{kernel: k}, nil
}

// Adapter returns the name of the device in use.
func (o *Offload) Adapter() string {
	return o.kernel.Adapter()
}

// WorkgroupSize returns the kernel work-group size.
func (o *Offload) WorkgroupSize() int {
	return o.kernel.WorkgroupSize()
}

// Dispatch implements Dispatcher. The call blocks until the device has
// finished; ctx is only checked before submission.
func (o *Offload) Dispatch(ctx context.Context, e escape.Evaluator, maxIter int) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dispatch: offload: %w", err)
	}
	points, ok := e.(escape.FixedSet)
	if !ok {
		return nil, fmt.Errorf("%w: offload needs %s points, got %s",
			ErrUnsupportedPrecision, escape.PrecisionExtended, e.Precision())
	}
	out, err := o.kernel.Run(points, maxIter)
	if err != nil {
		return nil, fmt.Errorf("dispatch: offload: %w", err)
	}
	return out, nil
}

// Close releases the device. Close is safe to call multiple times.
func (o *Offload) Close() {
	o.kernel.Close()
}
