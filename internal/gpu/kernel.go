// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandel/fixed"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// InstanceFactory creates HAL instances. Every hal.Backend satisfies it, as
// does the noop backend used in tests.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Kernel is a compiled escape-time compute pipeline bound to one device.
//
// Thread safety: Kernel is safe for concurrent use; Run calls are
// serialized.
type Kernel struct {
	mu  sync.Mutex
	cfg Config

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	adapter  string

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	externalDevice bool // true when using shared device (don't destroy on Close)

	// batchPoints overrides maxBatchPoints when positive.
	batchPoints int
}

// NewKernel opens a device on the first adapter matching cfg.Adapter and
// builds the escape pipeline on it.
func NewKernel(cfg Config) (*Kernel, error) {
	if err := checkLayout(); err != nil {
		return nil, err
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	factory := cfg.Factory
	if factory == nil {
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan backend not registered", ErrBackendUnavailable)
		}
		factory = backend
	}

	instance, err := factory.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrBackendUnavailable, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	names := make([]string, len(adapters))
	for i := range adapters {
		names[i] = adapters[i].Info.Name
	}
	idx, err := selectAdapter(names, cfg.Adapter)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	selected := &adapters[idx]

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device %q: %w", ErrBackendUnavailable, selected.Info.Name, err)
	}

	k := &Kernel{
		cfg:      cfg,
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		adapter:  selected.Info.Name,
	}
	if err := k.createPipeline(); err != nil {
		k.Close()
		return nil, err
	}

	slogger().Info("gpu: escape kernel ready",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"workgroup", cfg.WorkgroupSize)
	return k, nil
}

// NewKernelWithProvider builds the escape pipeline on a device owned by the
// host application. The provider must also expose HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. The device is not
// destroyed by Close.
func NewKernelWithProvider(provider gpucontext.DeviceProvider, cfg Config) (*Kernel, error) {
	if err := checkLayout(); err != nil {
		return nil, err
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrBackendUnavailable)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrBackendUnavailable)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrBackendUnavailable)
	}

	k := &Kernel{
		cfg:            cfg,
		device:         device,
		queue:          queue,
		adapter:        "shared",
		externalDevice: true,
	}
	if err := k.createPipeline(); err != nil {
		k.Close()
		return nil, err
	}
	slogger().Info("gpu: escape kernel ready on shared device", "workgroup", cfg.WorkgroupSize)
	return k, nil
}

// checkLayout rejects fixed-point layouts the WGSL kernel was not written for.
func checkLayout() error {
	if fixed.WholeWords != 1 || fixed.Words != 4 {
		return fmt.Errorf("%w: kernel supports 1.3 word fixed-point only, have %d.%d",
			ErrBackendBuild, fixed.WholeWords, fixed.FractionWords)
	}
	return nil
}

// selectAdapter returns the index of the first adapter name containing
// substr.
func selectAdapter(names []string, substr string) (int, error) {
	for i, name := range names {
		slogger().Debug("gpu: adapter", "index", i, "name", name)
	}
	for i, name := range names {
		if strings.Contains(name, substr) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no adapter name contains %q (%d adapters)",
		ErrBackendUnavailable, substr, len(names))
}

// Adapter returns the name of the adapter the kernel runs on.
func (k *Kernel) Adapter() string {
	return k.adapter
}

// WorkgroupSize returns the configured work-group size.
func (k *Kernel) WorkgroupSize() int {
	return k.cfg.WorkgroupSize
}

func (k *Kernel) createPipeline() error {
	spirv, err := kernelSPIRV(k.cfg.WorkgroupSize)
	if err != nil {
		return err
	}

	shader, err := k.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "escape_fixed",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("%w: create shader module: %w", ErrBackendBuild, err)
	}
	k.shader = shader

	bindLayout, err := k.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "escape_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create bind group layout: %w", ErrBackendBuild, err)
	}
	k.bindLayout = bindLayout

	pipeLayout, err := k.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "escape_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("%w: create pipeline layout: %w", ErrBackendBuild, err)
	}
	k.pipeLayout = pipeLayout

	pipeline, err := k.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "escape_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("%w: create compute pipeline: %w", ErrBackendBuild, err)
	}
	k.pipeline = pipeline
	return nil
}

func (k *Kernel) destroyPipeline() {
	if k.device == nil {
		return
	}
	if k.pipeline != nil {
		k.device.DestroyComputePipeline(k.pipeline)
		k.pipeline = nil
	}
	if k.pipeLayout != nil {
		k.device.DestroyPipelineLayout(k.pipeLayout)
		k.pipeLayout = nil
	}
	if k.bindLayout != nil {
		k.device.DestroyBindGroupLayout(k.bindLayout)
		k.bindLayout = nil
	}
	if k.shader != nil {
		k.device.DestroyShaderModule(k.shader)
		k.shader = nil
	}
}

// Close releases the pipeline and, unless the device is shared, the device
// and instance. Close is safe to call multiple times.
func (k *Kernel) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.destroyPipeline()
	if !k.externalDevice && k.device != nil {
		k.device.Destroy()
	}
	if k.instance != nil {
		k.instance.Destroy()
	}
	k.device = nil
	k.queue = nil
	k.instance = nil
}
