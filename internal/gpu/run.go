// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandel/grid"
)

// batchBuffers are the device buffers reused across the batches of one Run.
type batchBuffers struct {
	params  hal.Buffer
	input   hal.Buffer
	output  hal.Buffer
	staging hal.Buffer
	bind    hal.BindGroup
}

// Run evaluates every point on the device and returns the iteration field.
// It blocks until the last batch has been read back.
func (k *Kernel) Run(points []grid.FixedPoint, maxIter int) ([]int32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.device == nil {
		return nil, fmt.Errorf("%w: kernel is closed", ErrBackendUnavailable)
	}
	if maxIter < 0 || uint64(maxIter) > 1<<31-1 {
		return nil, fmt.Errorf("%w: iteration budget %d out of range", ErrBackendExecution, maxIter)
	}

	out := make([]int32, len(points))
	if len(points) == 0 {
		return out, nil
	}

	limit := maxBatchPoints
	if k.batchPoints > 0 {
		limit = k.batchPoints
	}
	batch := min(len(points), limit)
	bufs, err := k.createBuffers(batch)
	if err != nil {
		k.destroyBuffers(bufs)
		return nil, err
	}
	defer k.destroyBuffers(bufs)

	slogger().Debug("gpu: dispatch",
		"points", len(points),
		"batch", batch,
		"input_bytes", batch*pointBytes)

	for start := 0; start < len(points); start += batch {
		end := min(start+batch, len(points))
		if err := k.runBatch(bufs, points[start:end], maxIter, out[start:end]); err != nil {
			return nil, fmt.Errorf("batch [%d, %d): %w", start, end, err)
		}
	}
	return out, nil
}

func (k *Kernel) createBuffers(batch int) (*batchBuffers, error) {
	b := &batchBuffers{}
	inputSize := uint64(batch * pointBytes)   //nolint:gosec // bounded by maxBatchPoints
	outputSize := uint64(batch * resultBytes) //nolint:gosec // bounded by maxBatchPoints

	var err error
	b.params, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_params", Size: paramsBytes,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return b, fmt.Errorf("%w: create params buffer: %w", ErrBackendExecution, err)
	}

	b.input, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_points", Size: inputSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return b, fmt.Errorf("%w: create points buffer: %w", ErrBackendExecution, err)
	}

	b.output, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_iters", Size: outputSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return b, fmt.Errorf("%w: create iterations buffer: %w", ErrBackendExecution, err)
	}

	b.staging, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "escape_staging", Size: outputSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return b, fmt.Errorf("%w: create staging buffer: %w", ErrBackendExecution, err)
	}

	b.bind, err = k.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "escape_bind", Layout: k.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: b.params.NativeHandle(), Offset: 0, Size: paramsBytes}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: b.input.NativeHandle(), Offset: 0, Size: inputSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: b.output.NativeHandle(), Offset: 0, Size: outputSize}},
		},
	})
	if err != nil {
		return b, fmt.Errorf("%w: create bind group: %w", ErrBackendExecution, err)
	}
	return b, nil
}

func (k *Kernel) destroyBuffers(b *batchBuffers) {
	if b == nil || k.device == nil {
		return
	}
	if b.bind != nil {
		k.device.DestroyBindGroup(b.bind)
	}
	for _, buf := range []hal.Buffer{b.params, b.input, b.output, b.staging} {
		if buf != nil {
			k.device.DestroyBuffer(buf)
		}
	}
}

// runBatch evaluates up to one batch of points into out.
func (k *Kernel) runBatch(b *batchBuffers, points []grid.FixedPoint, maxIter int, out []int32) error {
	n := len(points)
	groupsX, groupsY, rowStride := dispatchSize(n, k.cfg.WorkgroupSize)
	resultSize := uint64(n * resultBytes) //nolint:gosec // bounded by maxBatchPoints

	k.queue.WriteBuffer(b.params, 0, makeParams(n, maxIter, rowStride))
	k.queue.WriteBuffer(b.input, 0, packPoints(points))

	encoder, err := k.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "escape_encoder"})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", ErrBackendExecution, err)
	}
	if err := encoder.BeginEncoding("escape"); err != nil {
		return fmt.Errorf("%w: begin encoding: %w", ErrBackendExecution, err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "escape_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, b.bind, nil)
	pass.Dispatch(groupsX, groupsY, 1)
	pass.End()

	encoder.CopyBufferToBuffer(b.output, b.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: resultSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%w: end encoding: %w", ErrBackendExecution, err)
	}
	defer k.device.FreeCommandBuffer(cmdBuf)

	fence, err := k.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%w: create fence: %w", ErrBackendExecution, err)
	}
	defer k.device.DestroyFence(fence)

	if err := k.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%w: submit: %w", ErrBackendExecution, err)
	}
	fenceOK, err := k.device.Wait(fence, 1, k.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("%w: wait for GPU: %w", ErrBackendExecution, err)
	}
	if !fenceOK {
		return fmt.Errorf("%w: wait for GPU: timed out after %v", ErrBackendExecution, k.cfg.Timeout)
	}

	readback := make([]byte, resultSize)
	if err := k.queue.ReadBuffer(b.staging, 0, readback); err != nil {
		return fmt.Errorf("%w: readback: %w", ErrBackendExecution, err)
	}
	unpackResults(out, readback)
	return nil
}
