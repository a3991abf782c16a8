// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx/gpucore"
)

// Draw implements gpucore.Device. The draw is encoded into its own command
// buffer, submitted and waited on before Draw returns.
func (d *Device) Draw(cmd *gpucore.DrawCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	if cmd.Batch != quadBatch {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, cmd.Batch)
	}
	if cmd.State&(gpucore.StateWriteDepth|gpucore.StateDepthTest) != 0 || cmd.State&gpucore.StateWriteColor == 0 {
		return fmt.Errorf("%w: %v", ErrUnsupportedState, cmd.State)
	}
	sh, ok := d.shaders[cmd.Shader]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownShader, cmd.Shader)
	}
	if d.bound == gpucore.InvalidID {
		return ErrNoFramebuffer
	}
	target, ok := d.textures[d.framebuffers[d.bound]]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d has no color texture", ErrUnknownTexture, d.bound)
	}

	pipeline, err := d.pipeline(sh, target.desc.Format)
	if err != nil {
		return fmt.Errorf("halgpu: %s: %w", sh.desc.Label, err)
	}

	uniforms, err := gpucore.PackUniforms(sh.desc.Uniforms, cmd.Uniforms)
	if err != nil {
		return fmt.Errorf("halgpu: %s: %w", cmd.Label, err)
	}
	if len(uniforms) == 0 {
		uniforms = make([]byte, sh.uniformSize)
	}

	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: cmd.Label + "_uniforms",
		Size:  sh.uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("halgpu: create uniform buffer: %w", err)
	}
	defer d.device.DestroyBuffer(uniformBuf)
	d.queue.WriteBuffer(uniformBuf, 0, uniforms)

	entries, err := d.bindGroupEntries(sh, cmd, uniformBuf)
	if err != nil {
		return err
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   cmd.Label + "_bind",
		Layout:  sh.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("halgpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	return d.submit(cmd.Label, target.view, pipeline, bindGroup)
}

// bindGroupEntries matches the command's textures to the shader's declared
// bindings by name.
func (d *Device) bindGroupEntries(sh *shaderEntry, cmd *gpucore.DrawCommand, uniformBuf hal.Buffer) ([]gputypes.BindGroupEntry, error) {
	entries := make([]gputypes.BindGroupEntry, 0, 1+len(sh.desc.Textures))
	entries = append(entries, gputypes.BindGroupEntry{
		Binding: 0,
		Resource: gputypes.BufferBinding{
			Buffer: uniformBuf.NativeHandle(),
			Offset: 0,
			Size:   sh.uniformSize,
		},
	})

	for i, name := range sh.desc.Textures {
		id, ok := findTexture(cmd.Textures, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingTexture, name, cmd.Label)
		}
		tex, ok := d.textures[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d bound to %q", ErrUnknownTexture, id, name)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: uint32(i + 1), //nolint:gosec // texture count is small
			Resource: gputypes.TextureViewBinding{
				TextureView: uintptr(tex.view.NativeHandle()),
			},
		})
	}
	return entries, nil
}

func findTexture(bindings []gpucore.TextureBinding, name string) (gpucore.TextureID, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b.Texture, true
		}
	}
	return gpucore.InvalidID, false
}

// submit encodes one fullscreen draw into view, submits it and waits.
func (d *Device) submit(label string, view hal.TextureView, pipeline hal.RenderPipeline, bindGroup hal.BindGroup) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("halgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("halgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpLoad,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("halgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("halgpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("halgpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, d.opts.fenceTimeout)
	if err != nil {
		return fmt.Errorf("halgpu: wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("%w after %v (%s)", ErrGPUTimeout, d.opts.fenceTimeout, label)
	}
	return nil
}
