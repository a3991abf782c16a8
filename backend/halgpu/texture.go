// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/gpucore"
)

// CreateTexture implements gpucore.Device. Textures can be render targets
// and shader inputs.
func (d *Device) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("halgpu: texture %q has zero size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = d.opts.colorFormat
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("halgpu: create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("halgpu: create texture view %q: %w", desc.Label, err)
	}

	entry := &textureEntry{desc: *desc, texture: tex, view: view}
	entry.desc.Format = format
	id := gpucore.TextureID(d.newID())
	d.textures[id] = entry
	return id, nil
}

// DestroyTexture implements gpucore.Device. Framebuffers writing the texture
// become invalid.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	d.destroyTexture(tex)

	for fb, color := range d.framebuffers {
		if color == id {
			postfx.Logger().Warn("halgpu: texture destroyed while framebuffer uses it", "texture", id, "framebuffer", fb)
			delete(d.framebuffers, fb)
		}
	}
}

func (d *Device) destroyTexture(tex *textureEntry) {
	if d.device == nil {
		return
	}
	if tex.view != nil {
		d.device.DestroyTextureView(tex.view)
	}
	if tex.texture != nil {
		d.device.DestroyTexture(tex.texture)
	}
}

// TextureDesc returns the descriptor of a live texture.
func (d *Device) TextureDesc(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return tex.desc, true
}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer(label string, color gpucore.TextureID) (gpucore.FramebufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}
	if _, ok := d.textures[color]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: %d (framebuffer %q)", ErrUnknownTexture, color, label)
	}
	id := gpucore.FramebufferID(d.newID())
	d.framebuffers[id] = color
	return id, nil
}

// DestroyFramebuffer implements gpucore.Device.
func (d *Device) DestroyFramebuffer(id gpucore.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.framebuffers, id)
	if d.bound == id {
		d.bound = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(fb gpucore.FramebufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if _, ok := d.framebuffers[fb]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFramebuffer, fb)
	}
	d.bound = fb
	return nil
}
