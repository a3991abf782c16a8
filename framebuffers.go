// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/gpucore"
)

// Chain errors.
var (
	// ErrEmptyViewport is returned when buffers are requested for a zero-sized view.
	ErrEmptyViewport = errors.New("postfx: viewport is empty")

	// ErrChainClosed is returned when a closed chain is used.
	ErrChainClosed = errors.New("postfx: chain is closed")
)

// FrameBuffers owns the color, depth, normal and post buffers of a view.
//
// Color and Depth always exist. Normal and Post are allocated only while the
// frame's EffectFlags request them. All buffers are recreated on resize.
type FrameBuffers struct {
	dev         gpucore.Device
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
	size        Viewport

	Color  Buffer
	Depth  Buffer
	Normal Buffer
	Post   Buffer
}

// NewFrameBuffers returns an empty buffer set allocating from dev.
func NewFrameBuffers(dev gpucore.Device, colorFormat, depthFormat gputypes.TextureFormat) *FrameBuffers {
	return &FrameBuffers{dev: dev, colorFormat: colorFormat, depthFormat: depthFormat}
}

// Size returns the size the buffers were allocated for.
func (b *FrameBuffers) Size() Viewport { return b.size }

// Ensure makes the buffer set match vp and flags.
func (b *FrameBuffers) Ensure(vp Viewport, flags EffectFlags) error {
	if vp.Empty() {
		return fmt.Errorf("%w: %dx%d", ErrEmptyViewport, vp.Width, vp.Height)
	}
	if vp != b.size {
		if b.size != (Viewport{}) {
			Logger().Info("postfx: reallocating frame buffers",
				"from", fmt.Sprintf("%dx%d", b.size.Width, b.size.Height),
				"to", fmt.Sprintf("%dx%d", vp.Width, vp.Height))
		}
		b.Destroy()
		b.size = vp
	}

	if err := b.ensure(&b.Color, "postfx_color", b.colorFormat, true); err != nil {
		return err
	}
	if err := b.ensure(&b.Depth, "postfx_depth", b.depthFormat, true); err != nil {
		return err
	}
	if err := b.ensure(&b.Normal, "postfx_normal", b.colorFormat, flags.Has(EffectNormalBuffer)); err != nil {
		return err
	}
	return b.ensure(&b.Post, "postfx_post", b.colorFormat, flags.Has(EffectPostBuffer))
}

func (b *FrameBuffers) ensure(buf *Buffer, label string, format gputypes.TextureFormat, want bool) error {
	if !want {
		b.release(buf)
		return nil
	}
	if buf.Texture != gpucore.InvalidID {
		return nil
	}

	tex, err := b.dev.CreateTexture(&gpucore.TextureDesc{
		Label:  label,
		Width:  uint32(b.size.Width),  //nolint:gosec // viewport checked non-empty
		Height: uint32(b.size.Height), //nolint:gosec // viewport checked non-empty
		Format: format,
	})
	if err != nil {
		return fmt.Errorf("postfx: create %s: %w", label, err)
	}
	fb, err := b.dev.CreateFramebuffer(label, tex)
	if err != nil {
		b.dev.DestroyTexture(tex)
		return fmt.Errorf("postfx: create %s framebuffer: %w", label, err)
	}
	*buf = Buffer{Texture: tex, Framebuffer: fb}
	return nil
}

func (b *FrameBuffers) release(buf *Buffer) {
	if buf.Framebuffer != gpucore.InvalidID {
		b.dev.DestroyFramebuffer(buf.Framebuffer)
	}
	if buf.Texture != gpucore.InvalidID {
		b.dev.DestroyTexture(buf.Texture)
	}
	*buf = Buffer{}
}

// Destroy releases every buffer. The set can be reused with Ensure.
func (b *FrameBuffers) Destroy() {
	b.release(&b.Color)
	b.release(&b.Depth)
	b.release(&b.Normal)
	b.release(&b.Post)
	b.size = Viewport{}
}
