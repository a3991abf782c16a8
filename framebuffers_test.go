// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/gpucore"
	"github.com/gogpu/postfx/internal/gputest"
)

func newTestBuffers(dev *gputest.Device) *FrameBuffers {
	return NewFrameBuffers(dev, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8Unorm)
}

func TestFrameBuffersEnsure(t *testing.T) {
	dev := gputest.NewDevice()
	b := newTestBuffers(dev)
	vp := Viewport{Width: 64, Height: 32}

	if err := b.Ensure(vp, 0); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if b.Color.Texture == gpucore.InvalidID || b.Depth.Texture == gpucore.InvalidID {
		t.Fatal("color and depth must always be allocated")
	}
	if b.Normal != (Buffer{}) || b.Post != (Buffer{}) {
		t.Error("normal/post allocated without being requested")
	}
	if dev.LiveTextures() != 2 || dev.LiveFramebuffers() != 2 {
		t.Errorf("live textures/fbs = %d/%d, want 2/2", dev.LiveTextures(), dev.LiveFramebuffers())
	}

	desc, ok := dev.Texture(b.Color.Texture)
	if !ok || desc.Width != 64 || desc.Height != 32 {
		t.Errorf("color desc = %+v", desc)
	}
	if tex, _ := dev.FramebufferTexture(b.Color.Framebuffer); tex != b.Color.Texture {
		t.Errorf("color framebuffer writes %d, want %d", tex, b.Color.Texture)
	}

	color := b.Color
	if err := b.Ensure(vp, EffectNormalBuffer|EffectPostBuffer); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if b.Color != color {
		t.Error("color reallocated without resize")
	}
	if b.Normal.Texture == gpucore.InvalidID || b.Post.Texture == gpucore.InvalidID {
		t.Error("requested normal/post not allocated")
	}

	if err := b.Ensure(vp, EffectPostBuffer); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if b.Normal != (Buffer{}) {
		t.Error("normal buffer kept after it stopped being requested")
	}
	if dev.LiveTextures() != 3 {
		t.Errorf("live textures = %d, want 3", dev.LiveTextures())
	}
}

func TestFrameBuffersResize(t *testing.T) {
	dev := gputest.NewDevice()
	b := newTestBuffers(dev)

	if err := b.Ensure(Viewport{Width: 10, Height: 10}, EffectPostBuffer); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	old := b.Color.Texture

	if err := b.Ensure(Viewport{Width: 20, Height: 10}, EffectPostBuffer); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if b.Color.Texture == old {
		t.Error("color not recreated on resize")
	}
	if b.Size() != (Viewport{Width: 20, Height: 10}) {
		t.Errorf("Size() = %+v", b.Size())
	}
	if dev.LiveTextures() != 3 {
		t.Errorf("live textures = %d, want 3 (old set destroyed)", dev.LiveTextures())
	}

	b.Destroy()
	if dev.LiveTextures() != 0 || dev.LiveFramebuffers() != 0 {
		t.Errorf("Destroy left %d textures, %d framebuffers", dev.LiveTextures(), dev.LiveFramebuffers())
	}
}

func TestFrameBuffersErrors(t *testing.T) {
	dev := gputest.NewDevice()
	b := newTestBuffers(dev)

	if err := b.Ensure(Viewport{}, 0); !errors.Is(err, ErrEmptyViewport) {
		t.Errorf("empty viewport: err = %v, want ErrEmptyViewport", err)
	}

	errOOM := errors.New("out of memory")
	dev.TextureErr = errOOM
	if err := b.Ensure(Viewport{Width: 4, Height: 4}, 0); !errors.Is(err, errOOM) {
		t.Errorf("err = %v, want %v", err, errOOM)
	}
}
