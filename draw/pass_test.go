// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/postfx/gpucore"
	"github.com/gogpu/postfx/internal/gputest"
)

type frameState struct {
	color  gpucore.TextureID
	near   float32
	offset f32.Vec2
	tint   f32.Vec3
	extra  f32.Vec4
}

func newShader(t *testing.T, dev *gputest.Device) gpucore.ShaderID {
	t.Helper()
	id, err := dev.CreateShader(&gpucore.ShaderDesc{Label: "test"})
	if err != nil {
		t.Fatalf("CreateShader failed: %v", err)
	}
	return id
}

func TestPassAccessors(t *testing.T) {
	p := NewPass("Sobel", gpucore.StateWriteColor)
	if p.Name() != "Sobel" {
		t.Errorf("Name() = %q, want Sobel", p.Name())
	}
	if p.State() != gpucore.StateWriteColor {
		t.Errorf("State() = %v, want WriteColor", p.State())
	}
	if len(p.Groups()) != 0 {
		t.Errorf("new pass has %d groups", len(p.Groups()))
	}

	g := p.NewShadingGroup(7)
	g.UniformTextureRef("tex_a", new(gpucore.TextureID))
	g.UniformTextureRef("tex_b", new(gpucore.TextureID))
	g.UniformFloat("f", new(float32))
	g.UniformVec2("v2", new(f32.Vec2))
	g.CallAdd(1)

	if g.Shader() != 7 {
		t.Errorf("Shader() = %d, want 7", g.Shader())
	}
	if got := g.TextureNames(); !reflect.DeepEqual(got, []string{"tex_a", "tex_b"}) {
		t.Errorf("TextureNames() = %v", got)
	}
	if got := g.UniformNames(); !reflect.DeepEqual(got, []string{"f", "v2"}) {
		t.Errorf("UniformNames() = %v", got)
	}
	if got := g.Calls(); !reflect.DeepEqual(got, []gpucore.BatchID{1}) {
		t.Errorf("Calls() = %v", got)
	}
}

func TestPassDrawReadsLiveValues(t *testing.T) {
	dev := gputest.NewDevice()
	shader := newShader(t, dev)

	var st frameState
	p := NewPass("Live", gpucore.StateWriteColor)
	g := p.NewShadingGroup(shader)
	g.UniformTextureRef("tex_color", &st.color)
	g.UniformFloat("z_near", &st.near)
	g.UniformVec2("offset", &st.offset)
	g.UniformVec3("tint", &st.tint)
	g.UniformVec4("extra", &st.extra)
	g.CallAdd(dev.FullscreenQuad())

	// Mutate after recording; the draw must see these values.
	st.color = 42
	st.near = 0.5
	st.offset = f32.Vec2{0.25, 0.125}
	st.tint = f32.Vec3{1, 2, 3}
	st.extra = f32.Vec4{4, 5, 6, 7}

	if err := p.Draw(dev); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(dev.Draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(dev.Draws))
	}
	cmd := dev.Draws[0]
	if cmd.Label != "Live" || cmd.State != gpucore.StateWriteColor || cmd.Batch != gputest.QuadBatch {
		t.Errorf("unexpected command header: %+v", cmd)
	}
	if cmd.Textures[0].Texture != 42 {
		t.Errorf("tex_color = %d, want 42", cmd.Textures[0].Texture)
	}

	want := []gpucore.UniformValue{
		{Name: "z_near", Kind: gpucore.UniformFloat, Data: [4]float32{0.5}},
		{Name: "offset", Kind: gpucore.UniformVec2, Data: [4]float32{0.25, 0.125}},
		{Name: "tint", Kind: gpucore.UniformVec3, Data: [4]float32{1, 2, 3}},
		{Name: "extra", Kind: gpucore.UniformVec4, Data: [4]float32{4, 5, 6, 7}},
	}
	if !reflect.DeepEqual(cmd.Uniforms, want) {
		t.Errorf("uniforms = %+v, want %+v", cmd.Uniforms, want)
	}

	st.color = 43
	if err := p.Draw(dev); err != nil {
		t.Fatalf("second Draw failed: %v", err)
	}
	if got := dev.Draws[1].Textures[0].Texture; got != 43 {
		t.Errorf("second draw tex_color = %d, want 43", got)
	}
}

func TestPassDrawErrors(t *testing.T) {
	dev := gputest.NewDevice()
	shader := newShader(t, dev)

	tests := []struct {
		name  string
		build func() *Pass
		want  error
	}{
		{
			name:  "empty pass",
			build: func() *Pass { return NewPass("empty", gpucore.StateWriteColor) },
			want:  ErrPassEmpty,
		},
		{
			name: "group without calls",
			build: func() *Pass {
				p := NewPass("nocalls", gpucore.StateWriteColor)
				p.NewShadingGroup(shader)
				return p
			},
			want: ErrPassEmpty,
		},
		{
			name: "invalid shader",
			build: func() *Pass {
				p := NewPass("noshader", gpucore.StateWriteColor)
				p.NewShadingGroup(gpucore.InvalidID).CallAdd(1)
				return p
			},
			want: ErrNoShader,
		},
		{
			name: "nil texture ref",
			build: func() *Pass {
				p := NewPass("niltex", gpucore.StateWriteColor)
				g := p.NewShadingGroup(shader)
				g.UniformTextureRef("tex_depth", nil)
				g.CallAdd(1)
				return p
			},
			want: ErrNilReference,
		},
		{
			name: "nil uniform ref",
			build: func() *Pass {
				p := NewPass("niluni", gpucore.StateWriteColor)
				g := p.NewShadingGroup(shader)
				g.UniformVec3("line_color", nil)
				g.CallAdd(1)
				return p
			},
			want: ErrNilReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Draw(dev)
			if !errors.Is(err, tt.want) {
				t.Errorf("Draw() error = %v, want %v", err, tt.want)
			}
		})
	}
	if len(dev.Draws) != 0 {
		t.Errorf("failed passes issued %d draws", len(dev.Draws))
	}
}

func TestPassDrawPropagatesDeviceError(t *testing.T) {
	dev := gputest.NewDevice()
	shader := newShader(t, dev)
	errDevice := errors.New("device lost")
	dev.DrawErr = errDevice

	p := NewPass("fail", gpucore.StateWriteColor)
	p.NewShadingGroup(shader).CallAdd(1)

	if err := p.Draw(dev); !errors.Is(err, errDevice) {
		t.Errorf("Draw() error = %v, want %v", err, errDevice)
	}
}
