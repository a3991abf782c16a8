// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/postfx/gpucore"
)

type textureRef struct {
	name string
	ref  *gpucore.TextureID
}

// uniformRef holds exactly one non-nil pointer matching kind.
type uniformRef struct {
	name string
	kind gpucore.UniformKind
	f    *float32
	v2   *f32.Vec2
	v3   *f32.Vec3
	v4   *f32.Vec4
}

func (u *uniformRef) isNil() bool {
	switch u.kind {
	case gpucore.UniformFloat:
		return u.f == nil
	case gpucore.UniformVec2:
		return u.v2 == nil
	case gpucore.UniformVec3:
		return u.v3 == nil
	case gpucore.UniformVec4:
		return u.v4 == nil
	}
	return true
}

func (u *uniformRef) value() gpucore.UniformValue {
	v := gpucore.UniformValue{Name: u.name, Kind: u.kind}
	switch u.kind {
	case gpucore.UniformFloat:
		v.Data[0] = *u.f
	case gpucore.UniformVec2:
		copy(v.Data[:], u.v2[:])
	case gpucore.UniformVec3:
		copy(v.Data[:], u.v3[:])
	case gpucore.UniformVec4:
		copy(v.Data[:], u.v4[:])
	}
	return v
}

// ShadingGroup binds a shader to named inputs and geometry batches.
type ShadingGroup struct {
	shader   gpucore.ShaderID
	textures []textureRef
	uniforms []uniformRef
	calls    []gpucore.BatchID
}

// Shader returns the bound shader.
func (g *ShadingGroup) Shader() gpucore.ShaderID { return g.shader }

// UniformTextureRef binds the texture stored at ref to name.
func (g *ShadingGroup) UniformTextureRef(name string, ref *gpucore.TextureID) {
	g.textures = append(g.textures, textureRef{name: name, ref: ref})
}

// UniformFloat binds the float stored at ref to name.
func (g *ShadingGroup) UniformFloat(name string, ref *float32) {
	g.uniforms = append(g.uniforms, uniformRef{name: name, kind: gpucore.UniformFloat, f: ref})
}

// UniformVec2 binds the vector stored at ref to name.
func (g *ShadingGroup) UniformVec2(name string, ref *f32.Vec2) {
	g.uniforms = append(g.uniforms, uniformRef{name: name, kind: gpucore.UniformVec2, v2: ref})
}

// UniformVec3 binds the vector stored at ref to name.
func (g *ShadingGroup) UniformVec3(name string, ref *f32.Vec3) {
	g.uniforms = append(g.uniforms, uniformRef{name: name, kind: gpucore.UniformVec3, v3: ref})
}

// UniformVec4 binds the vector stored at ref to name.
func (g *ShadingGroup) UniformVec4(name string, ref *f32.Vec4) {
	g.uniforms = append(g.uniforms, uniformRef{name: name, kind: gpucore.UniformVec4, v4: ref})
}

// CallAdd records one draw of batch.
func (g *ShadingGroup) CallAdd(batch gpucore.BatchID) {
	g.calls = append(g.calls, batch)
}

// Calls returns the recorded batches.
func (g *ShadingGroup) Calls() []gpucore.BatchID { return g.calls }

// TextureNames returns the bound texture names in binding order.
func (g *ShadingGroup) TextureNames() []string {
	names := make([]string, len(g.textures))
	for i, t := range g.textures {
		names[i] = t.name
	}
	return names
}

// UniformNames returns the bound uniform names in binding order.
func (g *ShadingGroup) UniformNames() []string {
	names := make([]string, len(g.uniforms))
	for i, u := range g.uniforms {
		names[i] = u.name
	}
	return names
}

// Resolve reads the current value behind every binding.
func (g *ShadingGroup) Resolve() ([]gpucore.TextureBinding, []gpucore.UniformValue, error) {
	if g.shader == gpucore.InvalidID {
		return nil, nil, ErrNoShader
	}

	textures := make([]gpucore.TextureBinding, 0, len(g.textures))
	for _, t := range g.textures {
		if t.ref == nil {
			return nil, nil, fmt.Errorf("%w: texture %q", ErrNilReference, t.name)
		}
		textures = append(textures, gpucore.TextureBinding{Name: t.name, Texture: *t.ref})
	}

	uniforms := make([]gpucore.UniformValue, 0, len(g.uniforms))
	for i := range g.uniforms {
		u := &g.uniforms[i]
		if u.isNil() {
			return nil, nil, fmt.Errorf("%w: uniform %q", ErrNilReference, u.name)
		}
		uniforms = append(uniforms, u.value())
	}
	return textures, uniforms, nil
}
