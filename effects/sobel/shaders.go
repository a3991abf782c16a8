// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sobel

import (
	_ "embed"

	"github.com/gogpu/postfx/gpucore"
)

//go:embed shaders/effect_sobel_frag.wgsl
var fragWGSL string

//go:embed shaders/effect_sobel_frag.glsl
var fragGLSL string

// Texture binding names, in binding order.
const (
	TexDepth  = "tex_depth"
	TexColor  = "tex_color"
	TexNormal = "tex_normal"
)

// textureNames must match the binding order of the shaders.
var textureNames = []string{TexDepth, TexColor, TexNormal}

// uniformDecls must match the SobelParams block of the WGSL shader.
var uniformDecls = []gpucore.UniformDecl{
	{Name: "offset", Kind: gpucore.UniformVec2},
	{Name: "z_near", Kind: gpucore.UniformFloat},
	{Name: "z_far", Kind: gpucore.UniformFloat},
	{Name: "normal_threshold", Kind: gpucore.UniformFloat},
	{Name: "normal_strength", Kind: gpucore.UniformFloat},
	{Name: "normal_depth_decay", Kind: gpucore.UniformFloat},
	{Name: "depth_threshold", Kind: gpucore.UniformFloat},
	{Name: "depth_strength", Kind: gpucore.UniformFloat},
	{Name: "line_thickness", Kind: gpucore.UniformFloat},
	{Name: "line_color", Kind: gpucore.UniformVec3},
}

// ShaderDesc returns the fullscreen shader program of the effect.
func ShaderDesc() *gpucore.ShaderDesc {
	return &gpucore.ShaderDesc{
		Label:    "effect_sobel",
		WGSL:     fragWGSL,
		GLSL:     fragGLSL,
		Textures: append([]string(nil), textureNames...),
		Uniforms: append([]gpucore.UniformDecl(nil), uniformDecls...),
	}
}
