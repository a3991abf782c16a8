// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend maintains a mapping
// between IDs and actual backend resources.

// ShaderID is an opaque handle to a compiled fullscreen shader program.
type ShaderID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// FramebufferID is an opaque handle to a render target wrapping one color texture.
type FramebufferID uint64

// BatchID is an opaque handle to a geometry batch owned by the backend.
type BatchID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// DrawState is a bitmask describing the fixed-function state of a pass.
type DrawState uint32

// Draw state flags.
const (
	// StateWriteColor enables writes to the color attachment.
	StateWriteColor DrawState = 1 << iota

	// StateWriteDepth enables writes to the depth attachment.
	StateWriteDepth

	// StateDepthTest enables the depth test (less-or-equal).
	StateDepthTest
)

// String returns the flags joined with "|".
func (s DrawState) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	if s&StateWriteColor != 0 {
		parts = append(parts, "WriteColor")
	}
	if s&StateWriteDepth != 0 {
		parts = append(parts, "WriteDepth")
	}
	if s&StateDepthTest != 0 {
		parts = append(parts, "DepthTest")
	}
	if rest := s &^ (StateWriteColor | StateWriteDepth | StateDepthTest); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// UniformKind is the shader type of a uniform parameter.
type UniformKind uint8

// Uniform kinds.
const (
	UniformFloat UniformKind = iota + 1
	UniformVec2
	UniformVec3
	UniformVec4
)

// Components returns the number of float32 components of the kind.
func (k UniformKind) Components() int {
	switch k {
	case UniformFloat:
		return 1
	case UniformVec2:
		return 2
	case UniformVec3:
		return 3
	case UniformVec4:
		return 4
	default:
		return 0
	}
}

// String returns the WGSL spelling of the kind.
func (k UniformKind) String() string {
	switch k {
	case UniformFloat:
		return "f32"
	case UniformVec2:
		return "vec2<f32>"
	case UniformVec3:
		return "vec3<f32>"
	case UniformVec4:
		return "vec4<f32>"
	default:
		return fmt.Sprintf("UniformKind(%d)", uint8(k))
	}
}

// UniformDecl declares one uniform parameter of a shader.
type UniformDecl struct {
	Name string
	Kind UniformKind
}

// ShaderDesc describes a fullscreen shader program.
type ShaderDesc struct {
	// Label is an optional debug label.
	Label string

	// WGSL is the fragment stage for WGSL backends. The entry point is fs_main
	// and it receives the FullscreenOut struct declared by the backend.
	WGSL string

	// GLSL is the fragment stage for OpenGL backends (#version 150).
	GLSL string

	// Textures lists the sampled texture names in binding order.
	Textures []string

	// Uniforms lists the uniform parameters in block order.
	Uniforms []UniformDecl
}

// TextureDesc describes a 2D texture usable both as render attachment and as
// shader input.
type TextureDesc struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

// TextureBinding is a texture resolved for one draw.
type TextureBinding struct {
	Name    string
	Texture TextureID
}

// UniformValue is a uniform parameter resolved for one draw.
type UniformValue struct {
	Name string
	Kind UniformKind
	Data [4]float32
}

// DrawCommand is one fully resolved draw call.
type DrawCommand struct {
	// Label names the pass the command was recorded in.
	Label string

	State    DrawState
	Shader   ShaderID
	Batch    BatchID
	Textures []TextureBinding
	Uniforms []UniformValue
}

// Device is the GPU backend used by postfx stages.
//
// Thread Safety: implementations are driven from the single rendering
// goroutine. They may add internal locking but callers must not rely on it.
type Device interface {
	// CreateShader compiles a fullscreen shader program.
	CreateShader(desc *ShaderDesc) (ShaderID, error)

	// DestroyShader releases a shader program. Unknown IDs are ignored.
	DestroyShader(id ShaderID)

	// CreateTexture allocates a 2D texture.
	CreateTexture(desc *TextureDesc) (TextureID, error)

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// CreateFramebuffer creates a render target writing into color.
	CreateFramebuffer(label string, color TextureID) (FramebufferID, error)

	// DestroyFramebuffer releases a render target. The color texture is not destroyed.
	DestroyFramebuffer(id FramebufferID)

	// FullscreenQuad returns the shared two-triangle batch covering the viewport.
	FullscreenQuad() BatchID

	// BindFramebuffer makes fb the target of subsequent draws.
	BindFramebuffer(fb FramebufferID) error

	// Draw executes one draw call on the bound framebuffer.
	Draw(cmd *DrawCommand) error
}
