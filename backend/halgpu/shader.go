// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/gpucore"
)

// fullscreenVertexWGSL is prepended to every fragment shader. It emits two
// triangles covering the viewport; uv is (0,0) at the top-left corner.
const fullscreenVertexWGSL = `struct FullscreenOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_fullscreen(@builtin(vertex_index) vi: u32) -> FullscreenOut {
    let x = select(0.0, 1.0, vi == 1u || vi == 4u || vi == 5u);
    let y = select(0.0, 1.0, vi == 2u || vi == 3u || vi == 5u);
    var o: FullscreenOut;
    o.position = vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    o.uv = vec2<f32>(x, y);
    return o;
}

`

// ErrEmptyShader is returned when a shader has no WGSL source.
var ErrEmptyShader = errors.New("halgpu: shader has no WGSL source")

// shaderEntry holds the HAL objects of one fullscreen program.
type shaderEntry struct {
	desc        gpucore.ShaderDesc
	uniformSize uint64

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  map[gputypes.TextureFormat]hal.RenderPipeline
}

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// bindGroupLayoutEntries returns the uniform block (binding 0) followed by
// one float texture per declared name.
func bindGroupLayoutEntries(desc *gpucore.ShaderDesc) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1+len(desc.Textures))
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	})
	for i := range desc.Textures {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i + 1), //nolint:gosec // texture count is small
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	return entries
}

// CreateShader implements gpucore.Device. It compiles the WGSL fragment
// stage and builds the pipeline for the default color format.
func (d *Device) CreateShader(desc *gpucore.ShaderDesc) (gpucore.ShaderID, error) {
	if desc.WGSL == "" {
		return gpucore.InvalidID, ErrEmptyShader
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}

	code, err := compileWGSL(fullscreenVertexWGSL + desc.WGSL)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("halgpu: %s: %w", desc.Label, err)
	}

	sh := &shaderEntry{
		desc:        *desc,
		uniformSize: max(gpucore.UniformBlockSize(desc.Uniforms), 16),
		pipelines:   make(map[gputypes.TextureFormat]hal.RenderPipeline),
	}
	if err := d.buildShader(sh, code); err != nil {
		sh.destroy(d.device)
		return gpucore.InvalidID, fmt.Errorf("halgpu: %s: %w", desc.Label, err)
	}
	if _, err := d.pipeline(sh, d.opts.colorFormat); err != nil {
		sh.destroy(d.device)
		return gpucore.InvalidID, fmt.Errorf("halgpu: %s: %w", desc.Label, err)
	}

	id := gpucore.ShaderID(d.newID())
	d.shaders[id] = sh
	postfx.Logger().Debug("halgpu: shader created",
		"label", desc.Label, "id", id, "spirv_words", len(code),
		"textures", len(desc.Textures), "uniform_bytes", sh.uniformSize)
	return id, nil
}

func (d *Device) buildShader(sh *shaderEntry, code []uint32) error {
	var err error
	sh.module, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  sh.desc.Label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	sh.bindLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   sh.desc.Label + "_bind_layout",
		Entries: bindGroupLayoutEntries(&sh.desc),
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	sh.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            sh.desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{sh.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	return nil
}

// pipeline returns the render pipeline of sh for a target format, creating
// it on first use.
func (d *Device) pipeline(sh *shaderEntry, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if p, ok := sh.pipelines[format]; ok {
		return p, nil
	}
	p, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  sh.desc.Label + "_pipeline",
		Layout: sh.pipeLayout,
		Vertex: hal.VertexState{
			Module:     sh.module,
			EntryPoint: "vs_fullscreen",
		},
		Fragment: &hal.FragmentState{
			Module:     sh.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	sh.pipelines[format] = p
	return p, nil
}

// DestroyShader implements gpucore.Device.
func (d *Device) DestroyShader(id gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sh, ok := d.shaders[id]
	if !ok {
		return
	}
	delete(d.shaders, id)
	sh.destroy(d.device)
}

// destroy releases the HAL objects in reverse creation order.
func (sh *shaderEntry) destroy(device hal.Device) {
	if device == nil {
		return
	}
	for format, p := range sh.pipelines {
		device.DestroyRenderPipeline(p)
		delete(sh.pipelines, format)
	}
	if sh.pipeLayout != nil {
		device.DestroyPipelineLayout(sh.pipeLayout)
		sh.pipeLayout = nil
	}
	if sh.bindLayout != nil {
		device.DestroyBindGroupLayout(sh.bindLayout)
		sh.bindLayout = nil
	}
	if sh.module != nil {
		device.DestroyShaderModule(sh.module)
		sh.module = nil
	}
}
