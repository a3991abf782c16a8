// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build gl

package glgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend"
	"github.com/gogpu/postfx/gpucore"
)

// Device errors.
var (
	ErrClosed             = errors.New("glgpu: device is closed")
	ErrEmptyShader        = errors.New("glgpu: shader has no GLSL source")
	ErrUnknownShader      = errors.New("glgpu: unknown shader")
	ErrUnknownTexture     = errors.New("glgpu: unknown texture")
	ErrUnknownFramebuffer = errors.New("glgpu: unknown framebuffer")
	ErrNoFramebuffer      = errors.New("glgpu: no framebuffer bound")
	ErrUnknownBatch       = errors.New("glgpu: unknown batch")
	ErrUnsupportedFormat  = errors.New("glgpu: unsupported texture format")
	ErrMissingTexture     = errors.New("glgpu: shader texture not bound")
)

const quadBatch gpucore.BatchID = 1

const fullscreenVertexGLSL = `#version 150

out vec2 uv_interp;

void main()
{
	float x = float((gl_VertexID == 1) || (gl_VertexID == 4) || (gl_VertexID == 5));
	float y = float((gl_VertexID == 2) || (gl_VertexID == 3) || (gl_VertexID == 5));
	uv_interp = vec2(x, y);
	gl_Position = vec4(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
}
`

func init() {
	backend.Register(backend.NameGL, func() (backend.Device, error) {
		return New()
	})
}

type program struct {
	desc     gpucore.ShaderDesc
	handle   uint32
	samplers []int32 // parallel to desc.Textures
	uniforms map[string]int32
}

type texture struct {
	desc   gpucore.TextureDesc
	handle uint32
}

type framebuffer struct {
	handle uint32
	color  gpucore.TextureID
}

// Device implements gpucore.Device on the current OpenGL context.
type Device struct {
	nextID       uint64
	vao          uint32
	programs     map[gpucore.ShaderID]*program
	textures     map[gpucore.TextureID]*texture
	framebuffers map[gpucore.FramebufferID]*framebuffer
	bound        gpucore.FramebufferID
	closed       bool
}

// New loads the OpenGL function pointers and creates the empty vertex array
// used by every fullscreen draw.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: gl init: %v", backend.ErrBackendNotAvailable, err)
	}
	d := &Device{
		nextID:       1,
		programs:     make(map[gpucore.ShaderID]*program),
		textures:     make(map[gpucore.TextureID]*texture),
		framebuffers: make(map[gpucore.FramebufferID]*framebuffer),
	}
	gl.GenVertexArrays(1, &d.vao)
	postfx.Logger().Info("glgpu: device opened", "version", gl.GoStr(gl.GetString(gl.VERSION)))
	return d, nil
}

func (d *Device) newID() uint64 {
	id := d.nextID
	d.nextID++
	return id
}

// Name returns the backend name.
func (d *Device) Name() string { return backend.NameGL }

// FullscreenQuad implements gpucore.Device.
func (d *Device) FullscreenQuad() gpucore.BatchID { return quadBatch }

// CreateShader implements gpucore.Device.
func (d *Device) CreateShader(desc *gpucore.ShaderDesc) (gpucore.ShaderID, error) {
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}
	if desc.GLSL == "" {
		return gpucore.InvalidID, ErrEmptyShader
	}
	handle, err := linkProgram(fullscreenVertexGLSL, desc.GLSL)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("glgpu: %s: %w", desc.Label, err)
	}

	p := &program{
		desc:     *desc,
		handle:   handle,
		samplers: make([]int32, len(desc.Textures)),
		uniforms: make(map[string]int32, len(desc.Uniforms)),
	}
	for i, name := range desc.Textures {
		p.samplers[i] = gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
	}
	for _, u := range desc.Uniforms {
		// -1 for uniforms the compiler optimized out; gl.Uniform ignores it.
		p.uniforms[u.Name] = gl.GetUniformLocation(handle, gl.Str(u.Name+"\x00"))
	}

	id := gpucore.ShaderID(d.newID())
	d.programs[id] = p
	postfx.Logger().Debug("glgpu: shader created", "label", desc.Label, "id", id)
	return id, nil
}

// DestroyShader implements gpucore.Device.
func (d *Device) DestroyShader(id gpucore.ShaderID) {
	p, ok := d.programs[id]
	if !ok {
		return
	}
	delete(d.programs, id)
	gl.DeleteProgram(p.handle)
}

// CreateTexture implements gpucore.Device.
func (d *Device) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("glgpu: texture %q has zero size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	internal, format, xtype, err := textureFormat(desc.Format)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("glgpu: texture %q: %w", desc.Label, err)
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(desc.Width), int32(desc.Height), //nolint:gosec // viewport sized
		0, format, xtype, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	id := gpucore.TextureID(d.newID())
	d.textures[id] = &texture{desc: *desc, handle: handle}
	return id, nil
}

// textureFormat returns the internal format, pixel format and pixel type
// of a texture format. Undefined means RGBA8.
func textureFormat(f gputypes.TextureFormat) (internal int32, format, xtype uint32, err error) {
	switch f {
	case gputypes.TextureFormatUndefined, gputypes.TextureFormatRGBA8Unorm:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE, nil
	case gputypes.TextureFormatR8Unorm:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// DestroyTexture implements gpucore.Device.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	gl.DeleteTextures(1, &t.handle)
}

// CreateFramebuffer implements gpucore.Device.
func (d *Device) CreateFramebuffer(label string, color gpucore.TextureID) (gpucore.FramebufferID, error) {
	if d.closed {
		return gpucore.InvalidID, ErrClosed
	}
	t, ok := d.textures[color]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: %d (framebuffer %q)", ErrUnknownTexture, color, label)
	}

	var handle uint32
	gl.GenFramebuffers(1, &handle)
	gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.handle, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &handle)
		return gpucore.InvalidID, fmt.Errorf("glgpu: framebuffer %q incomplete: 0x%x", label, status)
	}

	id := gpucore.FramebufferID(d.newID())
	d.framebuffers[id] = &framebuffer{handle: handle, color: color}
	return id, nil
}

// DestroyFramebuffer implements gpucore.Device.
func (d *Device) DestroyFramebuffer(id gpucore.FramebufferID) {
	fb, ok := d.framebuffers[id]
	if !ok {
		return
	}
	delete(d.framebuffers, id)
	gl.DeleteFramebuffers(1, &fb.handle)
	if d.bound == id {
		d.bound = gpucore.InvalidID
	}
}

// BindFramebuffer implements gpucore.Device.
func (d *Device) BindFramebuffer(id gpucore.FramebufferID) error {
	if d.closed {
		return ErrClosed
	}
	fb, ok := d.framebuffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownFramebuffer, id)
	}
	t, ok := d.textures[fb.color]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d has no color texture", ErrUnknownTexture, id)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.handle)
	gl.Viewport(0, 0, int32(t.desc.Width), int32(t.desc.Height)) //nolint:gosec // viewport sized
	d.bound = id
	return nil
}

// Draw implements gpucore.Device.
func (d *Device) Draw(cmd *gpucore.DrawCommand) error {
	if d.closed {
		return ErrClosed
	}
	if cmd.Batch != quadBatch {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, cmd.Batch)
	}
	p, ok := d.programs[cmd.Shader]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownShader, cmd.Shader)
	}
	if d.bound == gpucore.InvalidID {
		return ErrNoFramebuffer
	}
	// Validate before touching GL state.
	if _, err := gpucore.PackUniforms(p.desc.Uniforms, cmd.Uniforms); err != nil {
		return fmt.Errorf("glgpu: %s: %w", cmd.Label, err)
	}

	applyState(cmd.State)
	gl.UseProgram(p.handle)

	for i, name := range p.desc.Textures {
		id, ok := findTexture(cmd.Textures, name)
		if !ok {
			return fmt.Errorf("%w: %q in %s", ErrMissingTexture, name, cmd.Label)
		}
		t, ok := d.textures[id]
		if !ok {
			return fmt.Errorf("%w: %d bound to %q", ErrUnknownTexture, id, name)
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i)) //nolint:gosec // texture count is small
		gl.BindTexture(gl.TEXTURE_2D, t.handle)
		gl.Uniform1i(p.samplers[i], int32(i)) //nolint:gosec // texture count is small
	}

	for _, u := range cmd.Uniforms {
		loc, ok := p.uniforms[u.Name]
		if !ok {
			continue
		}
		switch u.Kind {
		case gpucore.UniformFloat:
			gl.Uniform1f(loc, u.Data[0])
		case gpucore.UniformVec2:
			gl.Uniform2f(loc, u.Data[0], u.Data[1])
		case gpucore.UniformVec3:
			gl.Uniform3f(loc, u.Data[0], u.Data[1], u.Data[2])
		case gpucore.UniformVec4:
			gl.Uniform4f(loc, u.Data[0], u.Data[1], u.Data[2], u.Data[3])
		}
	}

	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glgpu: %s: GL error 0x%x", cmd.Label, code)
	}
	return nil
}

func applyState(s gpucore.DrawState) {
	if s&gpucore.StateDepthTest != 0 {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(s&gpucore.StateWriteDepth != 0)
	color := s&gpucore.StateWriteColor != 0
	gl.ColorMask(color, color, color, color)
}

func findTexture(bindings []gpucore.TextureBinding, name string) (gpucore.TextureID, bool) {
	for _, b := range bindings {
		if b.Name == name {
			return b.Texture, true
		}
	}
	return gpucore.InvalidID, false
}

// Close releases every resource created through the device.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	for id := range d.programs {
		d.DestroyShader(id)
	}
	for id := range d.framebuffers {
		d.DestroyFramebuffer(id)
	}
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteVertexArrays(1, &d.vao)
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertex, fragment string) (uint32, error) {
	vs, err := compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.BindFragDataLocation(prog, 0, gl.Str("frag_color\x00"))
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

var (
	_ gpucore.Device = (*Device)(nil)
	_ backend.Device = (*Device)(nil)
)
