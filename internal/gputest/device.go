// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides a recording gpucore.Device for tests.
package gputest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/postfx/gpucore"
)

// QuadBatch is the batch returned by Device.FullscreenQuad.
const QuadBatch gpucore.BatchID = 1

// ErrUnknownResource is returned when an operation refers to an ID the
// device never handed out or already destroyed.
var ErrUnknownResource = errors.New("gputest: unknown resource")

// Device is a gpucore.Device that records every call.
//
// The Err fields inject failures into the matching operation. Ops holds an
// ordered log of state-changing calls: "shader:<label>", "bind:<fb>",
// "draw:<label>", "destroy-shader:<id>".
type Device struct {
	ShaderErr  error
	TextureErr error
	BindErr    error
	DrawErr    error

	mu sync.Mutex

	ShadersCreated   int
	ShadersDestroyed int

	Ops   []string
	Draws []gpucore.DrawCommand
	Bound gpucore.FramebufferID

	nextID       uint64
	shaders      map[gpucore.ShaderID]gpucore.ShaderDesc
	textures     map[gpucore.TextureID]gpucore.TextureDesc
	framebuffers map[gpucore.FramebufferID]gpucore.TextureID
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		nextID:       100,
		shaders:      make(map[gpucore.ShaderID]gpucore.ShaderDesc),
		textures:     make(map[gpucore.TextureID]gpucore.TextureDesc),
		framebuffers: make(map[gpucore.FramebufferID]gpucore.TextureID),
	}
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) CreateShader(desc *gpucore.ShaderDesc) (gpucore.ShaderID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ShaderErr != nil {
		return gpucore.InvalidID, d.ShaderErr
	}
	id := gpucore.ShaderID(d.id())
	d.shaders[id] = *desc
	d.ShadersCreated++
	d.Ops = append(d.Ops, "shader:"+desc.Label)
	return id, nil
}

func (d *Device) DestroyShader(id gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.shaders[id]; !ok {
		return
	}
	delete(d.shaders, id)
	d.ShadersDestroyed++
	d.Ops = append(d.Ops, fmt.Sprintf("destroy-shader:%d", id))
}

func (d *Device) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.TextureErr != nil {
		return gpucore.InvalidID, d.TextureErr
	}
	id := gpucore.TextureID(d.id())
	d.textures[id] = *desc
	return id, nil
}

func (d *Device) DestroyTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.textures, id)
}

func (d *Device) CreateFramebuffer(_ string, color gpucore.TextureID) (gpucore.FramebufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[color]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: texture %d", ErrUnknownResource, color)
	}
	id := gpucore.FramebufferID(d.id())
	d.framebuffers[id] = color
	return id, nil
}

func (d *Device) DestroyFramebuffer(id gpucore.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.framebuffers, id)
}

func (d *Device) FullscreenQuad() gpucore.BatchID { return QuadBatch }

func (d *Device) BindFramebuffer(fb gpucore.FramebufferID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.BindErr != nil {
		return d.BindErr
	}
	if _, ok := d.framebuffers[fb]; !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownResource, fb)
	}
	d.Bound = fb
	d.Ops = append(d.Ops, fmt.Sprintf("bind:%d", fb))
	return nil
}

func (d *Device) Draw(cmd *gpucore.DrawCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.DrawErr != nil {
		return d.DrawErr
	}
	if _, ok := d.shaders[cmd.Shader]; !ok {
		return fmt.Errorf("%w: shader %d", ErrUnknownResource, cmd.Shader)
	}
	c := *cmd
	c.Textures = append([]gpucore.TextureBinding(nil), cmd.Textures...)
	c.Uniforms = append([]gpucore.UniformValue(nil), cmd.Uniforms...)
	d.Draws = append(d.Draws, c)
	d.Ops = append(d.Ops, "draw:"+cmd.Label)
	return nil
}

// LiveShaders returns the number of shaders not yet destroyed.
func (d *Device) LiveShaders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shaders)
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

// LiveFramebuffers returns the number of framebuffers not yet destroyed.
func (d *Device) LiveFramebuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.framebuffers)
}

// Texture returns the descriptor of a live texture.
func (d *Device) Texture(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	desc, ok := d.textures[id]
	return desc, ok
}

// FramebufferTexture returns the color texture of a live framebuffer.
func (d *Device) FramebufferTexture(fb gpucore.FramebufferID) (gpucore.TextureID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.framebuffers[fb]
	return tex, ok
}

// ResetLog clears Ops and Draws.
func (d *Device) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Ops = nil
	d.Draws = nil
}

var _ gpucore.Device = (*Device)(nil)
