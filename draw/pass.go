// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import (
	"errors"
	"fmt"

	"github.com/gogpu/postfx/gpucore"
)

// Draw errors.
var (
	// ErrNilReference is returned when a binding refers to a nil location.
	ErrNilReference = errors.New("draw: binding references nil location")

	// ErrNoShader is returned when a shading group has no valid shader.
	ErrNoShader = errors.New("draw: shading group has no shader")

	// ErrPassEmpty is returned when a pass has nothing to draw.
	ErrPassEmpty = errors.New("draw: pass has no draw calls")
)

// Pass is an ordered list of shading groups drawn with the same state.
type Pass struct {
	name   string
	state  gpucore.DrawState
	groups []*ShadingGroup
}

// NewPass creates an empty pass.
func NewPass(name string, state gpucore.DrawState) *Pass {
	return &Pass{name: name, state: state}
}

// Name returns the pass name.
func (p *Pass) Name() string { return p.name }

// State returns the fixed-function state of the pass.
func (p *Pass) State() gpucore.DrawState { return p.state }

// Groups returns the shading groups in draw order.
func (p *Pass) Groups() []*ShadingGroup { return p.groups }

// NewShadingGroup appends a shading group bound to shader.
func (p *Pass) NewShadingGroup(shader gpucore.ShaderID) *ShadingGroup {
	g := &ShadingGroup{shader: shader}
	p.groups = append(p.groups, g)
	return g
}

// Draw resolves every binding and submits one draw command per call to dev.
//
// Resolution happens here, so the latest values of the bound fields are used.
// The framebuffer must already be bound by the caller.
func (p *Pass) Draw(dev gpucore.Device) error {
	var calls int
	for _, g := range p.groups {
		calls += len(g.calls)
	}
	if calls == 0 {
		return fmt.Errorf("%w: %q", ErrPassEmpty, p.name)
	}

	for i, g := range p.groups {
		textures, uniforms, err := g.Resolve()
		if err != nil {
			return fmt.Errorf("draw: pass %q group %d: %w", p.name, i, err)
		}
		for _, batch := range g.calls {
			cmd := &gpucore.DrawCommand{
				Label:    p.name,
				State:    p.state,
				Shader:   g.shader,
				Batch:    batch,
				Textures: textures,
				Uniforms: uniforms,
			}
			if err := dev.Draw(cmd); err != nil {
				return fmt.Errorf("draw: pass %q: %w", p.name, err)
			}
		}
	}
	return nil
}
