// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/postfx/gpucore"
)

// ChainOption configures a Chain during creation.
type ChainOption func(*chainOptions)

type chainOptions struct {
	stages      []Stage
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
}

func defaultChainOptions() chainOptions {
	return chainOptions{
		colorFormat: gputypes.TextureFormatRGBA8Unorm,
		depthFormat: gputypes.TextureFormatRGBA8Unorm,
	}
}

// WithStages appends stages to the chain. Stages run in the order given.
func WithStages(stages ...Stage) ChainOption {
	return func(o *chainOptions) {
		o.stages = append(o.stages, stages...)
	}
}

// WithColorFormat sets the format of the color, normal and post buffers.
func WithColorFormat(format gputypes.TextureFormat) ChainOption {
	return func(o *chainOptions) {
		o.colorFormat = format
	}
}

// WithDepthFormat sets the format of the linearizable depth buffer that
// stages sample. The depth value is read from the first channel.
func WithDepthFormat(format gputypes.TextureFormat) ChainOption {
	return func(o *chainOptions) {
		o.depthFormat = format
	}
}

// Chain runs an ordered list of post-process stages over a view.
//
// Thread Safety: a Chain is driven from the single rendering goroutine.
type Chain struct {
	dev     gpucore.Device
	stages  []Stage
	buffers *FrameBuffers
	frame   uint64
	closed  bool
}

// NewChain creates a chain drawing with dev.
func NewChain(dev gpucore.Device, opts ...ChainOption) *Chain {
	o := defaultChainOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Chain{
		dev:     dev,
		stages:  o.stages,
		buffers: NewFrameBuffers(dev, o.colorFormat, o.depthFormat),
	}
}

// Stages returns the stages in run order.
func (c *Chain) Stages() []Stage { return c.stages }

// Buffers returns the chain's frame buffers.
func (c *Chain) Buffers() *FrameBuffers { return c.buffers }

// Frame returns the number of frames begun.
func (c *Chain) Frame() uint64 { return c.frame }

// BeginFrame prepares v for drawing.
//
// Every stage's Init runs once. A stage whose Init fails is inactive for
// this frame and the failure is logged. The combined flags become
// v.Effects.EnabledEffects, the required buffers are allocated and the
// ping-pong pair is reset to (color, post). Then every stage's CacheInit
// records its passes.
//
// Passes recorded by the previous frame are dropped first. On error the
// view has no passes and no enabled effects, so Draw does nothing.
func (c *Chain) BeginFrame(v *View) error {
	if c.closed {
		return ErrChainClosed
	}
	c.frame++
	log := Logger()
	v.Passes = PassList{}
	v.Effects.EnabledEffects = 0

	var enabled EffectFlags
	for _, s := range c.stages {
		flags, err := s.Init(v)
		if err != nil {
			log.Warn("postfx: stage init failed", "stage", s.Name(), "frame", c.frame, "err", err)
			continue
		}
		enabled |= flags
	}
	if err := c.buffers.Ensure(v.Viewport, enabled); err != nil {
		return err
	}
	v.Effects.EnabledEffects = enabled
	v.Textures = TextureList{Color: c.buffers.Color.Texture, Depth: c.buffers.Depth.Texture}
	v.Effects.NormalInput = c.buffers.Normal.Texture
	v.Effects.PingPong.Reset(c.buffers.Color, c.buffers.Post)

	for _, s := range c.stages {
		s.CacheInit(v)
	}

	log.Debug("postfx: frame begun", "frame", c.frame, "effects", enabled)
	return nil
}

// Draw executes every stage in order.
func (c *Chain) Draw(v *View) error {
	if c.closed {
		return ErrChainClosed
	}
	for _, s := range c.stages {
		if err := s.Draw(v); err != nil {
			return fmt.Errorf("postfx: stage %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Output returns the texture holding the result of the last executed stage.
func (c *Chain) Output(v *View) gpucore.TextureID {
	return v.Effects.PingPong.Source.Texture
}

// Close frees every stage and buffer. Close is idempotent.
func (c *Chain) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, s := range c.stages {
		s.Free()
	}
	c.buffers.Destroy()
}
