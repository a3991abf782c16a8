// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend"
	"github.com/gogpu/postfx/gpucore"
)

// Device errors.
var (
	// ErrClosed is returned when a closed device is used.
	ErrClosed = errors.New("halgpu: device is closed")

	// ErrUnknownShader is returned when a draw refers to an unknown shader.
	ErrUnknownShader = errors.New("halgpu: unknown shader")

	// ErrUnknownTexture is returned when an operation refers to an unknown texture.
	ErrUnknownTexture = errors.New("halgpu: unknown texture")

	// ErrUnknownFramebuffer is returned when binding an unknown framebuffer.
	ErrUnknownFramebuffer = errors.New("halgpu: unknown framebuffer")

	// ErrNoFramebuffer is returned when drawing with no framebuffer bound.
	ErrNoFramebuffer = errors.New("halgpu: no framebuffer bound")

	// ErrUnknownBatch is returned when a draw refers to a batch other than
	// the fullscreen quad.
	ErrUnknownBatch = errors.New("halgpu: unknown batch")

	// ErrUnsupportedState is returned for draw states this backend cannot
	// express (depth test/write, disabled color writes).
	ErrUnsupportedState = errors.New("halgpu: unsupported draw state")

	// ErrMissingTexture is returned when a draw does not bind a texture the
	// shader declares.
	ErrMissingTexture = errors.New("halgpu: shader texture not bound")

	// ErrGPUTimeout is returned when a submission does not finish in time.
	ErrGPUTimeout = errors.New("halgpu: GPU wait timed out")
)

// quadBatch is the only batch: six vertices generated in the vertex stage.
const (
	quadBatch       gpucore.BatchID = 1
	quadVertexCount                 = 6
)

// Option configures a Device during creation.
type Option func(*options)

type options struct {
	colorFormat  gputypes.TextureFormat
	fenceTimeout time.Duration
	name         string
}

func defaultOptions() options {
	return options{
		colorFormat:  gputypes.TextureFormatRGBA8Unorm,
		fenceTimeout: 5 * time.Second,
		name:         "hal",
	}
}

// WithColorFormat sets the target format pipelines are built for eagerly.
// Other formats are built on first use.
func WithColorFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.colorFormat = format
	}
}

// WithFenceTimeout sets how long a draw waits for the GPU.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		o.fenceTimeout = d
	}
}

// WithName sets the name reported by Device.Name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

type textureEntry struct {
	desc    gpucore.TextureDesc
	texture hal.Texture
	view    hal.TextureView
}

// Device implements gpucore.Device using gogpu/wgpu/hal directly.
//
// Thread Safety: Device is safe for concurrent use. All resource operations
// are protected by a mutex; draws are serialized.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	owned    bool // destroy device (and instance) on Close

	opts   options
	nextID atomic.Uint64

	shaders      map[gpucore.ShaderID]*shaderEntry
	textures     map[gpucore.TextureID]*textureEntry
	framebuffers map[gpucore.FramebufferID]gpucore.TextureID
	bound        gpucore.FramebufferID
	closed       bool
}

// New wraps a caller-owned HAL device and queue. Close releases the
// resources created through the Device but not the HAL device itself.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := &Device{
		device:       device,
		queue:        queue,
		opts:         o,
		shaders:      make(map[gpucore.ShaderID]*shaderEntry),
		textures:     make(map[gpucore.TextureID]*textureEntry),
		framebuffers: make(map[gpucore.FramebufferID]gpucore.TextureID),
	}
	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)
	return d
}

// newID generates a unique resource ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name returns the backend name.
func (d *Device) Name() string { return d.opts.name }

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// FullscreenQuad implements gpucore.Device.
func (d *Device) FullscreenQuad() gpucore.BatchID { return quadBatch }

// Close releases every resource created through the device. When the
// device was opened by this package, the HAL device and instance are
// destroyed as well. Close is idempotent.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	var leaked int
	for id, sh := range d.shaders {
		sh.destroy(d.device)
		delete(d.shaders, id)
		leaked++
	}
	for id, tex := range d.textures {
		d.destroyTexture(tex)
		delete(d.textures, id)
		leaked++
	}
	clear(d.framebuffers)
	if leaked > 0 {
		postfx.Logger().Warn("halgpu: releasing resources still alive at Close", "count", leaked)
	}

	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}

var (
	_ gpucore.Device = (*Device)(nil)
	_ backend.Device = (*Device)(nil)
)
