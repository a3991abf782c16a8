// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend"
)

// Open errors.
var (
	// ErrNoAdapter is returned when an instance exposes no adapters.
	ErrNoAdapter = errors.New("halgpu: no GPU adapters found")

	// ErrNilProvider is returned by NewFromProvider for a nil provider.
	ErrNilProvider = errors.New("halgpu: provider is nil")

	// ErrNoHALAccess is returned when a provider does not expose HAL types.
	ErrNoHALAccess = errors.New("halgpu: provider does not expose HAL device and queue")
)

func init() {
	backend.Register(backend.NameNoop, func() (backend.Device, error) {
		return NewNoop()
	})
	backend.Register(backend.NameVulkan, func() (backend.Device, error) {
		return Open(gputypes.BackendVulkan, WithName(backend.NameVulkan))
	})
}

// NewNoop opens a device on the HAL noop backend. Every operation succeeds
// without touching a GPU.
func NewNoop(opts ...Option) (*Device, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("halgpu: create noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: open noop device: %w", err)
	}

	d := New(openDev.Device, openDev.Queue, append([]Option{WithName(backend.NameNoop)}, opts...)...)
	d.instance = instance
	d.owned = true
	return d, nil
}

// Open creates a standalone device on a registered HAL backend, preferring
// discrete and integrated GPUs over software adapters.
func Open(b gputypes.Backend, opts ...Option) (*Device, error) {
	halBackend, ok := hal.GetBackend(b)
	if !ok {
		return nil, fmt.Errorf("%w: HAL backend %v not linked", backend.ErrBackendNotAvailable, b)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("halgpu: open device: %w", err)
	}

	d := New(openDev.Device, openDev.Queue, opts...)
	d.instance = instance
	d.owned = true
	postfx.Logger().Info("halgpu: device opened", "backend", b, "adapter", selected.Info.Name)
	return d, nil
}

// NewFromProvider shares the GPU device of a host application. The provider
// must also expose HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. The pipelines target the provider's surface format unless
// WithColorFormat overrides it. Close does not destroy the shared device.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}

	all := opts
	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		all = append([]Option{WithColorFormat(format)}, opts...)
	}
	d := New(device, queue, append([]Option{WithName("shared")}, all...)...)
	postfx.Logger().Info("halgpu: using shared device", "format", d.opts.colorFormat)
	return d, nil
}
