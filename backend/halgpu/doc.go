// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halgpu implements gpucore.Device on top of the gogpu/wgpu HAL.
//
// Each shader becomes a render pipeline whose vertex stage draws a
// fullscreen triangle pair from vertex_index and whose fragment stage is the
// shader's WGSL, compiled to SPIR-V with gogpu/naga. Uniforms are packed
// into a uniform buffer at binding 0; textures follow at bindings 1..n in
// ShaderDesc.Textures order and are read with textureLoad.
//
// Draws are submitted immediately and waited on with a fence, so results are
// visible to the next draw without extra synchronization.
//
// # Devices
//
//	dev, err := halgpu.NewNoop()                      // headless, for tests and CI
//	dev, err := halgpu.Open(gputypes.BackendVulkan)   // standalone GPU device
//	dev, err := halgpu.NewFromProvider(provider)      // share a host device
//	dev := halgpu.New(halDevice, halQueue)            // caller-owned device
//
// Importing the package registers the "noop" and "vulkan" backends with
// the backend registry. Vulkan additionally needs the HAL driver:
//
//	import _ "github.com/gogpu/wgpu/hal/vulkan"
package halgpu
