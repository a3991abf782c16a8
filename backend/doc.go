// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a registry of GPU backends for postfx.
//
// Backend packages register a [Factory] from init(), so importing a backend
// for its side effect makes it available:
//
//	import _ "github.com/gogpu/postfx/backend/halgpu"
//
// # Backend Selection
//
// Use OpenDefault() to open the best available backend, or Open() to request
// a specific backend by name:
//
//	dev, err := backend.OpenDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	dev, err = backend.Open(backend.NameNoop)
//
// # Available Backends
//
//   - vulkan: gogpu/wgpu HAL on Vulkan (backend/halgpu)
//   - noop: gogpu/wgpu HAL noop device, headless (backend/halgpu)
//   - gl: OpenGL 3.2 core (backend/glgpu, build tag gl)
package backend
