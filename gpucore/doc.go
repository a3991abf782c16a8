// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore provides the GPU abstraction shared by postfx stages and
// backends.
//
// This package defines the [Device] interface, which abstracts over the GPU
// backends a post-process chain can run on:
//   - gogpu/wgpu HAL (internal/halgpu), WGSL shaders compiled through naga
//   - OpenGL 3.2 core (internal/glgpu), GLSL shaders with uniforms by name
//
// # Architecture
//
// Stages never talk to a backend directly. They record passes with the draw
// package, and the recorded commands are resolved into [DrawCommand] values
// at execution time:
//
//	+-------------------+      +-----------+      +------------------+
//	| stage (sobel ...) | ---> | draw.Pass | ---> | gpucore.Device   |
//	+-------------------+      +-----------+      +--------+---------+
//	                                                       |
//	                                      +----------------+---------------+
//	                                      |                                |
//	                             +--------v--------+              +--------v--------+
//	                             |  halgpu         |              |  glgpu          |
//	                             |  (hal.Device)   |              |  (go-gl)        |
//	                             +-----------------+              +-----------------+
//
// # Resource Management
//
// GPU resources are referenced through opaque IDs ([ShaderID], [TextureID],
// [FramebufferID], [BatchID]). Each Device maintains the mapping between IDs
// and backend objects. The zero value [InvalidID] never names a resource.
//
// # Shaders
//
// Effects ship a fragment stage only. [ShaderDesc] lists the texture and
// uniform names the fragment stage reads; the backend supplies the fullscreen
// vertex stage and resolves names to binding slots (hal) or uniform
// locations (GL). Uniform blocks are laid out by [PackUniforms].
package gpucore
