// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glgpu implements gpucore.Device on OpenGL 3.2 core through
// github.com/go-gl/gl.
//
// The package is built only with the gl build tag:
//
//	go build -tags gl ./...
//
// An OpenGL context must be current on the calling thread before New is
// called and for every later call. Shaders use the GLSL variant of
// gpucore.ShaderDesc; the vertex stage is generated from gl_VertexID and
// passes uv_interp to the fragment stage.
//
// Importing the package registers the "gl" backend.
package glgpu
