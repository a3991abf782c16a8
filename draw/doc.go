// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package draw records render passes for fullscreen post-process stages.
//
// A [Pass] groups [ShadingGroup] values that share fixed-function state. Each
// shading group binds one shader, a set of named textures and uniforms, and the
// geometry batches to draw with them.
//
// Bindings are live references: a shading group stores a pointer to the
// caller's field, not a copy of its value. The value is read when
// [Pass.Draw] runs, so a texture or parameter reassigned between recording
// and execution is observed by the draw:
//
//	pass := draw.NewPass("Sobel", gpucore.StateWriteColor)
//	grp := pass.NewShadingGroup(shader)
//	grp.UniformTextureRef("tex_color", &fx.PingPong.Source.Texture)
//	grp.UniformFloat("z_near", &fx.ClipStart)
//	grp.CallAdd(dev.FullscreenQuad())
//	...
//	err := pass.Draw(dev) // reads the current fx fields
//
// Passes are rebuilt every frame and are not safe for concurrent use.
package draw
