// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sobel implements the sobel edge overlay post-process stage.
//
// The stage darkens (or tints with a line color) the pixels where scene depth
// or surface normals are discontinuous, approximating outline rendering. It
// runs inside a [postfx.Chain] and follows the chain's hooks:
//
//   - Init: when the scene enables the effect, load the shader once, derive
//     texel size and clip distances, copy the tunables into the frame's
//     [postfx.EffectsInfo] and request the normal and post buffers.
//   - CacheInit: record the "Sobel" pass with live bindings to the depth,
//     source color and normal textures and to the effect parameters.
//   - Draw: bind the ping-pong target, draw the pass, swap the pair.
//   - Free: release the shader.
//
// The edge detection itself lives in the embedded shaders.
package sobel
