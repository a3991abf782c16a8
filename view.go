// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/postfx/draw"
	"github.com/gogpu/postfx/gpucore"
)

// ViewData is the evaluated camera of a view.
//
// ViewVecs[0] is the view-space position of the bottom-left near plane
// corner. ViewVecs[1] is the delta from that corner to the matching far
// plane corner. Only the Z components are used by the post-process stages.
type ViewData struct {
	ViewVecs [2]f32.Vec4
}

// NearZ returns the view-space depth of the near plane.
func (d ViewData) NearZ() float32 { return d.ViewVecs[0][2] }

// FarDeltaZ returns the view-space depth delta from the near to the far plane.
func (d ViewData) FarDeltaZ() float32 { return d.ViewVecs[1][2] }

// PerspectiveViewData returns the view vectors of a perspective camera
// looking down -Z with the given clip distances, vertical field of view
// (radians) and aspect ratio.
func PerspectiveViewData(clipStart, clipEnd, fovY, aspect float32) ViewData {
	t := float32(math.Tan(float64(fovY) / 2))
	near := f32.Vec4{-t * aspect * clipStart, -t * clipStart, -clipStart, 1}
	far := f32.Vec4{-t * aspect * clipEnd, -t * clipEnd, -clipEnd, 1}
	return ViewData{ViewVecs: [2]f32.Vec4{
		near,
		{far[0] - near[0], far[1] - near[1], far[2] - near[2], 0},
	}}
}

// OrthographicViewData returns the view vectors of an orthographic camera
// with the given half extents and clip distances.
func OrthographicViewData(clipStart, clipEnd, halfWidth, halfHeight float32) ViewData {
	return ViewData{ViewVecs: [2]f32.Vec4{
		{-halfWidth, -halfHeight, -clipStart, 1},
		{0, 0, -(clipEnd - clipStart), 0},
	}}
}

// Viewport is the pixel size of the rendered view.
type Viewport struct {
	Width  int
	Height int
}

// Empty reports whether the viewport has no pixels.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// Size returns the viewport dimensions as a vector.
func (v Viewport) Size() f32.Vec2 { return f32.Vec2{float32(v.Width), float32(v.Height)} }

// Buffer is a color texture together with the framebuffer that writes it.
type Buffer struct {
	Texture     gpucore.TextureID
	Framebuffer gpucore.FramebufferID
}

// PingPong is the pair of color buffers shared by the post-process chain.
// A stage reads Source and writes Target, then calls Swap.
type PingPong struct {
	Source Buffer
	Target Buffer
}

// Reset sets the pair at the start of a frame.
func (p *PingPong) Reset(source, target Buffer) {
	p.Source = source
	p.Target = target
}

// Swap exchanges Source and Target.
func (p *PingPong) Swap() {
	p.Source, p.Target = p.Target, p.Source
}

// EffectsInfo is the per-view post-process state of one frame.
//
// The Sobel fields are written by the sobel stage's Init only when the effect
// is active and read through live references by its pass.
type EffectsInfo struct {
	EnabledEffects EffectFlags

	TexelSize f32.Vec2
	ClipStart float32
	ClipEnd   float32

	SobelNormalThreshold  float32
	SobelNormalStrength   float32
	SobelNormalDepthDecay float32
	SobelDepthThreshold   float32
	SobelDepthStrength    float32
	SobelLineThickness    float32
	SobelLineColor        f32.Vec3

	PingPong    PingPong
	NormalInput gpucore.TextureID
}

// TextureList holds the scene textures rendered before post-processing.
type TextureList struct {
	Color gpucore.TextureID
	Depth gpucore.TextureID
}

// PassList holds the passes recorded for the current frame.
// A nil pass means the stage is inactive this frame.
type PassList struct {
	Sobel *draw.Pass
}

// View is one rendered view and all of its frame-scoped state.
type View struct {
	Settings *SceneSettings
	Data     ViewData
	Viewport Viewport

	Effects  EffectsInfo
	Textures TextureList
	Passes   PassList
}

// Stage is a post-process stage driven by a Chain.
//
// Init runs first each frame and reports which effects and buffers the stage
// needs. CacheInit records the stage's passes and runs only after the frame's
// EnabledEffects is known. Draw executes them. Free releases resources held
// across frames and is called once.
type Stage interface {
	Name() string
	Init(v *View) (EffectFlags, error)
	CacheInit(v *View)
	Draw(v *View) error
	Free()
}
