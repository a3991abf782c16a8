// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sobel

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/draw"
	"github.com/gogpu/postfx/gpucore"
)

// PassName is the name of the pass recorded by the stage.
const PassName = "Sobel"

// RequiredEffects is returned by Init when the effect is active.
const RequiredEffects = postfx.EffectSobel | postfx.EffectNormalBuffer | postfx.EffectPostBuffer

// Stage is the sobel edge overlay stage. It owns the effect shader for its
// whole lifetime.
type Stage struct {
	dev    gpucore.Device
	shader shaderResource
}

// New creates a stage drawing with dev. Nothing is compiled until the effect
// is first enabled.
func New(dev gpucore.Device) *Stage {
	return &Stage{dev: dev, shader: shaderResource{dev: dev}}
}

// Name implements postfx.Stage.
func (s *Stage) Name() string { return "sobel" }

// Shader returns the cached shader, or gpucore.InvalidID if none is loaded.
func (s *Stage) Shader() gpucore.ShaderID { return s.shader.Handle() }

// Init implements postfx.Stage.
//
// When the scene does not enable the effect, Init returns no flags and leaves
// the view untouched. Otherwise it loads the shader, fills the sobel fields of
// v.Effects and returns RequiredEffects. A shader compile error is returned
// and the stage stays inactive for the frame.
func (s *Stage) Init(v *postfx.View) (postfx.EffectFlags, error) {
	if v.Settings == nil || v.Settings.Flag&postfx.SceneSobelEnabled == 0 {
		return 0, nil
	}
	if _, err := s.shader.EnsureLoaded(); err != nil {
		return 0, err
	}

	cfg := &v.Settings.Sobel
	fx := &v.Effects
	fx.TexelSize = TexelSize(v.Viewport)
	fx.ClipStart, fx.ClipEnd = ClipRange(v.Data)
	fx.SobelNormalThreshold = cfg.NormalThreshold
	fx.SobelNormalStrength = cfg.NormalStrength
	fx.SobelNormalDepthDecay = cfg.NormalDepthDecay
	fx.SobelDepthThreshold = cfg.DepthThreshold
	fx.SobelDepthStrength = cfg.DepthStrength
	fx.SobelLineThickness = cfg.LineThickness
	fx.SobelLineColor = cfg.LineColor

	return RequiredEffects, nil
}

// CacheInit implements postfx.Stage. It records v.Passes.Sobel when the effect
// is enabled this frame.
func (s *Stage) CacheInit(v *postfx.View) {
	if !v.Effects.EnabledEffects.Has(postfx.EffectSobel) {
		return
	}
	shader := s.shader.Handle()
	if shader == gpucore.InvalidID {
		postfx.Logger().Warn("sobel: effect enabled without a loaded shader")
		return
	}
	v.Passes.Sobel = BuildPass(&v.Effects, &v.Textures, shader, s.dev.FullscreenQuad())
	postfx.Logger().Debug("sobel: pass built", "shader", shader)
}

// Draw implements postfx.Stage.
func (s *Stage) Draw(v *postfx.View) error {
	return Execute(s.dev, v.Effects.EnabledEffects, v.Passes.Sobel, &v.Effects)
}

// Free implements postfx.Stage. It releases the shader.
func (s *Stage) Free() {
	s.shader.Release()
}

// TexelSize returns the size of one pixel of vp in normalized coordinates.
func TexelSize(vp postfx.Viewport) f32.Vec2 {
	return f32.Vec2{1 / float32(vp.Width), 1 / float32(vp.Height)}
}

// ClipRange returns the near and far clip distances of a view.
//
// The far distance is the near distance plus the magnitude of the
// near-to-far delta, not the far plane read on its own.
func ClipRange(d postfx.ViewData) (start, end float32) {
	start = abs32(d.NearZ())
	end = start + abs32(d.FarDeltaZ())
	return start, end
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// BuildPass records the sobel pass.
//
// Every binding is a live reference into fx or txl, so textures swapped and
// parameters changed before the pass is drawn are picked up.
func BuildPass(fx *postfx.EffectsInfo, txl *postfx.TextureList, shader gpucore.ShaderID, quad gpucore.BatchID) *draw.Pass {
	pass := draw.NewPass(PassName, gpucore.StateWriteColor)
	grp := pass.NewShadingGroup(shader)

	grp.UniformTextureRef(TexDepth, &txl.Depth)
	grp.UniformTextureRef(TexColor, &fx.PingPong.Source.Texture)
	grp.UniformTextureRef(TexNormal, &fx.NormalInput)

	grp.UniformVec2("offset", &fx.TexelSize)
	grp.UniformFloat("z_near", &fx.ClipStart)
	grp.UniformFloat("z_far", &fx.ClipEnd)
	grp.UniformFloat("normal_threshold", &fx.SobelNormalThreshold)
	grp.UniformFloat("normal_strength", &fx.SobelNormalStrength)
	grp.UniformFloat("normal_depth_decay", &fx.SobelNormalDepthDecay)
	grp.UniformFloat("depth_threshold", &fx.SobelDepthThreshold)
	grp.UniformFloat("depth_strength", &fx.SobelDepthStrength)
	grp.UniformFloat("line_thickness", &fx.SobelLineThickness)
	grp.UniformVec3("line_color", &fx.SobelLineColor)

	grp.CallAdd(quad)
	return pass
}

// Execute draws pass into the ping-pong target and swaps the pair.
// It does nothing when enabled lacks postfx.EffectSobel.
func Execute(dev gpucore.Device, enabled postfx.EffectFlags, pass *draw.Pass, fx *postfx.EffectsInfo) error {
	if !enabled.Has(postfx.EffectSobel) {
		return nil
	}
	if pass == nil {
		return fmt.Errorf("sobel: %w", draw.ErrPassEmpty)
	}

	if err := dev.BindFramebuffer(fx.PingPong.Target.Framebuffer); err != nil {
		return fmt.Errorf("sobel: bind target: %w", err)
	}
	if err := pass.Draw(dev); err != nil {
		return fmt.Errorf("sobel: %w", err)
	}
	fx.PingPong.Swap()
	return nil
}

var _ postfx.Stage = (*Stage)(nil)
