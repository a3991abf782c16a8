// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import "golang.org/x/image/math/f32"

// SceneFlags toggles optional post-process effects of a scene.
type SceneFlags uint32

// Scene flags.
const (
	// SceneSobelEnabled enables the sobel edge overlay.
	SceneSobelEnabled SceneFlags = 1 << iota
)

// SceneSettings is the render configuration owned by the scene.
// Stages only read it; it may change between frames.
type SceneSettings struct {
	Flag  SceneFlags
	Sobel SobelSettings
}

// DefaultSceneSettings returns settings with every effect disabled and
// default tunables.
func DefaultSceneSettings() SceneSettings {
	return SceneSettings{Sobel: DefaultSobelSettings()}
}

// SobelSettings holds the user tunables of the sobel edge overlay.
// Values are passed to the shader as-is, without range checks.
type SobelSettings struct {
	// NormalThreshold is the minimum normal difference that counts as an edge.
	NormalThreshold float32

	// NormalStrength scales normal edges.
	NormalStrength float32

	// NormalDepthDecay fades normal edges with distance.
	NormalDepthDecay float32

	// DepthThreshold is the minimum linear depth difference that counts as an edge.
	DepthThreshold float32

	// DepthStrength scales depth edges.
	DepthStrength float32

	// LineThickness is the kernel step in pixels.
	LineThickness float32

	// LineColor is the RGB color of the lines.
	LineColor f32.Vec3
}

// DefaultSobelSettings returns thin black lines with moderate thresholds.
func DefaultSobelSettings() SobelSettings {
	return SobelSettings{
		NormalThreshold:  0.1,
		NormalStrength:   1.0,
		NormalDepthDecay: 0.5,
		DepthThreshold:   0.01,
		DepthStrength:    1.0,
		LineThickness:    1.0,
		LineColor:        f32.Vec3{0, 0, 0},
	}
}
