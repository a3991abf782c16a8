// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu_test

import (
	"testing"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend/halgpu"
	"github.com/gogpu/postfx/effects/sobel"
	"github.com/gogpu/postfx/gpucore"
)

// TestSobelChainOnNoop runs the sobel stage through a chain on the HAL noop
// device, compiling the real shader.
func TestSobelChainOnNoop(t *testing.T) {
	dev, err := halgpu.NewNoop()
	if err != nil {
		t.Fatalf("NewNoop failed: %v", err)
	}
	defer dev.Close()

	stage := sobel.New(dev)
	chain := postfx.NewChain(dev, postfx.WithStages(stage))
	defer chain.Close()

	settings := postfx.DefaultSceneSettings()
	settings.Flag |= postfx.SceneSobelEnabled
	view := &postfx.View{
		Settings: &settings,
		Data:     postfx.PerspectiveViewData(0.1, 100, 0.8, 4.0/3.0),
		Viewport: postfx.Viewport{Width: 64, Height: 48},
	}

	for frame := 1; frame <= 2; frame++ {
		if err := chain.BeginFrame(view); err != nil {
			t.Fatalf("frame %d: BeginFrame failed: %v", frame, err)
		}
		if stage.Shader() == gpucore.InvalidID {
			t.Fatalf("frame %d: shader not loaded", frame)
		}
		if view.Passes.Sobel == nil {
			t.Fatalf("frame %d: no sobel pass", frame)
		}
		post := view.Effects.PingPong.Target.Texture
		if err := chain.Draw(view); err != nil {
			t.Fatalf("frame %d: Draw failed: %v", frame, err)
		}
		if got := chain.Output(view); got != post {
			t.Errorf("frame %d: Output() = %d, want post buffer %d", frame, got, post)
		}
	}

	settings.Flag &^= postfx.SceneSobelEnabled
	if err := chain.BeginFrame(view); err != nil {
		t.Fatalf("disabled frame: BeginFrame failed: %v", err)
	}
	if err := chain.Draw(view); err != nil {
		t.Fatalf("disabled frame: Draw failed: %v", err)
	}
	if got := chain.Output(view); got != chain.Buffers().Color.Texture {
		t.Errorf("disabled frame: Output() = %d, want color buffer", got)
	}
}
