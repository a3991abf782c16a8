// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package postfx runs screen-space post-process stages over a rendered view.
//
// A frame goes through a [Chain] in two calls. [Chain.BeginFrame] asks every
// [Stage] whether it is active (Init), combines the answers into the frame's
// [EffectFlags], allocates the buffers those flags require, and lets each
// active stage record its render pass (CacheInit). [Chain.Draw] then executes
// the stages in order. Each stage binds the ping-pong target, draws, and swaps
// the pair so the next stage reads its output.
//
// # Quick Start
//
//	dev, _ := halgpu.NewNoop()
//	chain := postfx.NewChain(dev, postfx.WithStages(sobel.New(dev)))
//	defer chain.Close()
//
//	settings := postfx.DefaultSceneSettings()
//	settings.Flag |= postfx.SceneSobelEnabled
//
//	view := &postfx.View{
//	    Settings: &settings,
//	    Data:     postfx.PerspectiveViewData(0.1, 100, math.Pi/3, 800.0/600),
//	    Viewport: postfx.Viewport{Width: 800, Height: 600},
//	}
//	if err := chain.BeginFrame(view); err != nil { ... }
//	if err := chain.Draw(view); err != nil { ... }
//	out := chain.Output(view)
//
// # Backends
//
// Stages talk to a [gpucore.Device]. The backend/halgpu backend runs on
// gogpu/wgpu HAL (Vulkan, or the noop device for headless use). The
// backend/glgpu backend runs on OpenGL 3.2 core and is built with the gl tag.
//
// # Logging
//
// postfx is silent by default. Use [SetLogger] to route diagnostics to a
// [log/slog] logger.
package postfx
