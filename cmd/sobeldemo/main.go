// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command sobeldemo runs the sobel edge overlay for a number of frames on a
// registered backend and reports what each frame did.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/backend"
	_ "github.com/gogpu/postfx/backend/halgpu"
	"github.com/gogpu/postfx/effects/sobel"
)

func main() {
	var (
		width   = flag.Int("width", 800, "viewport width")
		height  = flag.Int("height", 600, "viewport height")
		frames  = flag.Int("frames", 3, "number of frames to render")
		name    = flag.String("backend", "", "backend name (empty selects the best available)")
		toggle  = flag.Int("toggle", 0, "flip the sobel scene flag every N frames (0 keeps it on)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dev, err := openBackend(*name)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer dev.Close()
	log.Printf("Backend %s (available: %v)", dev.Name(), backend.Available())

	stage := sobel.New(dev)
	chain := postfx.NewChain(dev, postfx.WithStages(stage))
	defer chain.Close()

	settings := postfx.DefaultSceneSettings()
	aspect := float32(*width) / float32(*height)
	view := &postfx.View{
		Settings: &settings,
		Data:     postfx.PerspectiveViewData(0.1, 100, 0.8, aspect),
		Viewport: postfx.Viewport{Width: *width, Height: *height},
	}

	for i := 1; i <= *frames; i++ {
		settings.Flag = sceneFlags(settings.Flag, i, *toggle)
		if err := chain.BeginFrame(view); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		if err := chain.Draw(view); err != nil {
			log.Fatalf("Frame %d: %v", i, err)
		}
		log.Printf("Frame %d: effects=%v output=%d", i, view.Effects.EnabledEffects, chain.Output(view))
	}
}

// sceneFlags returns flags with the sobel effect set for frame (1-based).
// With toggle > 0 the effect is on for the first toggle frames, then off for
// the next toggle frames, and so on. With toggle <= 0 it stays on.
func sceneFlags(flags postfx.SceneFlags, frame, toggle int) postfx.SceneFlags {
	if toggle > 0 && ((frame-1)/toggle)%2 == 1 {
		return flags &^ postfx.SceneSobelEnabled
	}
	return flags | postfx.SceneSobelEnabled
}

func openBackend(name string) (backend.Device, error) {
	if name == "" {
		return backend.OpenDefault()
	}
	return backend.Open(name)
}
