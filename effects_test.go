// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"math"
	"testing"
)

func TestEffectFlags(t *testing.T) {
	all := EffectSobel | EffectNormalBuffer | EffectPostBuffer

	tests := []struct {
		flags EffectFlags
		want  string
	}{
		{0, "None"},
		{EffectSobel, "Sobel"},
		{all, "Sobel|NormalBuffer|PostBuffer"},
		{EffectPostBuffer | 1<<10, "PostBuffer|0x400"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("EffectFlags(%d).String() = %q, want %q", uint32(tt.flags), got, tt.want)
		}
	}

	if !all.Has(EffectSobel | EffectPostBuffer) {
		t.Error("all.Has(Sobel|Post) = false")
	}
	if EffectSobel.Has(EffectSobel | EffectNormalBuffer) {
		t.Error("Sobel.Has(Sobel|Normal) = true")
	}
	if !EffectFlags(0).Has(0) {
		t.Error("empty set must contain the empty set")
	}
}

func TestPingPongSwap(t *testing.T) {
	a := Buffer{Texture: 1, Framebuffer: 2}
	b := Buffer{Texture: 3, Framebuffer: 4}

	var p PingPong
	p.Reset(a, b)
	p.Swap()
	if p.Source != b || p.Target != a {
		t.Errorf("after Swap: %+v", p)
	}
	p.Swap()
	if p.Source != a || p.Target != b {
		t.Errorf("after second Swap: %+v", p)
	}
}

func TestPerspectiveViewData(t *testing.T) {
	d := PerspectiveViewData(0.1, 100, math.Pi/2, 1)

	if got := d.NearZ(); got != -0.1 {
		t.Errorf("NearZ() = %v, want -0.1", got)
	}
	if got := d.NearZ() + d.FarDeltaZ(); math.Abs(float64(got)+100) > 1e-4 {
		t.Errorf("near + delta = %v, want -100", got)
	}
	// tan(45deg) == 1, so the near corner sits at (-n, -n).
	if x, y := d.ViewVecs[0][0], d.ViewVecs[0][1]; math.Abs(float64(x)+0.1) > 1e-6 || math.Abs(float64(y)+0.1) > 1e-6 {
		t.Errorf("near corner = (%v, %v), want (-0.1, -0.1)", x, y)
	}
}

func TestOrthographicViewData(t *testing.T) {
	d := OrthographicViewData(1, 50, 4, 3)
	if d.NearZ() != -1 || d.FarDeltaZ() != -49 {
		t.Errorf("near/delta = %v/%v, want -1/-49", d.NearZ(), d.FarDeltaZ())
	}
	if d.ViewVecs[1][0] != 0 || d.ViewVecs[1][1] != 0 {
		t.Errorf("orthographic delta must be along Z only: %v", d.ViewVecs[1])
	}
}

func TestViewport(t *testing.T) {
	if !(Viewport{}).Empty() || !(Viewport{Width: 10}).Empty() {
		t.Error("zero-area viewport not reported empty")
	}
	vp := Viewport{Width: 800, Height: 600}
	if vp.Empty() {
		t.Error("800x600 reported empty")
	}
	if s := vp.Size(); s[0] != 800 || s[1] != 600 {
		t.Errorf("Size() = %v", s)
	}
}

func TestDefaultSceneSettings(t *testing.T) {
	s := DefaultSceneSettings()
	if s.Flag&SceneSobelEnabled != 0 {
		t.Error("sobel enabled by default")
	}
	if s.Sobel != DefaultSobelSettings() {
		t.Errorf("Sobel = %+v, want defaults", s.Sobel)
	}
}
