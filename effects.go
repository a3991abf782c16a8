// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package postfx

import (
	"fmt"
	"strings"
)

// EffectFlags is the set of optional stages and buffers active in a frame.
//
// It is derived once per frame from the Init results of all stages and then
// read by CacheInit and Draw. Stages never recompute it.
type EffectFlags uint32

// Effect flags.
const (
	// EffectSobel marks the sobel edge overlay as active.
	EffectSobel EffectFlags = 1 << iota

	// EffectNormalBuffer requests the view-space normal buffer.
	EffectNormalBuffer

	// EffectPostBuffer requests the second ping-pong color buffer.
	EffectPostBuffer
)

var effectNames = [...]struct {
	flag EffectFlags
	name string
}{
	{EffectSobel, "Sobel"},
	{EffectNormalBuffer, "NormalBuffer"},
	{EffectPostBuffer, "PostBuffer"},
}

// Has reports whether every flag in want is set.
func (f EffectFlags) Has(want EffectFlags) bool {
	return f&want == want
}

// String returns the set flags joined with "|".
func (f EffectFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	rest := f
	for _, e := range effectNames {
		if f&e.flag != 0 {
			parts = append(parts, e.name)
			rest &^= e.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}
