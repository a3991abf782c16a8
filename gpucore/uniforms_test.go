// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func readF32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestUniformBlockSize(t *testing.T) {
	tests := []struct {
		name  string
		decls []UniformDecl
		want  uint64
	}{
		{"empty", nil, 0},
		{"one float", []UniformDecl{{"a", UniformFloat}}, 16},
		{"vec2 then float", []UniformDecl{{"a", UniformVec2}, {"b", UniformFloat}}, 16},
		{"float then vec3", []UniformDecl{{"a", UniformFloat}, {"b", UniformVec3}}, 32},
		{"vec4 x2", []UniformDecl{{"a", UniformVec4}, {"b", UniformVec4}}, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniformBlockSize(tt.decls); got != tt.want {
				t.Errorf("UniformBlockSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPackUniformsLayout(t *testing.T) {
	decls := []UniformDecl{
		{"offset", UniformVec2},
		{"z_near", UniformFloat},
		{"z_far", UniformFloat},
		{"line_thickness", UniformFloat},
		{"line_color", UniformVec3},
	}
	values := []UniformValue{
		{Name: "line_color", Kind: UniformVec3, Data: [4]float32{0.25, 0.5, 0.75}},
		{Name: "offset", Kind: UniformVec2, Data: [4]float32{1.0 / 800, 1.0 / 600}},
		{Name: "z_near", Kind: UniformFloat, Data: [4]float32{0.1}},
		{Name: "z_far", Kind: UniformFloat, Data: [4]float32{100}},
		{Name: "line_thickness", Kind: UniformFloat, Data: [4]float32{2}},
	}

	buf, err := PackUniforms(decls, values)
	if err != nil {
		t.Fatalf("PackUniforms() error = %v", err)
	}
	if len(buf) != 48 {
		t.Fatalf("len = %d, want 48", len(buf))
	}

	checks := []struct {
		off  int
		want float32
	}{
		{0, 1.0 / 800},
		{4, 1.0 / 600},
		{8, 0.1},
		{12, 100},
		{16, 2},
		{32, 0.25},
		{36, 0.5},
		{40, 0.75},
	}
	for _, c := range checks {
		if got := readF32(buf, c.off); got != c.want {
			t.Errorf("offset %d = %v, want %v", c.off, got, c.want)
		}
	}
}

func TestPackUniformsErrors(t *testing.T) {
	decls := []UniformDecl{{"z_near", UniformFloat}}

	_, err := PackUniforms(decls, nil)
	if !errors.Is(err, ErrMissingUniform) {
		t.Errorf("missing value: err = %v, want ErrMissingUniform", err)
	}

	_, err = PackUniforms(decls, []UniformValue{{Name: "z_near", Kind: UniformVec2}})
	if !errors.Is(err, ErrUniformKind) {
		t.Errorf("kind mismatch: err = %v, want ErrUniformKind", err)
	}
}

func TestDrawStateString(t *testing.T) {
	tests := []struct {
		state DrawState
		want  string
	}{
		{0, "None"},
		{StateWriteColor, "WriteColor"},
		{StateWriteColor | StateWriteDepth | StateDepthTest, "WriteColor|WriteDepth|DepthTest"},
		{StateWriteColor | 0x100, "WriteColor|0x100"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("DrawState(%d).String() = %q, want %q", uint32(tt.state), got, tt.want)
		}
	}
}

func TestUniformKindComponents(t *testing.T) {
	want := map[UniformKind]int{
		UniformFloat: 1,
		UniformVec2:  2,
		UniformVec3:  3,
		UniformVec4:  4,
		0:            0,
	}
	for k, n := range want {
		if got := k.Components(); got != n {
			t.Errorf("%v.Components() = %d, want %d", k, got, n)
		}
	}
}
