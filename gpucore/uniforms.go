// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Uniform packing errors.
var (
	// ErrMissingUniform is returned when a declared uniform has no value.
	ErrMissingUniform = errors.New("gpucore: uniform value missing")

	// ErrUniformKind is returned when a value's kind differs from its declaration.
	ErrUniformKind = errors.New("gpucore: uniform kind mismatch")
)

// uniformAlign returns the WGSL uniform address space alignment of a kind.
func uniformAlign(k UniformKind) uint64 {
	switch k {
	case UniformVec2:
		return 8
	case UniformVec3, UniformVec4:
		return 16
	default:
		return 4
	}
}

// UniformBlockSize returns the byte size of the uniform block described by
// decls, rounded up to 16 bytes as required for uniform buffers.
func UniformBlockSize(decls []UniformDecl) uint64 {
	var off uint64
	for _, d := range decls {
		off = alignUp(off, uniformAlign(d.Kind))
		off += uint64(d.Kind.Components()) * 4
	}
	return alignUp(off, 16)
}

// PackUniforms lays out values in a WGSL uniform block following decls.
//
// Layout rules (WGSL uniform address space):
//   - f32: align 4, size 4
//   - vec2<f32>: align 8, size 8
//   - vec3<f32>: align 16, size 12
//   - vec4<f32>: align 16, size 16
//
// Values are matched to declarations by name. Extra values are ignored.
func PackUniforms(decls []UniformDecl, values []UniformValue) ([]byte, error) {
	byName := make(map[string]*UniformValue, len(values))
	for i := range values {
		byName[values[i].Name] = &values[i]
	}

	buf := make([]byte, UniformBlockSize(decls))
	var off uint64
	for _, d := range decls {
		v, ok := byName[d.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingUniform, d.Name)
		}
		if v.Kind != d.Kind {
			return nil, fmt.Errorf("%w: %q is %v, declared %v", ErrUniformKind, d.Name, v.Kind, d.Kind)
		}
		off = alignUp(off, uniformAlign(d.Kind))
		for c := 0; c < d.Kind.Components(); c++ {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Data[c]))
			off += 4
		}
	}
	return buf, nil
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
