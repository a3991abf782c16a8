// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/postfx/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Well-known backend names.
const (
	NameVulkan = "vulkan"
	NameGL     = "gl"
	NameNoop   = "noop"
)

// Device is a gpucore.Device opened by a registered backend.
//
// Backends must be registered via Register() and are opened via Open() or
// OpenDefault().
type Device interface {
	gpucore.Device

	// Name returns the backend identifier (e.g., "vulkan", "noop").
	Name() string

	// Close releases every resource and the device itself if the backend
	// owns it. The device must not be used after Close.
	Close()
}
