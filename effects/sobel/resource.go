// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sobel

import (
	"fmt"
	"sync"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/gpucore"
)

// shaderResource lazily compiles the effect shader and keeps it until
// Release. Calls are serialized.
type shaderResource struct {
	mu  sync.Mutex
	dev gpucore.Device
	id  gpucore.ShaderID
}

// EnsureLoaded returns the cached shader, compiling it first if needed.
// A failed compile leaves the cache empty, so the next call tries again.
func (r *shaderResource) EnsureLoaded() (gpucore.ShaderID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != gpucore.InvalidID {
		return r.id, nil
	}
	id, err := r.dev.CreateShader(ShaderDesc())
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("sobel: create shader: %w", err)
	}
	r.id = id
	postfx.Logger().Debug("sobel: shader compiled", "shader", id)
	return id, nil
}

// Release destroys the cached shader. It is a no-op when nothing is loaded.
func (r *shaderResource) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id == gpucore.InvalidID {
		return
	}
	r.dev.DestroyShader(r.id)
	r.id = gpucore.InvalidID
}

// Handle returns the cached shader without loading it.
func (r *shaderResource) Handle() gpucore.ShaderID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}
