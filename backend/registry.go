// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/postfx"
)

// Factory opens a new device of a backend.
type Factory func() (Device, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first that opens wins).
	backendPriority = []string{NameVulkan, NameGL, NameNoop}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens a device of the named backend.
func Open(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrBackendNotAvailable, name)
	}

	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// OpenDefault opens the best available backend.
// Priority order: vulkan > gl > noop, then any other registered backend.
// Backends that fail to open are skipped with a warning.
func OpenDefault() (Device, error) {
	order := make([]string, 0, len(backendPriority))
	seen := make(map[string]bool)
	for _, name := range backendPriority {
		if IsRegistered(name) {
			order = append(order, name)
			seen[name] = true
		}
	}
	for _, name := range Available() {
		if !seen[name] {
			order = append(order, name)
		}
	}

	for _, name := range order {
		dev, err := Open(name)
		if err == nil {
			return dev, nil
		}
		postfx.Logger().Warn("backend: open failed, trying next", "backend", name, "err", err)
	}
	return nil, ErrBackendNotAvailable
}
