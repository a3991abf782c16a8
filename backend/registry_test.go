// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/postfx/internal/gputest"
)

// fakeDevice is a registry entry backed by the recording device.
type fakeDevice struct {
	*gputest.Device
	name   string
	closed bool
}

func (d *fakeDevice) Name() string { return d.name }
func (d *fakeDevice) Close()       { d.closed = true }

func registerFake(t *testing.T, name string, err error) {
	t.Helper()
	Register(name, func() (Device, error) {
		if err != nil {
			return nil, err
		}
		return &fakeDevice{Device: gputest.NewDevice(), name: name}, nil
	})
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryRegisterAndOpen(t *testing.T) {
	registerFake(t, "test-ok", nil)

	if !IsRegistered("test-ok") {
		t.Fatal("test-ok not registered")
	}
	if !slices.Contains(Available(), "test-ok") {
		t.Errorf("Available() = %v, want it to include test-ok", Available())
	}

	dev, err := Open("test-ok")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if dev.Name() != "test-ok" {
		t.Errorf("Name() = %q", dev.Name())
	}
	dev.Close()
}

func TestRegistryOpenErrors(t *testing.T) {
	if _, err := Open("nonexistent"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}

	errNoGPU := errors.New("no adapters")
	registerFake(t, "test-broken", errNoGPU)
	if _, err := Open("test-broken"); !errors.Is(err, errNoGPU) {
		t.Errorf("Open(test-broken) error = %v, want %v", err, errNoGPU)
	}
}

func TestRegistryUnregister(t *testing.T) {
	registerFake(t, "test-gone", nil)
	Unregister("test-gone")
	if IsRegistered("test-gone") {
		t.Error("test-gone still registered after Unregister")
	}
}

func TestRegistryOpenDefault(t *testing.T) {
	if got := Available(); len(got) != 0 {
		t.Fatalf("registry not empty at test start: %v", got)
	}
	if _, err := OpenDefault(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("empty registry: err = %v, want ErrBackendNotAvailable", err)
	}

	registerFake(t, "a-extra", nil)
	registerFake(t, NameNoop, nil)
	registerFake(t, NameVulkan, errors.New("no vulkan driver"))

	dev, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error = %v", err)
	}
	defer dev.Close()
	// vulkan fails, gl is absent, noop wins over non-priority backends.
	if dev.Name() != NameNoop {
		t.Errorf("OpenDefault() = %q, want %q", dev.Name(), NameNoop)
	}

	Unregister(NameNoop)
	dev2, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error = %v", err)
	}
	defer dev2.Close()
	if dev2.Name() != "a-extra" {
		t.Errorf("OpenDefault() = %q, want a-extra", dev2.Name())
	}
}
