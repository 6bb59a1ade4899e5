// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Provider is an alias for gpucontext.DeviceProvider, giving the frame
// graph a domain-specific name for the interface while staying fully
// compatible with the rest of the gpucontext ecosystem. A Driver is
// built from a Provider with New.
type Provider = gpucontext.DeviceProvider

// Driver is the command sink the frame graph passes to every surviving
// pass's execute callback and flushes after each one. It is a thin,
// pass-through wrapper over a gpucontext.DeviceProvider: the frame graph
// never interprets what an executor records, it only guarantees Flush is
// called once the callback returns.
type Driver interface {
	// Device returns the underlying logical device, or nil for a
	// headless/CPU-only driver.
	Device() gpucontext.Device

	// Queue returns the device's submission queue, or nil for a
	// headless/CPU-only driver.
	Queue() gpucontext.Queue

	// SurfaceFormat returns the preferred surface format for render
	// targets that don't specify one explicitly.
	SurfaceFormat() gputypes.TextureFormat

	// Flush submits whatever commands have been recorded since the last
	// Flush. The frame graph calls this once after every surviving
	// pass's execute callback returns.
	Flush()
}

// driverFromProvider adapts a Provider to a Driver by pairing it with a
// caller-supplied flush function, since gpucontext.DeviceProvider itself
// has no notion of "submit now".
type driverFromProvider struct {
	Provider
	flush func()
}

// New builds a Driver from a device provider and a flush function. Host
// applications that already implement gpucontext.DeviceProvider (as
// gogpu.App does) can pass it directly here along with whatever command
// buffer submission call their backend uses for flush.
func New(p Provider, flush func()) Driver {
	if flush == nil {
		flush = func() {}
	}
	return &driverFromProvider{Provider: p, flush: flush}
}

func (d *driverFromProvider) Flush() { d.flush() }

// NullDriver is a Driver that performs no GPU work. It is used for
// headless/CPU-only execution and in frame graph unit tests, mirroring
// gg's render.NullDeviceHandle.
type NullDriver struct{}

func (NullDriver) Device() gpucontext.Device             { return nil }
func (NullDriver) Queue() gpucontext.Queue               { return nil }
func (NullDriver) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (NullDriver) Adapter() gpucontext.Adapter           { return nil }
func (NullDriver) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (NullDriver) Flush()                                {}

var (
	_ Driver = (*driverFromProvider)(nil)
	_ Driver = NullDriver{}
)
