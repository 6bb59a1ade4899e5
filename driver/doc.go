// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the frame graph's Driver collaborator: an
// opaque command sink that executor callbacks record into and that the
// frame graph flushes between passes.
//
// The frame graph never creates a driver itself — the host application
// owns the GPU device and passes a Driver in to Execute, the same way
// github.com/gogpu/gg's render.DeviceHandle is received rather than
// created so that the frame graph shares GPU resources with the rest of
// the host application instead of carrying its own device.
package driver
