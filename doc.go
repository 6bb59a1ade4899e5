// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framegraph implements a declarative scheduler for a single
// frame's worth of GPU rendering work.
//
// Rendering code registers a set of passes; each pass declares, during a
// synchronous setup callback, which virtual resources it reads and writes.
// Once every pass has been registered, [FrameGraph.Compile] prunes passes
// whose outputs nobody consumes, assigns concrete backing resources to the
// surviving virtual resources with lifetimes shrunk to the interval of
// use, and derives per-pass attachment discard hints. [FrameGraph.Execute]
// then walks the surviving passes in registration order, invoking each
// pass's execute callback with a driver handle and a resolved view of its
// resources.
//
// # Two-phase protocol
//
// Setup callbacks run synchronously inside AddPass and may freely capture
// the enclosing scope by reference — the Builder they receive is only
// valid for the duration of that call. Execute callbacks run later, from
// Execute, and must only reference the per-pass data struct the frame
// graph passes to them, which setup populated; they must not capture
// the Builder or any value that is only
// valid during setup.
//
// # Resource versioning
//
// Writing a resource produces a new logical version (a new [Handle]) and
// invalidates the handle that was written. Readers see the version
// current at the time they declared the read, not whatever the resource
// becomes afterward.
//
// # Collaborators
//
// The frame graph does not talk to a GPU directly. It depends on two
// external collaborators, defined in sibling packages:
//
//   - [github.com/gogpu/framegraph/driver] — the command sink passed to
//     execute callbacks and flushed between passes.
//   - [github.com/gogpu/framegraph/allocator] — the pool that hands out
//     and reclaims concrete textures and render targets.
package framegraph
