// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "errors"

// Programmer-error sentinels. The frame graph is not a user-input
// boundary: a client that trips one of these has a bug in how it
// declared its graph, not bad runtime data. The first four are surfaced
// immediately via panic (see the must helper below).
// ErrUnknownResourceInExecute does not panic: Resources returns it to
// the execute callback as an ordinary error. Execute only returns an
// error of its own for failures that originate outside the graph
// itself, such as an allocator running out of memory, or for an error
// an execute callback returned; Compile returns no error.
var (
	// ErrInvalidHandle is raised by use of a handle after it was
	// consumed by a write, or against a different FrameGraph.
	ErrInvalidHandle = errors.New("framegraph: invalid handle")

	// ErrBadRenderTarget is raised when a render target declaration
	// references an attachment not read or written by the declaring
	// pass.
	ErrBadRenderTarget = errors.New("framegraph: render target attachment not declared by pass")

	// ErrTypeMismatch is raised when a Handle[T] is used to access an
	// entry that was created with a different resource kind.
	ErrTypeMismatch = errors.New("framegraph: handle resource kind mismatch")

	// ErrExecutorCaptureTooLarge is raised when a pass's per-pass data
	// struct exceeds maxCaptureSize.
	ErrExecutorCaptureTooLarge = errors.New("framegraph: execute closure data exceeds capture size limit")

	// ErrUnknownResourceInExecute is raised when an execute callback
	// asks FrameGraphPassResources for a handle the pass never
	// declared during setup.
	ErrUnknownResourceInExecute = errors.New("framegraph: resource not declared by this pass")
)

// ErrAllocatorFailure wraps an error returned by the ResourceAllocator
// collaborator during Execute. Unlike the panicking sentinels above,
// this is not necessarily the client's bug, so it is returned as an
// ordinary error rather than panicked.
var ErrAllocatorFailure = errors.New("framegraph: resource allocator failure")

// must panics with err if it is non-nil. Used at the handful of call
// sites that treat a programmer-error sentinel as fatal, mirroring the
// MustNew-style panicking helpers used elsewhere in the gogpu ecosystem.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
