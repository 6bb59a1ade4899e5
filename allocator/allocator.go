// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package allocator defines the frame graph's ResourceAllocator
// collaborator: the low-level pool of concrete textures and render
// targets the frame graph's Compile/Execute phases acquire from and
// release back to on resource lifetime boundaries.
//
// The frame graph itself never allocates GPU memory; it only calls
// Acquire/Release symmetrically around a resource's
// [firstPass, lastPass] interval and trusts the allocator to pool
// underneath. Two implementations are provided: [Pool], an in-memory
// reference pool for tests and CPU-only use, and [WGPUPool], a
// production allocator backed by a caller-supplied [Device].
package allocator

import "github.com/gogpu/gputypes"

// TextureUsage mirrors framegraph.TextureUsage at the allocation layer.
// The two are intentionally distinct types: this package has no
// dependency on the frame graph package, only the reverse.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// TextureDescriptor is the allocation request for a single concrete
// texture. Two descriptors that compare equal (==) may share a pooled
// texture.
type TextureDescriptor struct {
	Width         uint32
	Height        uint32
	Depth         uint32
	MipLevelCount uint32
	SampleCount   uint32
	Format        gputypes.TextureFormat
	Usage         TextureUsage

	// DoesntNeedTexture is the hint forwarded from
	// Builder.Read(h, doesntNeedTexture). It is advisory: reference
	// allocators are free to ignore it. See SPEC_FULL.md Open
	// Question 3.
	DoesntNeedTexture bool
}

// RenderTargetDescriptor is the structural allocation key for a render
// target: the format of each occupied attachment slot plus the
// dimensions and sample count every occupied slot shares. Two
// descriptors that compare equal (==) may share one pooled
// RenderTargetResource.
type RenderTargetDescriptor struct {
	ColorFormats [4]gputypes.TextureFormat
	ColorUsed    [4]bool
	DepthFormat  gputypes.TextureFormat
	HasDepth     bool
	StencilFormat gputypes.TextureFormat
	HasStencil    bool
	Width         uint32
	Height        uint32
	Samples       uint32
}

// RenderTargetAttachments carries the already-acquired concrete texture
// handles to bind into a new render target object. A nil entry means
// that slot is unused, matching RenderTargetDescriptor.ColorUsed/HasDepth/HasStencil.
type RenderTargetAttachments struct {
	Color   [4]any
	Depth   any
	Stencil any
}

// ResourceAllocator is the facade the frame graph depends on for
// concrete GPU resources. Implementations are expected to pool: the
// frame graph guarantees every Acquire is matched by exactly one
// Release with an equal descriptor.
type ResourceAllocator interface {
	// AcquireTexture returns a concrete texture satisfying desc,
	// reusing a pooled one if available.
	AcquireTexture(desc TextureDescriptor) (any, error)

	// ReleaseTexture returns a concrete texture obtained from
	// AcquireTexture back to the pool.
	ReleaseTexture(desc TextureDescriptor, concrete any)

	// AcquireRenderTarget returns a concrete render target satisfying
	// desc, bound to the given attachments.
	AcquireRenderTarget(desc RenderTargetDescriptor, attachments RenderTargetAttachments) (any, error)

	// ReleaseRenderTarget returns a concrete render target obtained
	// from AcquireRenderTarget back to the pool.
	ReleaseRenderTarget(desc RenderTargetDescriptor, concrete any)
}
