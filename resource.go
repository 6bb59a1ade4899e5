// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "github.com/gogpu/gputypes"

// TextureUsage is a bitmask specifying how a texture will be used,
// mirroring the usage flags the wider gogpu ecosystem already attaches
// to its own texture descriptors.
type TextureUsage uint32

// Texture usage flags. Combine with bitwise OR.
const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// TextureDescriptor describes a virtual texture resource. Two
// descriptors compare equal (via ==) when every field matches. Compile
// does not compare whole descriptors when deciding whether two render
// targets can share one concrete RenderTargetResource: it compares each
// attachment's Format, the attachments' Width and Height, and the
// RenderTargetDescriptor's Samples.
type TextureDescriptor struct {
	Width         uint32
	Height        uint32
	Depth         uint32 // array layers / 3D depth; 1 for a plain 2D texture
	MipLevelCount uint32
	SampleCount   uint32
	Format        gputypes.TextureFormat
	Usage         TextureUsage
}

// DefaultTextureDescriptor returns a TextureDescriptor with the usual
// defaults; only Width, Height, and Format need to be supplied.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		Depth:         1,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags. Combine with bitwise OR.
const (
	BufferUsageCopySrc BufferUsage = 1 << iota
	BufferUsageCopyDst
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageVertex
	BufferUsageIndex
)

// BufferDescriptor describes a virtual linear buffer resource.
type BufferDescriptor struct {
	Size  uint64
	Usage BufferUsage
}

// TargetBufferFlags is a per-attachment bitmask used for clear and
// discard hints on a render target, mirroring Filament's
// backend::TargetBufferFlags.
type TargetBufferFlags uint8

// Attachment slots. A RenderTargetDescriptor has one Color slot per bit
// in ColorAll plus Depth and Stencil.
const (
	TargetBufferNone TargetBufferFlags = 0

	TargetBufferColor0 TargetBufferFlags = 1 << (iota - 1)
	TargetBufferColor1
	TargetBufferColor2
	TargetBufferColor3
	TargetBufferDepth
	TargetBufferStencil

	TargetBufferColorAll = TargetBufferColor0 | TargetBufferColor1 | TargetBufferColor2 | TargetBufferColor3
	TargetBufferAll      = TargetBufferColorAll | TargetBufferDepth | TargetBufferStencil
)

// Has reports whether every bit in want is set in f.
func (f TargetBufferFlags) Has(want TargetBufferFlags) bool {
	return f&want == want
}

// MaxColorAttachments bounds the number of simultaneous color
// attachments a RenderTargetDescriptor may declare.
const MaxColorAttachments = 4

// attachmentSlot indexes the fixed attachment slots of a render target
// for equality/coalescing purposes; Color slots come first so the slot
// index lines up with a TargetBufferFlags bit shift.
type attachmentSlot int

const (
	slotColor0 attachmentSlot = iota
	slotColor1
	slotColor2
	slotColor3
	slotDepth
	slotStencil
	slotCount
)

// RenderTargetDescriptor declares the attachment set a pass draws into.
// A zero Handle[Texture] in a slot means that slot is unused.
type RenderTargetDescriptor struct {
	Color   [MaxColorAttachments]Handle[Texture]
	Depth   Handle[Texture]
	Stencil Handle[Texture]
	Samples uint32
}

// attachments returns the descriptor's non-zero attachment handles
// alongside their slot, in slot order.
func (d RenderTargetDescriptor) attachments() []struct {
	slot   attachmentSlot
	handle Handle[Texture]
} {
	var out []struct {
		slot   attachmentSlot
		handle Handle[Texture]
	}
	for i, h := range d.Color {
		if h.IsValid() {
			out = append(out, struct {
				slot   attachmentSlot
				handle Handle[Texture]
			}{slotColor0 + attachmentSlot(i), h})
		}
	}
	if d.Depth.IsValid() {
		out = append(out, struct {
			slot   attachmentSlot
			handle Handle[Texture]
		}{slotDepth, d.Depth})
	}
	if d.Stencil.IsValid() {
		out = append(out, struct {
			slot   attachmentSlot
			handle Handle[Texture]
		}{slotStencil, d.Stencil})
	}
	return out
}

// SingleColorAttachment builds a RenderTargetDescriptor with a single
// color attachment, the convenience form documented alongside
// Builder.CreateRenderTarget in Filament's FrameGraph.h.
func SingleColorAttachment(h Handle[Texture]) RenderTargetDescriptor {
	var d RenderTargetDescriptor
	d.Color[0] = h
	return d
}
