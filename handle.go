// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

// resourceKind tags the concrete flavor of a virtual resource so the
// internal arena, which stores entries type-erased as any, can still
// reject a Handle[T] used against an entry of a different kind at
// runtime (ErrTypeMismatch) even though Go generics already reject most
// mismatches at compile time.
type resourceKind uint8

const (
	kindTexture resourceKind = iota + 1
	kindBuffer
)

// Resource is implemented by the marker types that may parameterize a
// Handle: [Texture] and [Buffer]. It exists purely to constrain Handle's
// type parameter.
type Resource interface {
	resourceKind() resourceKind
	zeroDescriptor() any
}

// Texture is the marker type for Handle[Texture], identifying a virtual
// 2D (or layered) texture resource such as a color or depth attachment.
type Texture struct{}

func (Texture) resourceKind() resourceKind { return kindTexture }
func (Texture) zeroDescriptor() any         { return TextureDescriptor{} }

// Buffer is the marker type for Handle[Buffer], identifying a virtual
// linear GPU buffer resource.
type Buffer struct{}

func (Buffer) resourceKind() resourceKind { return kindBuffer }
func (Buffer) zeroDescriptor() any         { return BufferDescriptor{} }

// Handle is an opaque reference to a ResourceNode: a specific version of
// a virtual resource, parameterized by a phantom resource type T so that
// client code cannot pass a Handle[Buffer] where a Handle[Texture] is
// expected without an explicit conversion.
//
// The zero Handle[T] is never valid: index 0 is reserved so that a
// zero-initialized Handle reads as invalid rather than aliasing the
// first registered resource.
type Handle[T Resource] struct {
	index uint32
}

// IsValid reports whether h refers to a resource node at all. It does
// not consult a FrameGraph, so it cannot detect a handle that has been
// invalidated by a write — use [FrameGraph.IsValid] for that.
func (h Handle[T]) IsValid() bool {
	return h.index != 0
}

// handleKind returns the resourceKind a Handle[T] is expected to refer
// to, used by Read and Write to detect cross-kind misuse.
func handleKind[T Resource]() resourceKind {
	var zero T
	return zero.resourceKind()
}
