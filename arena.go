// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "github.com/gogpu/framegraph/driver"

// This file holds the FrameGraph's internal graph representation: the
// linear-arena-owned node types the spec calls ResourceEntry,
// ResourceNode, PassNode, RenderTarget, and RenderTargetResource. There
// is no Alias node type: MoveResource records aliases in
// FrameGraph.aliasOf (graph.go). They are unexported; client code only ever sees a Handle[T] or a
// *PassRef. Rather than a pointer graph (as in the C++ source this is
// grounded on), nodes live in append-only slices on the FrameGraph and
// cross-reference each other by small integer index, which sidesteps
// dangling-pointer risk and makes Compile's graph rewrites (alias
// resolution in particular) a matter of reassigning an index rather than
// repointing a pointer.

// executor is the type-erased invocable a PassNode stores for its
// execute phase. concretePass[Data] implements it by closing over the
// pass's per-pass data struct and the client's ExecuteFunc[Data].
type executor interface {
	execute(res *Resources, drv driver.Driver) error
}

// resourceEntry is the logical identity of a virtual resource across all
// of its versions (resourceNodes). It is what Compile assigns a concrete
// backing object and a liveness interval to.
type resourceEntry struct {
	id         uint32 // monotonic id stable across alias rewrites (Filament's mId)
	name       string
	kind       resourceKind
	descriptor any // TextureDescriptor or BufferDescriptor

	imported bool
	concrete any // pre-existing concrete handle for imported entries

	// Set by ImportRenderTarget when this entry backs an imported
	// render target's attachment, so Builder.CreateRenderTarget can
	// recognize the render target it declares as already-concrete
	// instead of something Compile needs to coalesce and allocate.
	importedRenderTarget      any
	importedRTWidth           uint32
	importedRTHeight          uint32
	importedRTDiscardStart    TargetBufferFlags
	importedRTDiscardEnd      TargetBufferFlags

	nodes []uint32 // indices into FrameGraph.nodes, in creation order

	// doesntNeedTexture is set when any Read of this entry passed the
	// hint, forwarded to the allocator as
	// allocator.TextureDescriptor.DoesntNeedTexture.
	doesntNeedTexture bool

	// Populated by Compile.
	culled      bool
	firstPass   int
	lastPass    int
	boundConcrete any // concrete resource bound for [firstPass, lastPass]
}

// resourceNode is a single version of a resourceEntry. Writing an entry
// appends a new node; the node a Handle[T] was minted from never moves,
// so old handles keep referring to the same (now historical) node even
// after a later write supersedes it for the purpose of IsValid.
type resourceNode struct {
	entry *resourceEntry

	version  uint32
	producer uint32 // index into FrameGraph.passes, or noPass if none
	reads    []uint32

	// superseded is set when a later write to the same entry makes this
	// node's Handle invalid (spec Invariant 1). It does not remove the
	// node: historical readers recorded in `reads` remain meaningful.
	superseded bool

	// refCount is computed fresh by Compile's reference-counting pass.
	refCount int
	culled   bool
}

const noPass = ^uint32(0)

// renderTarget is a per-pass declaration of an attachment set, created
// by Builder.CreateRenderTarget. Its backing renderTargetResource is
// assigned during Compile's coalescing step.
type renderTarget struct {
	name       string
	desc       RenderTargetDescriptor
	clearFlags TargetBufferFlags
	pass       uint32 // index into FrameGraph.passes

	imported          bool
	importedConcrete  any
	importedWidth     uint32
	importedHeight    uint32
	importedDiscardStart TargetBufferFlags
	importedDiscardEnd   TargetBufferFlags

	resource *renderTargetResource

	// Derived by Compile's discard-flag derivation step.
	discardStart TargetBufferFlags
	discardEnd   TargetBufferFlags
}

// renderTargetKey is the structural equality key used to decide whether
// two renderTargets may share one renderTargetResource: same attachment
// formats/sizes and sample count (spec 4.3 step 5).
type renderTargetKey struct {
	mask    uint8 // bit per occupied attachmentSlot
	formats [slotCount]uint32
	width   uint32
	height  uint32
	samples uint32
}

// renderTargetResource is the concrete, possibly-shared backing object
// for a cohort of structurally-equal renderTargets.
type renderTargetResource struct {
	key      renderTargetKey
	concrete any
	imported bool

	members   []uint32 // indices into FrameGraph.renderTargets, in pass order
	firstPass int
	lastPass  int
}

// passNode is a registered pass: the unit Compile culls or keeps and
// Execute invokes.
type passNode struct {
	name  string
	index int // registration order; stable across Compile

	reads  []uint32 // resourceNode indices
	writes []uint32 // resourceNode indices

	renderTargets []uint32 // renderTarget indices owned by this pass

	declared map[uint32]struct{} // resourceNode indices read or written, for UnknownResourceInExecute

	sideEffect bool
	exec       executor

	// Derived by Compile.
	refCount int
	culled   bool
}
