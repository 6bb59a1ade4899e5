// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

// Builder is the only way a SetupFunc may touch the graph. It is valid
// only for the duration of its pass's setup call. Using one captured
// past that point does not panic: it keeps recording declarations
// against its own pass after the FrameGraph has moved on, producing
// confusing results, so SetupFunc implementations should treat it as
// call-scoped.
type Builder struct {
	fg   *FrameGraph
	pass *passNode
}

// PassName returns the name the current pass was registered under.
func (b *Builder) PassName() string { return b.pass.name }

// GetName returns the registration name of the resource h refers to.
func (b *Builder) GetName(h Handle[Texture]) string {
	entry := b.fg.entryFor(h)
	if entry == nil {
		return ""
	}
	return entry.name
}

// CreateTexture declares a brand-new virtual texture, version 0, with
// no producer pass. Nothing stops a pass from reading this version
// before any pass writes it; it simply has no producer for Compile to
// keep alive, matching Filament's Builder::create semantics for a
// resource with deferred content.
func (b *Builder) CreateTexture(name string, desc TextureDescriptor) Handle[Texture] {
	entry := b.fg.newEntry(name, kindTexture, desc)
	h := b.fg.newHandle(entry, noPass)
	b.pass.declared[h.index] = struct{}{}
	return h
}

// CreateBuffer declares a brand-new virtual buffer, mirroring
// CreateTexture for the Buffer resource kind.
func (b *Builder) CreateBuffer(name string, desc BufferDescriptor) Handle[Buffer] {
	entry := b.fg.newEntry(name, kindBuffer, desc)
	idx := b.fg.newHandleIndex(entry, noPass)
	b.pass.declared[idx] = struct{}{}
	return makeHandle[Buffer](idx)
}

// Read declares that the current pass reads h, without modifying it.
// It must be called during that pass's SetupFunc. The handle returned
// is h itself; Read exists for its side effect of recording the
// dependency edge Compile's reference counting walks backward from
// Present/side-effect roots.
//
// doesntNeedTexture hints that this pass only reads h through a
// render-target attachment and never needs a sampleable view of it
// (the common case for a depth buffer consumed only for its Z-test).
// It is advisory and OR'd across every Read of the same entry; the
// allocator is free to ignore it.
func Read[T Resource](b *Builder, h Handle[T], doesntNeedTexture bool) Handle[T] {
	node := b.fg.nodeForIndex(h.index)
	if node == nil || node.superseded {
		panic(ErrInvalidHandle)
	}
	if node.entry.kind != handleKind[T]() {
		panic(ErrTypeMismatch)
	}
	node.reads = append(node.reads, uint32(b.pass.index))
	b.pass.reads = append(b.pass.reads, h.index)
	b.pass.declared[h.index] = struct{}{}
	if doesntNeedTexture {
		node.entry.doesntNeedTexture = true
	}
	return h
}

// Write declares that the current pass writes h, producing a new
// version. The handle passed in is invalidated for every purpose
// except historical queries (IsValid becomes false); the returned
// handle is the one later passes must use to see this pass's output.
// Writing an imported resource marks the current pass as having a side
// effect.
func Write[T Resource](b *Builder, h Handle[T]) Handle[T] {
	node := b.fg.nodeForIndex(h.index)
	if node == nil || node.superseded {
		panic(ErrInvalidHandle)
	}
	if node.entry.kind != handleKind[T]() {
		panic(ErrTypeMismatch)
	}
	node.superseded = true

	entry := b.fg.entryForID(node)
	if entry.imported {
		b.pass.sideEffect = true
	}
	newIdx := b.fg.newHandleIndex(entry, uint32(b.pass.index))

	b.pass.writes = append(b.pass.writes, newIdx)
	b.pass.declared[newIdx] = struct{}{}

	return makeHandle[T](newIdx)
}

// SideEffect marks the current pass as having effects the frame graph
// cannot see (e.g. it writes to a resource outside the graph, or
// performs a GPU readback the host depends on). Side-effect passes are
// never culled regardless of refcount, the same escape hatch
// Filament's Builder::sideEffect() provides.
func (b *Builder) SideEffect() {
	b.pass.sideEffect = true
}

// CreateRenderTarget declares the attachment set the current pass
// draws into. Every attachment handle in desc must already have been
// declared (via Read or Write) by this pass; clearFlags marks which
// slots get a clear instead of a load at the start of this render
// target's first use in its coalescing cohort.
func (b *Builder) CreateRenderTarget(name string, desc RenderTargetDescriptor, clearFlags TargetBufferFlags) {
	for _, a := range desc.attachments() {
		if _, ok := b.pass.declared[a.handle.index]; !ok {
			panic(ErrBadRenderTarget)
		}
	}

	rt := &renderTarget{
		name:       name,
		desc:       desc,
		clearFlags: clearFlags,
		pass:       uint32(b.pass.index),
	}

	for _, a := range desc.attachments() {
		entry := b.fg.entryFor(a.handle)
		if entry != nil && entry.importedRenderTarget != nil {
			rt.imported = true
			rt.importedConcrete = entry.importedRenderTarget
			rt.importedWidth = entry.importedRTWidth
			rt.importedHeight = entry.importedRTHeight
			rt.importedDiscardStart = entry.importedRTDiscardStart
			rt.importedDiscardEnd = entry.importedRTDiscardEnd
			break
		}
	}

	idx := uint32(len(b.fg.renderTargets))
	b.fg.renderTargets = append(b.fg.renderTargets, rt)
	b.pass.renderTargets = append(b.pass.renderTargets, idx)
}

// GetDescriptor returns the TextureDescriptor h was created or
// imported with.
func (b *Builder) GetDescriptor(h Handle[Texture]) TextureDescriptor {
	return b.fg.GetDescriptor(h)
}

// GetSamples returns the sample count of h's descriptor, a convenience
// Filament's Builder exposes directly rather than making callers
// destructure the full descriptor.
func (b *Builder) GetSamples(h Handle[Texture]) uint32 {
	return b.fg.GetDescriptor(h).SampleCount
}

// IsAttachment reports whether h is declared as an attachment of any
// render target this pass created.
func (b *Builder) IsAttachment(h Handle[Texture]) bool {
	for _, idx := range b.pass.renderTargets {
		for _, a := range b.fg.renderTargets[idx].desc.attachments() {
			if a.handle.index == h.index {
				return true
			}
		}
	}
	return false
}

// GetRenderTargetDescriptor returns the descriptor of the index'th
// render target this pass created with CreateRenderTarget.
func (b *Builder) GetRenderTargetDescriptor(index int) RenderTargetDescriptor {
	if index < 0 || index >= len(b.pass.renderTargets) {
		return RenderTargetDescriptor{}
	}
	return b.fg.renderTargets[b.pass.renderTargets[index]].desc
}
