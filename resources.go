// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "fmt"

// Resources is the view an ExecuteFunc uses to resolve the handles its
// pass declared during setup into concrete GPU objects. It is only
// valid for the duration of that pass's execute call.
type Resources struct {
	fg   *FrameGraph
	pass *passNode
}

// Texture resolves h to the concrete value the allocator produced for
// it. It returns ErrUnknownResourceInExecute if h was not declared
// (via Read or Write) by this pass during setup, and ErrInvalidHandle
// if h does not name a live resource.
func (r *Resources) Texture(h Handle[Texture]) (any, error) {
	if _, ok := r.pass.declared[h.index]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResourceInExecute, r.nameFor(h))
	}
	entry := r.fg.entryFor(h)
	if entry == nil {
		return nil, ErrInvalidHandle
	}
	return entry.boundConcrete, nil
}

// SampleCount returns h's declared sample count.
func (r *Resources) SampleCount(h Handle[Texture]) uint32 {
	return r.fg.GetDescriptor(h).SampleCount
}

// IsAttachment reports whether h is bound as an attachment of any
// render target this pass created.
func (r *Resources) IsAttachment(h Handle[Texture]) bool {
	for _, idx := range r.pass.renderTargets {
		for _, a := range r.fg.renderTargets[idx].desc.attachments() {
			if a.handle.index == h.index {
				return true
			}
		}
	}
	return false
}

// RenderTarget resolves the index'th render target this pass created
// with Builder.CreateRenderTarget to its concrete backing object, along
// with the clear flags the pass requested and the discard flags Compile
// derived for this use.
func (r *Resources) RenderTarget(index int) (concrete any, clear, discardStart, discardEnd TargetBufferFlags, err error) {
	if index < 0 || index >= len(r.pass.renderTargets) {
		return nil, 0, 0, 0, fmt.Errorf("%w: render target index %d", ErrUnknownResourceInExecute, index)
	}
	rt := r.fg.renderTargets[r.pass.renderTargets[index]]
	if rt.resource == nil {
		return nil, 0, 0, 0, ErrInvalidHandle
	}
	return rt.resource.concrete, rt.clearFlags, rt.discardStart, rt.discardEnd, nil
}

// nameFor returns a diagnostic name for a handle, falling back to its
// raw index when the owning entry cannot be resolved (e.g. h is the
// zero handle).
func (r *Resources) nameFor(h Handle[Texture]) string {
	if entry := r.fg.entryFor(h); entry != nil {
		return entry.name
	}
	return fmt.Sprintf("handle#%d", h.index)
}
