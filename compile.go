// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

// Compile resolves the graph built by AddPass/Present into an
// executable schedule: it culls passes and resource versions with no
// path to a Present or SideEffect root, computes each surviving
// resource's liveness interval, coalesces structurally-equal render
// targets that don't overlap in time, and derives discard flags for
// each. Compile must run exactly once, after every pass has been
// registered and before Execute.
func (fg *FrameGraph) Compile() *FrameGraph {
	fg.computeRefCounts()
	fg.cull()
	fg.computeLiveness()
	fg.coalesceRenderTargets()
	fg.deriveDiscardFlags()
	fg.compiled = true

	keptPasses, keptResources := 0, 0
	for _, p := range fg.passes {
		if !p.culled {
			keptPasses++
		}
	}
	for _, e := range fg.entries {
		if !e.culled {
			keptResources++
		}
	}
	fg.logger.Info("framegraph: compiled",
		"passes", len(fg.passes), "passes_kept", keptPasses,
		"resources", len(fg.entries), "resources_kept", keptResources,
		"render_targets", len(fg.rtResources))

	return fg
}

// computeRefCounts seeds each pass's refcount with its write count and
// each resource version's refcount with its read count, plus one for
// every version passed to Present. A presented handle whose entry has
// since been folded into another by MoveResource credits that other
// entry's latest version instead, since Present(to) after
// MoveResource(from, to) observes from's content, not to's. This is
// the starting point the worklist in cull() consumes.
func (fg *FrameGraph) computeRefCounts() {
	for _, p := range fg.passes {
		p.refCount = len(p.writes)
		p.culled = false
	}
	for _, n := range fg.nodes {
		n.refCount = len(n.reads)
		n.culled = false
	}
	for _, idx := range fg.presented {
		node := fg.nodeForIndex(idx)
		if node == nil {
			continue
		}
		target := node
		if resolved := fg.entryForID(node); resolved != node.entry {
			if latest := fg.latestNode(resolved); latest != nil {
				target = latest
			}
		}
		target.refCount++
	}
}

// cull walks backward from every resource version with a zero refcount
// (nothing reads it and it isn't presented), decrementing its producer
// pass's refcount; a pass whose refcount reaches zero is culled and,
// unless it has a side effect, every resource it reads loses one
// reference in turn, possibly queuing more culls. This is the same
// worklist algorithm Filament's FrameGraph::cull() runs, adapted to
// index-addressed slices instead of a pointer graph.
func (fg *FrameGraph) cull() {
	for _, p := range fg.passes {
		if !p.sideEffect && p.refCount == 0 {
			p.culled = true
		}
	}

	var stack []*resourceNode
	for _, n := range fg.nodes {
		if n.refCount == 0 {
			stack = append(stack, n)
		}
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.producer == noPass {
			continue
		}
		p := fg.passes[n.producer]
		if p.sideEffect || p.refCount == 0 {
			continue
		}
		p.refCount--
		if p.refCount == 0 {
			p.culled = true
			for _, ridx := range p.reads {
				rn := fg.nodeForIndex(ridx)
				if rn == nil || rn.refCount == 0 {
					continue
				}
				rn.refCount--
				if rn.refCount == 0 {
					stack = append(stack, rn)
				}
			}
		}
	}

	for _, n := range fg.nodes {
		n.culled = n.refCount == 0
	}
}

// computeLiveness assigns each surviving resourceEntry the
// [firstPass, lastPass] interval of the earliest and latest
// non-culled pass that produces or reads one of its versions. An entry
// with no surviving version is marked culled; imported entries that do
// survive keep the interval so Execute knows when to bind their
// concrete handle, though Execute never acquires or releases them
// through the allocator.
func (fg *FrameGraph) computeLiveness() {
	for _, e := range fg.entries {
		e.firstPass, e.lastPass = -1, -1
		e.culled = true

		for _, nidx := range e.nodes {
			n := fg.nodes[nidx]
			if n.culled {
				continue
			}
			e.culled = false

			if n.producer != noPass {
				touch(&e.firstPass, &e.lastPass, int(n.producer))
			}
			for _, ridx := range n.reads {
				rp := fg.passes[ridx]
				if rp.culled {
					continue
				}
				touch(&e.firstPass, &e.lastPass, int(ridx))
			}
		}
	}
}

// touch widens [*first, *last] to include p.
func touch(first, last *int, p int) {
	if *first == -1 || p < *first {
		*first = p
	}
	if p > *last {
		*last = p
	}
}

// coalesceRenderTargets groups surviving, non-imported render targets
// by structural key (attachment formats, dimensions, sample count)
// into renderTargetResource cohorts. A candidate joins an existing
// cohort of equal key only if the cohort's current last user has
// already retired by the candidate's pass, so two render targets never
// share a concrete object while both are live — this is the liveness
// disjointness test SPEC_FULL.md's render-target coalescing section
// requires.
func (fg *FrameGraph) coalesceRenderTargets() {
	fg.rtResources = fg.rtResources[:0]

	for i, rt := range fg.renderTargets {
		pass := fg.passes[rt.pass]
		if pass.culled {
			continue
		}

		if rt.imported {
			res := &renderTargetResource{
				concrete:  rt.importedConcrete,
				imported:  true,
				members:   []uint32{uint32(i)},
				firstPass: int(rt.pass),
				lastPass:  int(rt.pass),
			}
			rt.resource = res
			fg.rtResources = append(fg.rtResources, res)
			continue
		}

		key := fg.renderTargetKeyFor(rt)

		var cohort *renderTargetResource
		for _, cand := range fg.rtResources {
			if cand.key == key && cand.lastPass < int(rt.pass) {
				cohort = cand
				break
			}
		}
		if cohort == nil {
			cohort = &renderTargetResource{key: key, firstPass: int(rt.pass), lastPass: int(rt.pass)}
			fg.rtResources = append(fg.rtResources, cohort)
		}
		cohort.lastPass = int(rt.pass)
		cohort.members = append(cohort.members, uint32(i))
		rt.resource = cohort
	}
}

// renderTargetKeyFor builds the structural equality key for rt from
// the descriptors of its declared attachments.
func (fg *FrameGraph) renderTargetKeyFor(rt *renderTarget) renderTargetKey {
	var key renderTargetKey
	key.samples = rt.desc.Samples

	for _, a := range rt.desc.attachments() {
		entry := fg.entryFor(a.handle)
		if entry != nil {
			if d, ok := entry.descriptor.(TextureDescriptor); ok {
				key.formats[a.slot] = uint32(d.Format)
				key.width, key.height = d.Width, d.Height
			}
		}
		key.mask |= 1 << uint8(a.slot)
	}
	return key
}

// deriveDiscardFlags derives each render target's discardStart/End
// from its position in its coalescing cohort: the first member
// discards on entry only if that same pass doesn't also read one of
// the attachments (otherwise there is prior content to preserve), and
// the last member always discards on exit, since nothing downstream
// in this frame reads the attachment's content afterward. Imported
// render targets skip derivation entirely and use the discard flags
// the caller supplied to ImportRenderTarget, since the frame graph has
// no visibility into what happens to them afterward.
func (fg *FrameGraph) deriveDiscardFlags() {
	for _, res := range fg.rtResources {
		if len(res.members) == 0 {
			continue
		}
		for i, ridx := range res.members {
			rt := fg.renderTargets[ridx]
			rt.discardStart, rt.discardEnd = TargetBufferNone, TargetBufferNone

			if i == 0 && !fg.passReadsRenderTarget(rt) {
				rt.discardStart = attachmentFlags(rt.desc)
			}
			if i == len(res.members)-1 {
				rt.discardEnd = attachmentFlags(rt.desc)
			}
		}
	}

	for _, rt := range fg.renderTargets {
		if rt.imported {
			rt.discardStart, rt.discardEnd = rt.importedDiscardStart, rt.importedDiscardEnd
		}
	}
}

// passReadsRenderTarget reports whether rt's owning pass also Read (as
// opposed to only Write or CreateTexture'd) at least one of rt's
// attachments.
func (fg *FrameGraph) passReadsRenderTarget(rt *renderTarget) bool {
	pass := fg.passes[rt.pass]
	reads := make(map[uint32]bool, len(pass.reads))
	for _, r := range pass.reads {
		reads[r] = true
	}
	for _, a := range rt.desc.attachments() {
		if reads[a.handle.index] {
			return true
		}
	}
	return false
}

// attachmentFlags maps a render target's occupied slots to their
// TargetBufferFlags bits.
func attachmentFlags(desc RenderTargetDescriptor) TargetBufferFlags {
	var flags TargetBufferFlags
	for _, a := range desc.attachments() {
		switch a.slot {
		case slotColor0:
			flags |= TargetBufferColor0
		case slotColor1:
			flags |= TargetBufferColor1
		case slotColor2:
			flags |= TargetBufferColor2
		case slotColor3:
			flags |= TargetBufferColor3
		case slotDepth:
			flags |= TargetBufferDepth
		case slotStencil:
			flags |= TargetBufferStencil
		}
	}
	return flags
}
