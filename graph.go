// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/framegraph/allocator"
	"github.com/gogpu/framegraph/driver"
)

// maxCaptureSize bounds a pass's per-pass Data struct, standing in for
// the static assertion the source this is ported from applies to its
// execute closure's capture. AddPass checks it with unsafe.Sizeof since
// Go has no compile-time equivalent.
const maxCaptureSize = 1024

// SetupFunc declares a pass's resource dependencies. It runs
// immediately, in AddPass, before Compile — every Create/Read/Write
// call it makes against b must happen here, never inside execute.
// data is zero-valued on entry; setup populates it with whatever the
// execute phase needs (resource handles, parameters), and the frame
// graph stores the struct by value for the pass's lifetime.
type SetupFunc[Data any] func(b *Builder, data *Data)

// ExecuteFunc runs a surviving pass's GPU work. It must not touch any
// resource it did not declare in SetupFunc; res enforces this and
// returns ErrUnknownResourceInExecute otherwise. Returning a non-nil
// error aborts Execute for the remaining passes.
type ExecuteFunc[Data any] func(data *Data, res *Resources, drv driver.Driver) error

// PassRef identifies a registered pass. Its only method is Name, for
// diagnostics; SideEffect is set through Builder during setup.
type PassRef struct {
	fg    *FrameGraph
	index int
}

// Name returns the pass's registration name.
func (p *PassRef) Name() string { return p.fg.passes[p.index].name }

// concretePass type-erases a pass's Data struct and ExecuteFunc behind
// the executor interface so FrameGraph.passes can hold passNodes of
// differing Data types in one slice.
type concretePass[Data any] struct {
	data Data
	fn   ExecuteFunc[Data]
}

func (p *concretePass[Data]) execute(res *Resources, drv driver.Driver) error {
	if p.fn == nil {
		return nil
	}
	return p.fn(&p.data, res, drv)
}

// Option configures a FrameGraph at construction time.
type Option func(*FrameGraph)

// WithCapacityHint preallocates internal slices for n passes and 2n
// resource entries and versions, avoiding reallocation churn for
// graphs of a known rough size.
func WithCapacityHint(n int) Option {
	return func(fg *FrameGraph) {
		if n <= 0 {
			return
		}
		fg.passes = make([]*passNode, 0, n)
		fg.nodes = make([]*resourceNode, 0, n*2)
		fg.entries = make([]*resourceEntry, 0, n*2)
	}
}

// WithLogger overrides the package logger for diagnostics emitted by
// this FrameGraph's Compile and Execute.
func WithLogger(l logging) Option {
	return func(fg *FrameGraph) { fg.logger = l }
}

// logging is the minimal structured-logging surface FrameGraph needs;
// *slog.Logger satisfies it.
type logging interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// FrameGraph schedules a single frame's GPU passes. Construct one with
// New, register passes with AddPass during the setup phase, then call
// Compile followed by Execute. A FrameGraph is single-use: call Reset
// to reuse its allocation for the next frame.
type FrameGraph struct {
	allocator allocator.ResourceAllocator
	logger    logging

	entries       []*resourceEntry
	nodes         []*resourceNode
	passes        []*passNode
	renderTargets []*renderTarget
	rtResources   []*renderTargetResource

	nextID uint32

	// presented holds resourceNode indices passed to Present: Compile's
	// reference-counting worklist starts from these.
	presented []uint32

	// aliasOf maps a resourceEntry id to the entry id it was folded into
	// by MoveResource, per the append-only alias chain Compile walks to
	// resolve a handle to its final backing entry.
	aliasOf map[uint32]uint32

	compiled bool
}

// New constructs an empty FrameGraph backed by alloc for concrete
// resource acquisition during Execute.
func New(alloc allocator.ResourceAllocator, opts ...Option) *FrameGraph {
	fg := &FrameGraph{
		allocator: alloc,
		logger:    Logger(),
		aliasOf:   make(map[uint32]uint32),
	}
	for _, opt := range opts {
		opt(fg)
	}
	return fg
}

// Reset clears the graph back to empty, reusing its backing arrays for
// the next frame. The ResourceAllocator and logger configured at
// construction are kept.
func (fg *FrameGraph) Reset() {
	fg.entries = fg.entries[:0]
	fg.nodes = fg.nodes[:0]
	fg.passes = fg.passes[:0]
	fg.renderTargets = fg.renderTargets[:0]
	fg.rtResources = fg.rtResources[:0]
	fg.presented = fg.presented[:0]
	fg.nextID = 0
	fg.aliasOf = make(map[uint32]uint32)
	fg.compiled = false
}

// AddPass registers a pass. setup runs immediately and must declare
// every resource the pass touches via the returned Builder; execute
// runs later, during Execute, only if the pass survives culling.
func (fg *FrameGraph) AddPass(name string, setup SetupFunc[any], execute ExecuteFunc[any]) *PassRef {
	return addPass(fg, name, setup, execute)
}

// addPass is a free function rather than a FrameGraph method because
// Go forbids generic type parameters on methods; AddPass above is the
// common any-typed entry point, AddTypedPass below is for callers that
// want a concrete Data struct.
func addPass[Data any](fg *FrameGraph, name string, setup SetupFunc[Data], execute ExecuteFunc[Data]) *PassRef {
	var zero Data
	must(captureSizeOf(zero))

	index := len(fg.passes)
	pn := &passNode{
		name:     name,
		index:    index,
		declared: make(map[uint32]struct{}),
	}
	fg.passes = append(fg.passes, pn)

	cp := &concretePass[Data]{fn: execute}
	pn.exec = cp

	b := &Builder{fg: fg, pass: pn}
	if setup != nil {
		setup(b, &cp.data)
	}

	return &PassRef{fg: fg, index: index}
}

// AddTypedPass registers a pass whose setup/execute share a concrete
// Data struct instead of any, avoiding a type assertion in execute.
func AddTypedPass[Data any](fg *FrameGraph, name string, setup SetupFunc[Data], execute ExecuteFunc[Data]) *PassRef {
	return addPass(fg, name, setup, execute)
}

// Present marks h as a frame output: a side-effect sink that Compile's
// reference-counting pass treats as always-referenced, the root every
// surviving pass must trace back to.
func (fg *FrameGraph) Present(h Handle[Texture]) {
	if !h.IsValid() {
		panic(ErrInvalidHandle)
	}
	fg.presented = append(fg.presented, h.index)
}

// Import registers a pre-existing concrete texture (e.g. a swapchain
// backbuffer) as a virtual resource, so passes can Read/Write it like
// any other texture. An imported resource that no surviving pass
// references is culled like any other; the allocator never acquires or
// releases it. A pass that Writes an imported resource is marked as
// having a side effect.
func (fg *FrameGraph) Import(name string, desc TextureDescriptor, concrete any) Handle[Texture] {
	entry := fg.newEntry(name, kindTexture, desc)
	entry.imported = true
	entry.concrete = concrete
	return fg.newHandle(entry, noPass)
}

// ImportRenderTarget registers a pre-existing concrete render target
// (e.g. the swapchain's default framebuffer) along with its backing
// color/depth/stencil texture, so a pass can declare it via
// Builder.CreateRenderTarget like any other render target.
func (fg *FrameGraph) ImportRenderTarget(name string, desc RenderTargetDescriptor, concrete any, width, height uint32, discardStart, discardEnd TargetBufferFlags) Handle[Texture] {
	texDesc := DefaultTextureDescriptor(width, height, 0)
	h := fg.Import(name, texDesc, concrete)

	entry := fg.entryFor(h)
	entry.importedRenderTarget = concrete
	entry.importedRTWidth = width
	entry.importedRTHeight = height
	entry.importedRTDiscardStart = discardStart
	entry.importedRTDiscardEnd = discardEnd

	return h
}

// MoveResource makes `to` an alias for `from`: every handle that ever
// referred to `to`, past or future, resolves against `from`'s entry
// instead. It mirrors Filament's FrameGraph::moveResource, used to let
// a later pass take over an earlier resource's identity (e.g. history
// buffers that ping-pong between two textures). Any write already
// recorded against `to` is neutralized: since that write's output is
// no longer observable under its own identity, it stops contributing
// a reference to its producing pass.
func (fg *FrameGraph) MoveResource(from, to Handle[Texture]) Handle[Texture] {
	fromEntry := fg.entryFor(from)
	toEntry := fg.entryFor(to)
	if fromEntry == nil || toEntry == nil {
		panic(ErrInvalidHandle)
	}
	fg.aliasOf[toEntry.id] = fromEntry.id
	fg.neutralizeWrites(toEntry)
	return from
}

// neutralizeWrites drops every write already recorded against entry
// from its producing pass's write list, so Compile's reference
// counting no longer credits that pass for output nobody can reach
// under entry's own identity once MoveResource has redirected it. The
// written node is left producerless, so Compile's cull does not take a
// second reference away from that pass for the same write.
func (fg *FrameGraph) neutralizeWrites(entry *resourceEntry) {
	for _, nidx := range entry.nodes {
		n := fg.nodes[nidx]
		if n.producer == noPass {
			continue
		}
		p := fg.passes[n.producer]
		writeIdx := nidx + 1 // entry.nodes is 0-based; writes/handle indices are 1-based
		for i, w := range p.writes {
			if w == writeIdx {
				p.writes = append(p.writes[:i], p.writes[i+1:]...)
				break
			}
		}
		n.producer = noPass
	}
}

// resolveAlias follows the alias chain for an entry id to its final
// backing entry id. Chains are short in practice (one hop per
// MoveResource call on the same resource) but walked fully to be safe
// against chained moves.
func (fg *FrameGraph) resolveAlias(id uint32) uint32 {
	seen := map[uint32]bool{}
	for {
		next, ok := fg.aliasOf[id]
		if !ok || seen[id] {
			return id
		}
		seen[id] = true
		id = next
	}
}

// IsValid reports whether h still refers to the latest version of its
// resource, i.e. no later Write has superseded it.
func (fg *FrameGraph) IsValid(h Handle[Texture]) bool {
	node := fg.nodeForIndex(h.index)
	if node == nil {
		return false
	}
	return !node.superseded
}

// GetDescriptor returns the descriptor a resource was created or
// imported with.
func (fg *FrameGraph) GetDescriptor(h Handle[Texture]) TextureDescriptor {
	entry := fg.entryFor(h)
	if entry == nil {
		return TextureDescriptor{}
	}
	if d, ok := entry.descriptor.(TextureDescriptor); ok {
		return d
	}
	return TextureDescriptor{}
}

// newEntry allocates a fresh resourceEntry and its first (producerless)
// resourceNode.
func (fg *FrameGraph) newEntry(name string, kind resourceKind, desc any) *resourceEntry {
	id := fg.nextID
	fg.nextID++

	entry := &resourceEntry{
		id:         id,
		name:       name,
		kind:       kind,
		descriptor: desc,
		firstPass:  -1,
		lastPass:   -1,
	}
	fg.entries = append(fg.entries, entry)
	return entry
}

// newHandleIndex appends a fresh resourceNode for entry (created by the
// given pass index or noPass for Create/Import) and returns its 1-based
// handle index, shared by every Handle[T] constructor regardless of T.
func (fg *FrameGraph) newHandleIndex(entry *resourceEntry, producer uint32) uint32 {
	idx := uint32(len(fg.nodes))
	node := &resourceNode{entry: entry, version: uint32(len(entry.nodes)), producer: producer}
	fg.nodes = append(fg.nodes, node)
	entry.nodes = append(entry.nodes, idx)
	return idx + 1
}

// newHandle is the Handle[Texture]-typed convenience wrapper around
// newHandleIndex used by the texture-only FrameGraph surface
// (Import/ImportRenderTarget).
func (fg *FrameGraph) newHandle(entry *resourceEntry, producer uint32) Handle[Texture] {
	return Handle[Texture]{index: fg.newHandleIndex(entry, producer)}
}

// nodeForIndex returns the resourceNode at a handle's 1-based index, or
// nil for an invalid (zero) index.
func (fg *FrameGraph) nodeForIndex(index uint32) *resourceNode {
	if index == 0 || int(index-1) >= len(fg.nodes) {
		return nil
	}
	return fg.nodes[index-1]
}

// nodeFor returns the resourceNode a Handle[Texture] refers to.
func (fg *FrameGraph) nodeFor(h Handle[Texture]) *resourceNode {
	return fg.nodeForIndex(h.index)
}

// entryForID returns the resourceEntry a handle's node belongs to,
// following any alias redirection recorded by MoveResource.
func (fg *FrameGraph) entryForID(node *resourceNode) *resourceEntry {
	if node == nil {
		return nil
	}
	resolved := fg.resolveAlias(node.entry.id)
	if resolved == node.entry.id {
		return node.entry
	}
	for _, e := range fg.entries {
		if e.id == resolved {
			return e
		}
	}
	return node.entry
}

// entryFor returns the resourceEntry a Handle[Texture]'s node belongs
// to, following alias redirection.
func (fg *FrameGraph) entryFor(h Handle[Texture]) *resourceEntry {
	return fg.entryForID(fg.nodeFor(h))
}

// latestNode returns the current (highest-version) resourceNode for
// entry, after alias resolution.
func (fg *FrameGraph) latestNode(entry *resourceEntry) *resourceNode {
	resolved := fg.resolveAlias(entry.id)
	target := entry
	if resolved != entry.id {
		for _, e := range fg.entries {
			if e.id == resolved {
				target = e
				break
			}
		}
	}
	if len(target.nodes) == 0 {
		return nil
	}
	return fg.nodes[target.nodes[len(target.nodes)-1]]
}

// makeHandle builds a Handle[T] from a raw node index, the one place
// the unexported index field is constructed for a caller-chosen kind.
func makeHandle[T Resource](index uint32) Handle[T] {
	return Handle[T]{index: index}
}

// captureSizeOf returns ErrExecutorCaptureTooLarge if data's type exceeds
// maxCaptureSize, the runtime stand-in for a static capture-size
// assertion on the Data struct an ExecuteFunc closes over.
func captureSizeOf[Data any](data Data) error {
	if unsafe.Sizeof(data) > maxCaptureSize {
		return fmt.Errorf("%w: %d bytes > %d", ErrExecutorCaptureTooLarge, unsafe.Sizeof(data), maxCaptureSize)
	}
	return nil
}

func (fg *FrameGraph) mustBeCompiled(op string) {
	if !fg.compiled {
		panic(fmt.Errorf("framegraph: %s called before Compile", op))
	}
}
