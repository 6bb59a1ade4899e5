// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package allocator

import (
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// poolShardCount is the number of free-list shards, reducing contention
// when several frame graphs on different goroutines share one Pool. Must
// be a power of 2 for the bitwise-AND shard selection below.
const poolShardCount = 16

// poolShardMask selects a shard from a hash.
const poolShardMask = poolShardCount - 1

// Pool is an in-memory reference ResourceAllocator. It pools concrete
// values under a free-list keyed by descriptor equality: a Release
// pushes the concrete value onto its descriptor's free list, and the
// next Acquire for an equal descriptor pops it back off instead of
// calling the construct function again.
//
// Pool never actually allocates GPU memory itself; it is parameterized
// by construct callbacks, making it equally useful for CPU-side tests
// (construct returns a fake token) and as the free-list layer in front
// of a real backend (construct calls into the backend, Pool supplies
// the reuse policy). [WGPUPool] is built this way.
type Pool struct {
	newTexture     func(TextureDescriptor) (any, error)
	newRenderTarget func(RenderTargetDescriptor, RenderTargetAttachments) (any, error)

	textures      [poolShardCount]*poolShard[TextureDescriptor]
	renderTargets [poolShardCount]*poolShard[RenderTargetDescriptor]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// poolShard is a single free-list shard: descriptor key to a LIFO stack
// of pooled concrete values.
type poolShard[K comparable] struct {
	mu   sync.Mutex
	free map[K][]any
}

func newPoolShard[K comparable]() *poolShard[K] {
	return &poolShard[K]{free: make(map[K][]any)}
}

// NewPool constructs a reference Pool. newTexture and newRenderTarget
// are called only on a pool miss; a nil newRenderTarget falls back to
// binding the attachments into a plain struct with no backend-specific
// object, which is sufficient for headless tests.
func NewPool(newTexture func(TextureDescriptor) (any, error), newRenderTarget func(RenderTargetDescriptor, RenderTargetAttachments) (any, error)) *Pool {
	p := &Pool{newTexture: newTexture, newRenderTarget: newRenderTarget}
	for i := range p.textures {
		p.textures[i] = newPoolShard[TextureDescriptor]()
	}
	for i := range p.renderTargets {
		p.renderTargets[i] = newPoolShard[RenderTargetDescriptor]()
	}
	if p.newRenderTarget == nil {
		p.newRenderTarget = func(desc RenderTargetDescriptor, att RenderTargetAttachments) (any, error) {
			return att, nil
		}
	}
	return p
}

func shardKey(s string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() & poolShardMask)
}

func (p *Pool) AcquireTexture(desc TextureDescriptor) (any, error) {
	shard := p.textures[shardKey(fmt.Sprintf("%+v", desc))]

	shard.mu.Lock()
	if stack := shard.free[desc]; len(stack) > 0 {
		v := stack[len(stack)-1]
		shard.free[desc] = stack[:len(stack)-1]
		shard.mu.Unlock()
		p.hits.Add(1)
		return v, nil
	}
	shard.mu.Unlock()

	p.misses.Add(1)
	if p.newTexture == nil {
		return desc, nil
	}
	return p.newTexture(desc)
}

func (p *Pool) ReleaseTexture(desc TextureDescriptor, concrete any) {
	shard := p.textures[shardKey(fmt.Sprintf("%+v", desc))]
	shard.mu.Lock()
	shard.free[desc] = append(shard.free[desc], concrete)
	shard.mu.Unlock()
}

func (p *Pool) AcquireRenderTarget(desc RenderTargetDescriptor, attachments RenderTargetAttachments) (any, error) {
	shard := p.renderTargets[shardKey(fmt.Sprintf("%+v", desc))]

	shard.mu.Lock()
	if stack := shard.free[desc]; len(stack) > 0 {
		v := stack[len(stack)-1]
		shard.free[desc] = stack[:len(stack)-1]
		shard.mu.Unlock()
		p.hits.Add(1)
		return v, nil
	}
	shard.mu.Unlock()

	p.misses.Add(1)
	return p.newRenderTarget(desc, attachments)
}

func (p *Pool) ReleaseRenderTarget(desc RenderTargetDescriptor, concrete any) {
	shard := p.renderTargets[shardKey(fmt.Sprintf("%+v", desc))]
	shard.mu.Lock()
	shard.free[desc] = append(shard.free[desc], concrete)
	shard.mu.Unlock()
}

// Stats reports pool hit/miss counts for diagnostics.
type Stats struct {
	Hits   uint64
	Misses uint64
}

func (p *Pool) Stats() Stats {
	return Stats{Hits: p.hits.Load(), Misses: p.misses.Load()}
}

var _ ResourceAllocator = (*Pool)(nil)
