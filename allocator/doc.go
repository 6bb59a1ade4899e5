// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package allocator is grounded on gogpu-gg's cache.ShardedCache
// (github.com/gogpu/gg's cache package): the same sharded,
// mutex-per-shard design, repurposed from an LRU value cache into a
// descriptor-keyed acquire/release free-list pool, since resource
// pooling and value caching share the same contention profile but
// differ in eviction policy (LRU capacity eviction vs. explicit
// release-driven reuse).
package allocator
