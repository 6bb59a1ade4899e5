// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package allocator

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Device is the narrow capability a production allocator needs from a
// GPU device: symmetric create/destroy for the two concrete resource
// kinds the frame graph deals in. gpucontext.Device implementations
// that expose matching methods satisfy this interface automatically;
// callers with a differently-shaped device type wrap it in an adapter,
// the same role backend/gogpu's GoGPUAdapter plays in front of
// gpucore.GPUAdapter.
type Device interface {
	CreateTexture(desc TextureDescriptor) (GPUTexture, error)
	CreateRenderTarget(desc RenderTargetDescriptor, attachments RenderTargetAttachments) (GPURenderTarget, error)
}

// GPUTexture is the concrete value a WGPUPool hands back from
// AcquireTexture. Its only required behavior is Destroy, mirroring
// render.Texture/render.TextureView's Destroy-on-retire convention.
type GPUTexture interface {
	Destroy()
}

// GPURenderTarget is the concrete value a WGPUPool hands back from
// AcquireRenderTarget.
type GPURenderTarget interface {
	Destroy()
}

// WGPUPool is a ResourceAllocator backed by a real GPU device. It pools
// through the same free-list discipline as [Pool] but constructs
// misses by calling into Device. It never evicts; [WGPUPool.Drain]
// destroys the pooled entries instead of leaking them, since GPU memory
// is not garbage collected.
type WGPUPool struct {
	*Pool
	device Device
}

// NewWGPUPool builds a production allocator over device. provider is
// accepted for symmetry with the rest of the frame graph's Driver
// wiring and is not currently consulted; it lets callers pass the same
// gpucontext.DeviceProvider they hand to driver.New without an extra
// unused-import.
func NewWGPUPool(device Device, _ gpucontext.DeviceProvider) *WGPUPool {
	w := &WGPUPool{device: device}
	w.Pool = NewPool(
		func(desc TextureDescriptor) (any, error) {
			tex, err := device.CreateTexture(desc)
			if err != nil {
				return nil, fmt.Errorf("allocator: create texture: %w", err)
			}
			return tex, nil
		},
		func(desc RenderTargetDescriptor, att RenderTargetAttachments) (any, error) {
			rt, err := device.CreateRenderTarget(desc, att)
			if err != nil {
				return nil, fmt.Errorf("allocator: create render target: %w", err)
			}
			return rt, nil
		},
	)
	return w
}

// Drain destroys every pooled texture and render target that is not
// currently acquired. Call it when tearing down a WGPUPool to avoid
// leaking GPU memory the reference [Pool] would otherwise hold in its
// free lists indefinitely.
func (w *WGPUPool) Drain() {
	for _, shard := range w.textures {
		shard.mu.Lock()
		for key, stack := range shard.free {
			for _, v := range stack {
				if tex, ok := v.(GPUTexture); ok {
					tex.Destroy()
				}
			}
			delete(shard.free, key)
		}
		shard.mu.Unlock()
	}
	for _, shard := range w.renderTargets {
		shard.mu.Lock()
		for key, stack := range shard.free {
			for _, v := range stack {
				if rt, ok := v.(GPURenderTarget); ok {
					rt.Destroy()
				}
			}
			delete(shard.free, key)
		}
		shard.mu.Unlock()
	}
}

var _ ResourceAllocator = (*WGPUPool)(nil)
