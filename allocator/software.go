// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package allocator

import (
	"image"
	"image/color"
)

// SoftwareTexture is a CPU-backed concrete texture: an *image.RGBA
// wrapped to satisfy [GPUTexture]. It lets a frame graph execute end
// to end, writing real pixels, with no GPU device present, the same
// role gg's PixmapTarget plays for its software rendering path.
type SoftwareTexture struct {
	img *image.RGBA
}

// NewSoftwareTexture allocates a CPU-backed texture sized and formatted
// per desc. Only RGBA8 formats produce visible color; other formats
// still get a correctly-sized buffer for golden-image-free tests that
// only care about acquire/release bookkeeping.
func NewSoftwareTexture(desc TextureDescriptor) *SoftwareTexture {
	w, h := int(desc.Width), int(desc.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &SoftwareTexture{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image returns the underlying *image.RGBA. The returned image shares
// memory with the texture.
func (t *SoftwareTexture) Image() *image.RGBA { return t.img }

// Clear fills the entire texture with c, mirroring gg's
// PixmapTarget.Clear.
func (t *SoftwareTexture) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	rgba := color.RGBA{
		R: uint8(r >> 8), //nolint:gosec // RGBA() guarantees a 16-bit component
		G: uint8(g >> 8), //nolint:gosec
		B: uint8(b >> 8), //nolint:gosec
		A: uint8(a >> 8), //nolint:gosec
	}
	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

// Destroy drops the texture's backing pixel buffer. A CPU texture has
// no handle to release to a driver, so Destroy only exists to satisfy
// GPUTexture.
func (t *SoftwareTexture) Destroy() { t.img = nil }

// SoftwareRenderTarget is a CPU-backed concrete render target: one
// SoftwareTexture per occupied color/depth/stencil slot.
type SoftwareRenderTarget struct {
	Color   [4]*SoftwareTexture
	Depth   *SoftwareTexture
	Stencil *SoftwareTexture
}

func (rt *SoftwareRenderTarget) Destroy() {
	for i, t := range rt.Color {
		if t != nil {
			t.Destroy()
		}
		rt.Color[i] = nil
	}
	if rt.Depth != nil {
		rt.Depth.Destroy()
	}
	if rt.Stencil != nil {
		rt.Stencil.Destroy()
	}
	rt.Depth, rt.Stencil = nil, nil
}

// SoftwareDevice is a [Device] that allocates CPU-backed textures and
// render targets instead of calling into a real GPU. It lets a host
// run a frame graph headlessly, e.g. in tests that assert on the pixels
// an execute callback produced.
type SoftwareDevice struct{}

func (SoftwareDevice) CreateTexture(desc TextureDescriptor) (GPUTexture, error) {
	return NewSoftwareTexture(desc), nil
}

func (SoftwareDevice) CreateRenderTarget(desc RenderTargetDescriptor, attachments RenderTargetAttachments) (GPURenderTarget, error) {
	rt := &SoftwareRenderTarget{}
	for i, used := range desc.ColorUsed {
		if !used {
			continue
		}
		if tex, ok := attachments.Color[i].(*SoftwareTexture); ok {
			rt.Color[i] = tex
		}
	}
	if desc.HasDepth {
		if tex, ok := attachments.Depth.(*SoftwareTexture); ok {
			rt.Depth = tex
		}
	}
	if desc.HasStencil {
		if tex, ok := attachments.Stencil.(*SoftwareTexture); ok {
			rt.Stencil = tex
		}
	}
	return rt, nil
}

// NewSoftwarePool builds a [WGPUPool] over a [SoftwareDevice], giving
// callers a fully pooled, CPU-only ResourceAllocator in one call.
func NewSoftwarePool() *WGPUPool {
	return NewWGPUPool(SoftwareDevice{}, nil)
}

var (
	_ GPUTexture      = (*SoftwareTexture)(nil)
	_ GPURenderTarget = (*SoftwareRenderTarget)(nil)
	_ Device          = SoftwareDevice{}
)
