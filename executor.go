// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/allocator"
	"github.com/gogpu/framegraph/driver"
)

// Execute runs every surviving pass in registration order, flushing drv
// after each one. Resources are acquired from the allocator passed to
// New just before the pass that first needs them and released just
// after the pass that last needs them, so the allocator never holds
// more concurrent resources than the graph's widest point in time
// actually requires. Execute must run after Compile.
func (fg *FrameGraph) Execute(drv driver.Driver) error {
	if !fg.compiled {
		panic(fmt.Errorf("framegraph: Execute called before Compile"))
	}

	for p := range fg.passes {
		if err := fg.acquireAt(p); err != nil {
			return err
		}

		pass := fg.passes[p]
		if pass.culled {
			fg.logger.Debug("framegraph: skipping culled pass", "pass", pass.name)
		} else {
			fg.logger.Debug("framegraph: executing pass", "pass", pass.name)
			res := &Resources{fg: fg, pass: pass}
			if err := pass.exec.execute(res, drv); err != nil {
				return fmt.Errorf("framegraph: pass %q: %w", pass.name, err)
			}
			drv.Flush()
		}

		if err := fg.releaseAt(p); err != nil {
			return err
		}
	}
	return nil
}

// acquireAt acquires every resource entry and render target whose
// liveness interval starts at pass p.
func (fg *FrameGraph) acquireAt(p int) error {
	for _, e := range fg.entries {
		if e.culled || e.firstPass != p {
			continue
		}
		if e.imported {
			e.boundConcrete = e.concrete
			continue
		}
		desc, ok := e.descriptor.(TextureDescriptor)
		if !ok {
			continue
		}
		ad := toAllocatorTextureDescriptor(desc)
		ad.DoesntNeedTexture = e.doesntNeedTexture
		concrete, err := fg.allocator.AcquireTexture(ad)
		if err != nil {
			return fmt.Errorf("%w: acquiring %q: %v", ErrAllocatorFailure, e.name, err)
		}
		e.boundConcrete = concrete
	}

	for _, res := range fg.rtResources {
		if res.firstPass != p || res.imported {
			continue
		}
		first := fg.renderTargets[res.members[0]]
		ad, att := fg.toAllocatorRenderTargetDescriptor(first)
		concrete, err := fg.allocator.AcquireRenderTarget(ad, att)
		if err != nil {
			return fmt.Errorf("%w: acquiring render target %q: %v", ErrAllocatorFailure, first.name, err)
		}
		res.concrete = concrete
	}
	return nil
}

// releaseAt releases every resource entry and render target whose
// liveness interval ends at pass p.
func (fg *FrameGraph) releaseAt(p int) error {
	for _, res := range fg.rtResources {
		if res.lastPass != p || res.imported {
			continue
		}
		first := fg.renderTargets[res.members[0]]
		ad, _ := fg.toAllocatorRenderTargetDescriptor(first)
		fg.allocator.ReleaseRenderTarget(ad, res.concrete)
	}

	for _, e := range fg.entries {
		if e.culled || e.imported || e.lastPass != p {
			continue
		}
		desc, ok := e.descriptor.(TextureDescriptor)
		if !ok {
			continue
		}
		ad := toAllocatorTextureDescriptor(desc)
		ad.DoesntNeedTexture = e.doesntNeedTexture
		fg.allocator.ReleaseTexture(ad, e.boundConcrete)
		e.boundConcrete = nil
	}
	return nil
}

func toAllocatorTextureDescriptor(d TextureDescriptor) allocator.TextureDescriptor {
	return allocator.TextureDescriptor{
		Width:         d.Width,
		Height:        d.Height,
		Depth:         d.Depth,
		MipLevelCount: d.MipLevelCount,
		SampleCount:   d.SampleCount,
		Format:        d.Format,
		Usage:         allocator.TextureUsage(d.Usage),
	}
}

// toAllocatorRenderTargetDescriptor builds the low-level allocation
// request for rt from the descriptors of its declared attachments,
// along with the already-acquired concrete textures to bind.
func (fg *FrameGraph) toAllocatorRenderTargetDescriptor(rt *renderTarget) (allocator.RenderTargetDescriptor, allocator.RenderTargetAttachments) {
	var ad allocator.RenderTargetDescriptor
	var att allocator.RenderTargetAttachments
	ad.Samples = rt.desc.Samples

	for _, a := range rt.desc.attachments() {
		entry := fg.entryFor(a.handle)
		if entry == nil {
			continue
		}
		d, _ := entry.descriptor.(TextureDescriptor)
		ad.Width, ad.Height = d.Width, d.Height

		switch {
		case a.slot >= slotColor0 && a.slot <= slotColor3:
			i := int(a.slot - slotColor0)
			ad.ColorUsed[i] = true
			ad.ColorFormats[i] = d.Format
			att.Color[i] = entry.boundConcrete
		case a.slot == slotDepth:
			ad.HasDepth = true
			ad.DepthFormat = d.Format
			att.Depth = entry.boundConcrete
		case a.slot == slotStencil:
			ad.HasStencil = true
			ad.StencilFormat = d.Format
			att.Stencil = entry.boundConcrete
		}
	}
	return ad, att
}
