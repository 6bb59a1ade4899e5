// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph/driver"
)

func TestReadRecordsDependencyEdge(t *testing.T) {
	fg := New(testAllocator())

	var tex Handle[Texture]
	fg.AddPass("producer", func(b *Builder, d *any) {
		tex = b.CreateTexture("tex", colorDesc(64, 64))
	}, nil)

	fg.AddPass("consumer", func(b *Builder, d *any) {
		Read(b, tex, false)
	}, nil)

	node := fg.nodeForIndex(tex.index)
	if len(node.reads) != 1 {
		t.Fatalf("producer node reads = %v, want 1 entry", node.reads)
	}
}

func TestReadSupersededHandlePanics(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("setup", func(b *Builder, d *any) {
		tex := b.CreateTexture("tex", colorDesc(64, 64))
		written := Write(b, tex)
		_ = written

		defer func() {
			if recover() == nil {
				t.Error("Read on a superseded handle should panic")
			}
		}()
		Read(b, tex, false)
	}, nil)
}

func TestReadTypeMismatchPanics(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("setup", func(b *Builder, d *any) {
		texHandle := b.CreateTexture("tex", colorDesc(64, 64))
		bufHandle := Handle[Buffer]{index: texHandle.index}

		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("Read across kinds should panic with ErrTypeMismatch, got %v", err)
			}
		}()
		Read(b, bufHandle, false)
	}, nil)
}

func TestWriteTypeMismatchPanics(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("setup", func(b *Builder, d *any) {
		texHandle := b.CreateTexture("tex", colorDesc(64, 64))
		bufHandle := Handle[Buffer]{index: texHandle.index}

		defer func() {
			err, ok := recover().(error)
			if !ok || !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("Write across kinds should panic with ErrTypeMismatch, got %v", err)
			}
		}()
		Write(b, bufHandle)
	}, nil)
}

func TestWriteProducesNewVersion(t *testing.T) {
	fg := New(testAllocator())

	var v0, v1 Handle[Texture]
	fg.AddPass("setup", func(b *Builder, d *any) {
		v0 = b.CreateTexture("tex", colorDesc(64, 64))
		v1 = Write(b, v0)
	}, nil)

	if v0.index == v1.index {
		t.Error("Write should mint a new node index")
	}
	if fg.entryFor(v0) != fg.entryFor(v1) {
		t.Error("Write should keep the same resourceEntry across versions")
	}
}

func TestCreateRenderTargetUndeclaredAttachmentPanics(t *testing.T) {
	fg := New(testAllocator())
	other := New(testAllocator())

	var foreign Handle[Texture]
	other.AddPass("elsewhere", func(b *Builder, d *any) {
		foreign = b.CreateTexture("tex", colorDesc(64, 64))
	}, nil)

	fg.AddPass("draw", func(b *Builder, d *any) {
		defer func() {
			if recover() == nil {
				t.Error("CreateRenderTarget with an undeclared attachment should panic")
			}
		}()
		b.CreateRenderTarget("rt", SingleColorAttachment(foreign), TargetBufferColor0)
	}, nil)
}

func TestCreateRenderTargetDeclaredAttachmentSucceeds(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("draw", func(b *Builder, d *any) {
		color := b.CreateTexture("color", colorDesc(64, 64))
		b.CreateRenderTarget("rt", SingleColorAttachment(color), TargetBufferColor0)

		if len(b.pass.renderTargets) != 1 {
			t.Errorf("pass should own 1 render target, got %d", len(b.pass.renderTargets))
		}
	}, nil)
}

func TestIsAttachment(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("draw", func(b *Builder, d *any) {
		color := b.CreateTexture("color", colorDesc(64, 64))
		other := b.CreateTexture("other", colorDesc(64, 64))
		b.CreateRenderTarget("rt", SingleColorAttachment(color), TargetBufferColor0)

		if !b.IsAttachment(color) {
			t.Error("color should report as an attachment")
		}
		if b.IsAttachment(other) {
			t.Error("other should not report as an attachment")
		}
	}, nil)
}

func TestGetSamplesReflectsDescriptor(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("setup", func(b *Builder, d *any) {
		desc := colorDesc(64, 64)
		desc.SampleCount = 4
		tex := b.CreateTexture("msaa", desc)
		if got := b.GetSamples(tex); got != 4 {
			t.Errorf("GetSamples = %d, want 4", got)
		}
	}, nil)
}

func TestSideEffectPreventsCulling(t *testing.T) {
	fg := New(testAllocator())

	var ran bool
	fg.AddPass("fire-and-forget", func(b *Builder, d *any) {
		b.SideEffect()
	}, func(d *any, r *Resources, drv driver.Driver) error {
		ran = true
		return nil
	})

	fg.Compile()
	if fg.passes[0].culled {
		t.Error("side-effect pass should never be culled")
	}
	if err := fg.Execute(driver.NullDriver{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Error("side-effect pass should have executed")
	}
}

func TestCreateBufferDeclaresResource(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("setup", func(b *Builder, d *any) {
		buf := b.CreateBuffer("vertices", BufferDescriptor{Size: 4096, Usage: BufferUsageVertex})
		if !buf.IsValid() {
			t.Error("CreateBuffer should return a valid handle")
		}
		got := Read(b, buf, false)
		if got.index != buf.index {
			t.Error("Read(buffer) should return the same handle")
		}
	}, nil)
}

func TestReadDoesntNeedTextureSetsEntryHint(t *testing.T) {
	fg := New(testAllocator())

	var tex, out Handle[Texture]
	fg.AddPass("producer", func(b *Builder, d *any) {
		tex = b.CreateTexture("depth", colorDesc(64, 64))
	}, nil)
	fg.AddPass("consumer", func(b *Builder, d *any) {
		Read(b, tex, true)
		out = Write(b, tex)
	}, nil)
	fg.Present(out)
	fg.Compile()

	entry := fg.entryFor(out)
	if !entry.doesntNeedTexture {
		t.Error("Read(h, true) should set doesntNeedTexture on the resource entry")
	}
}
