// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"testing"

	"github.com/gogpu/framegraph/allocator"
	"github.com/gogpu/framegraph/driver"
	"github.com/gogpu/gputypes"
)

func testAllocator() allocator.ResourceAllocator {
	return allocator.NewSoftwarePool()
}

func colorDesc(w, h uint32) TextureDescriptor {
	return DefaultTextureDescriptor(w, h, gputypes.TextureFormatRGBA8Unorm)
}

func TestNewEmptyGraph(t *testing.T) {
	fg := New(testAllocator())
	if fg == nil {
		t.Fatal("New returned nil")
	}
	if fg.compiled {
		t.Error("new graph should not be compiled")
	}
}

func TestWithCapacityHint(t *testing.T) {
	fg := New(testAllocator(), WithCapacityHint(8))
	if cap(fg.passes) < 8 {
		t.Errorf("cap(passes) = %d, want >= 8", cap(fg.passes))
	}
}

func TestReset(t *testing.T) {
	fg := New(testAllocator())
	fg.AddPass("noop", func(b *Builder, d *any) {}, func(d *any, r *Resources, drv driver.Driver) error { return nil })
	fg.Compile()

	fg.Reset()

	if len(fg.passes) != 0 || len(fg.nodes) != 0 || len(fg.entries) != 0 {
		t.Error("Reset did not clear the graph")
	}
	if fg.compiled {
		t.Error("Reset did not clear compiled flag")
	}
}

func TestAddPassReturnsStableName(t *testing.T) {
	fg := New(testAllocator())
	ref := fg.AddPass("my-pass", func(b *Builder, d *any) {}, nil)
	if ref.Name() != "my-pass" {
		t.Errorf("Name() = %q, want %q", ref.Name(), "my-pass")
	}
}

func TestPresentInvalidHandlePanics(t *testing.T) {
	fg := New(testAllocator())
	defer func() {
		if recover() == nil {
			t.Error("Present(zero handle) should panic")
		}
	}()
	fg.Present(Handle[Texture]{})
}

func TestImportMarksEntryImported(t *testing.T) {
	fg := New(testAllocator())
	concrete := "backbuffer-object"
	h := fg.Import("backbuffer", colorDesc(800, 600), concrete)

	entry := fg.entryFor(h)
	if entry == nil {
		t.Fatal("entryFor(imported handle) = nil")
	}
	if !entry.imported {
		t.Error("imported entry should have imported = true")
	}
	if entry.concrete != concrete {
		t.Errorf("entry.concrete = %v, want %v", entry.concrete, concrete)
	}
}

func TestImportRenderTargetStoresMetadata(t *testing.T) {
	fg := New(testAllocator())
	concrete := "swapchain-framebuffer"
	h := fg.ImportRenderTarget("swapchain", RenderTargetDescriptor{}, concrete, 1920, 1080, TargetBufferColor0, TargetBufferNone)

	entry := fg.entryFor(h)
	if entry == nil {
		t.Fatal("entryFor(imported render target handle) = nil")
	}
	if entry.importedRenderTarget != concrete {
		t.Errorf("importedRenderTarget = %v, want %v", entry.importedRenderTarget, concrete)
	}
	if entry.importedRTWidth != 1920 || entry.importedRTHeight != 1080 {
		t.Errorf("imported dimensions = %dx%d, want 1920x1080", entry.importedRTWidth, entry.importedRTHeight)
	}
	if entry.importedRTDiscardStart != TargetBufferColor0 {
		t.Errorf("importedRTDiscardStart = %v, want TargetBufferColor0", entry.importedRTDiscardStart)
	}
}

func TestMoveResourceRedirectsLatestNode(t *testing.T) {
	fg := New(testAllocator())

	var from, to Handle[Texture]
	fg.AddPass("setup", func(b *Builder, d *any) {
		from = b.CreateTexture("history-a", colorDesc(256, 256))
		to = b.CreateTexture("history-b", colorDesc(256, 256))
	}, nil)

	fg.MoveResource(from, to)

	fromEntry := fg.entryFor(from)
	toEntry := fg.entryFor(to)
	if fromEntry != toEntry {
		t.Error("after MoveResource, from and to should resolve to the same entry")
	}
}

func TestMoveResourceInvalidHandlePanics(t *testing.T) {
	fg := New(testAllocator())
	var h Handle[Texture]
	fg.AddPass("setup", func(b *Builder, d *any) {
		h = b.CreateTexture("tex", colorDesc(64, 64))
	}, nil)

	defer func() {
		if recover() == nil {
			t.Error("MoveResource with an invalid handle should panic")
		}
	}()
	fg.MoveResource(Handle[Texture]{}, h)
}

func TestIsValidAfterWrite(t *testing.T) {
	fg := New(testAllocator())

	var original, written Handle[Texture]
	fg.AddPass("producer", func(b *Builder, d *any) {
		original = b.CreateTexture("tex", colorDesc(64, 64))
		written = Write(b, original)
	}, nil)

	if fg.IsValid(original) {
		t.Error("handle superseded by Write should be invalid")
	}
	if !fg.IsValid(written) {
		t.Error("handle returned by Write should be valid")
	}
}

func TestGetDescriptorRoundTrips(t *testing.T) {
	fg := New(testAllocator())
	desc := colorDesc(320, 240)

	var h Handle[Texture]
	fg.AddPass("setup", func(b *Builder, d *any) {
		h = b.CreateTexture("tex", desc)
	}, nil)

	got := fg.GetDescriptor(h)
	if got != desc {
		t.Errorf("GetDescriptor = %+v, want %+v", got, desc)
	}
}

func TestAddTypedPassSharesDataAcrossSetupAndExecute(t *testing.T) {
	fg := New(testAllocator())
	type passData struct {
		tex Handle[Texture]
	}

	var executed bool
	h0 := fg.Import("out", colorDesc(64, 64), "backing")
	var written Handle[Texture]
	AddTypedPass(fg, "typed", func(b *Builder, d *passData) {
		d.tex = Write(b, h0)
		written = d.tex
	}, func(d *passData, r *Resources, drv driver.Driver) error {
		executed = true
		if !d.tex.IsValid() {
			t.Error("typed pass data was not populated from setup")
		}
		return nil
	})
	fg.Present(written)
	fg.Compile()
	if err := fg.Execute(driver.NullDriver{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !executed {
		t.Error("typed pass execute never ran")
	}
}

func TestAddPassCaptureTooLargePanics(t *testing.T) {
	fg := New(testAllocator())
	type oversized struct {
		buf [maxCaptureSize + 1]byte
	}

	defer func() {
		if recover() == nil {
			t.Error("AddPass with an oversized Data struct should panic")
		}
	}()
	AddTypedPass(fg, "too-big", func(b *Builder, d *oversized) {}, func(d *oversized, r *Resources, drv driver.Driver) error { return nil })
}
