// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportGraphvizContainsPassesAndResources(t *testing.T) {
	fg := New(testAllocator())

	var out Handle[Texture]
	fg.AddPass("draw", func(b *Builder, d *any) {
		out = createWrite(b, "out", colorDesc(64, 64))
	}, nil)
	fg.Present(out)
	fg.Compile()

	var buf bytes.Buffer
	if err := fg.ExportGraphviz(&buf); err != nil {
		t.Fatalf("ExportGraphviz: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "digraph framegraph {") {
		t.Errorf("ExportGraphviz output should start with the digraph header, got: %s", got)
	}
	if !strings.Contains(got, "draw (pass 0)") {
		t.Error("ExportGraphviz output should name the pass")
	}
	if !strings.Contains(got, "out v1") {
		t.Error("ExportGraphviz output should name the written resource version")
	}
}

func TestExportGraphvizMarksCulledDashed(t *testing.T) {
	fg := New(testAllocator())

	fg.AddPass("dead", func(b *Builder, d *any) {
		createWrite(b, "dead-out", colorDesc(64, 64))
	}, nil)
	fg.Compile()

	var buf bytes.Buffer
	if err := fg.ExportGraphviz(&buf); err != nil {
		t.Fatalf("ExportGraphviz: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `style=dashed`) {
		t.Error("a culled pass should render with a dashed style")
	}
}

func TestExportGraphvizIncludesAliasEdge(t *testing.T) {
	fg := New(testAllocator())

	var from, to Handle[Texture]
	fg.AddPass("setup", func(b *Builder, d *any) {
		from = b.CreateTexture("from", colorDesc(64, 64))
		to = b.CreateTexture("to", colorDesc(64, 64))
	}, nil)
	fg.MoveResource(from, to)
	fg.Compile()

	var buf bytes.Buffer
	if err := fg.ExportGraphviz(&buf); err != nil {
		t.Fatalf("ExportGraphviz: %v", err)
	}

	if !strings.Contains(buf.String(), "moveResource") {
		t.Error("ExportGraphviz output should include the alias edge")
	}
}
