// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"fmt"
	"io"
)

// ExportGraphviz writes a Graphviz DOT rendering of the compiled graph
// to w: a rectangular node per pass (dashed if culled), an oval node
// per resource version (dashed if culled), solid edges for reads, bold
// edges for writes, and a labeled edge for every MoveResource alias.
// It is a diagnostic only; Compile need not have run, though the
// culled/kept distinction is only meaningful afterward.
func (fg *FrameGraph) ExportGraphviz(w io.Writer) error {
	bw := &errWriter{w: w}

	bw.printf("digraph framegraph {\n")
	bw.printf("  rankdir=LR;\n")

	for i, p := range fg.passes {
		style := "solid"
		if p.culled {
			style = "dashed"
		}
		bw.printf("  \"P%d\" [shape=box label=%q style=%s];\n", i, fmt.Sprintf("%s (pass %d)", p.name, i), style)
	}

	for i, n := range fg.nodes {
		style := "solid"
		if n.culled {
			style = "dashed"
		}
		label := fmt.Sprintf("%s v%d", n.entry.name, n.version)
		bw.printf("  \"R%d\" [shape=oval label=%q style=%s];\n", i, label, style)

		if n.producer != noPass {
			bw.printf("  \"P%d\" -> \"R%d\" [style=bold];\n", n.producer, i)
		}
		for _, ridx := range n.reads {
			bw.printf("  \"R%d\" -> \"P%d\";\n", i, ridx)
		}
	}

	for toID, fromID := range fg.aliasOf {
		bw.printf("  \"E%d\" -> \"E%d\" [label=\"moveResource\" style=dotted];\n", toID, fromID)
	}

	bw.printf("}\n")
	return bw.err
}

// errWriter collapses a sequence of fmt.Fprintf calls into one that
// only ever reports the first error, so ExportGraphviz's body reads as
// a flat list of writes instead of an if-err-return after each one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
