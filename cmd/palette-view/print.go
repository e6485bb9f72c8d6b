package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/lixenwraith/vi-palette/palette"
	"github.com/lixenwraith/vi-palette/preview"
)

func printTree(w io.Writer, nodes []palette.TreeNode) {
	for i, n := range nodes {
		mark := ""
		if n.Kind != palette.NodeSwitch && n.OptionIndex >= 0 && n.Selected {
			mark = " *"
		}
		fmt.Fprintf(w, "%s%s%s%s\n", preview.TreePrefix(nodes, i), n.Label, preview.NodeSuffix(n), mark)
	}
}

// printEntries lists every resolved key with its pieces and the palette each came from
func printEntries(w io.Writer, v *palette.View) {
	fmt.Fprintf(w, "entries: %d  pieces: %d\n", v.Len(), v.NumPiecesTotal())
	for _, e := range v.Entries() {
		sp := e.Sprites()
		fmt.Fprintf(w, "%s  %-20s %3d  %s %s\n",
			e.Key, v.DisplayName(e.Key), len(e.Pieces), spriteOrDash(sp.Terrain), spriteOrDash(sp.Furniture))
		for _, vp := range e.Pieces {
			fmt.Fprintf(w, "     %-16s %s\n", vp.Source.Identifier(), vp.Piece.Summary())
		}
	}
	if missing := v.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "missing: %s\n", strings.Join(missing, ", "))
	}
	if cycles := v.Cycles(); len(cycles) > 0 {
		fmt.Fprintf(w, "cycles: %s\n", strings.Join(cycles, ", "))
	}
	if n := v.Defects(); n > 0 {
		fmt.Fprintf(w, "invalid pieces merged: %d\n", n)
	}
}

func spriteOrDash(s palette.SpriteRef) string {
	if s == "" {
		return "-"
	}
	return string(s)
}
