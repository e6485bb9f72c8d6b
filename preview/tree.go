package preview

import (
	"strings"

	"github.com/lixenwraith/vi-palette/palette"
)

// TreePrefix returns the connector columns drawn before nodes[idx]'s label
// Each depth level takes two columns; column pair d carries the line of the depth d+1 ancestor
func TreePrefix(nodes []palette.TreeNode, idx int) string {
	node := nodes[idx]
	if node.Depth == 0 {
		return ""
	}
	var b strings.Builder
	for d := 0; d < node.Depth-1; d++ {
		if hasLaterSibling(nodes, idx, d+1) {
			b.WriteString("│ ")
		} else {
			b.WriteString("  ")
		}
	}
	if node.IsLast {
		b.WriteString("└─")
	} else {
		b.WriteString("├─")
	}
	return b.String()
}

// hasLaterSibling reports whether a node at depth follows idx before the tree climbs above it
func hasLaterSibling(nodes []palette.TreeNode, idx, depth int) bool {
	for i := idx + 1; i < len(nodes); i++ {
		if nodes[i].Depth <= depth {
			return nodes[i].Depth == depth
		}
	}
	return false
}

// NodeSuffix returns the marker printed after a tree row's label
func NodeSuffix(n palette.TreeNode) string {
	switch n.Kind {
	case palette.NodeMissing:
		return " [import]"
	case palette.NodeCycle:
		return " (cycle)"
	}
	return ""
}
