package palette

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/vi-palette/core"
)

// NodeKind classifies a dependency tree row
type NodeKind uint8

const (
	NodePalette NodeKind = iota // Resolved palette
	NodeSwitch                  // Ancestor switch with its options
	NodeMissing                 // Candidate id that does not resolve
	NodeCycle                   // Palette already being expanded on this path
)

// TreeNode is one pre-flattened row of a palette dependency tree
type TreeNode struct {
	Kind    NodeKind
	Label   string
	ID      string   // Palette identifier, empty for switches
	Palette *Palette // Nil unless Kind is NodePalette or NodeCycle
	Depth   int
	IsLast  bool // Last sibling at this depth (for tree lines)

	// Switch rows carry their owner and index; option rows carry the option index too
	Owner       core.UUID
	SwitchIndex int
	OptionIndex int
	Selected    bool // Option currently chosen by the selection
}

// DependencyTree flattens root's inheritance graph for display
// Every switch lists all its options; only the selected one is expanded further
func DependencyTree(lookup Lookup, root *Palette, sel Selection) []TreeNode {
	b := treeBuilder{lookup: lookup, sel: sel}
	b.palette(root, 0, -1, -1, true, core.InvalidUUID)
	markLastSiblings(b.nodes)
	return b.nodes
}

type treeBuilder struct {
	lookup Lookup
	sel    Selection
	nodes  []TreeNode
	stack  []*Palette
}

func (b *treeBuilder) find(id string) *Palette {
	if b.lookup == nil {
		return nil
	}
	return b.lookup.FindByString(id)
}

func (b *treeBuilder) palette(p *Palette, depth, switchIdx, optIdx int, selected bool, owner core.UUID) {
	node := TreeNode{
		Kind:        NodePalette,
		Label:       p.DisplayName(),
		ID:          p.Identifier(),
		Palette:     p,
		Depth:       depth,
		Owner:       owner,
		SwitchIndex: switchIdx,
		OptionIndex: optIdx,
		Selected:    selected,
	}
	if slices.Contains(b.stack, p) {
		node.Kind = NodeCycle
		b.nodes = append(b.nodes, node)
		return
	}
	b.nodes = append(b.nodes, node)
	if !selected {
		return
	}

	b.stack = append(b.stack, p)
	for i, sw := range p.Ancestors.Switches {
		b.nodes = append(b.nodes, TreeNode{
			Kind:        NodeSwitch,
			Label:       fmt.Sprintf("switch %d", i+1),
			Depth:       depth + 1,
			Owner:       p.UUID,
			SwitchIndex: i,
			OptionIndex: -1,
		})
		chosen := b.sel.Selected(p.UUID, i, len(sw.Options))
		for j, id := range sw.Options {
			if anc := b.find(id); anc != nil {
				b.palette(anc, depth+2, i, j, j == chosen, p.UUID)
				continue
			}
			b.nodes = append(b.nodes, TreeNode{
				Kind:        NodeMissing,
				Label:       id,
				ID:          id,
				Depth:       depth + 2,
				Owner:       p.UUID,
				SwitchIndex: i,
				OptionIndex: j,
				Selected:    j == chosen,
			})
		}
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// markLastSiblings flags nodes with no later sibling under the same parent
func markLastSiblings(nodes []TreeNode) {
	for i := range nodes {
		nodes[i].IsLast = true
		d := nodes[i].Depth
		for j := i + 1; j < len(nodes); j++ {
			if nodes[j].Depth < d {
				break
			}
			if nodes[j].Depth == d {
				nodes[i].IsLast = false
				break
			}
		}
	}
}

// MissingAncestors lists every candidate id reachable from p through any option
// that does not resolve, deduplicated in walk order
func MissingAncestors(lookup Lookup, p *Palette) []string {
	var (
		missing []string
		visited []*Palette
	)
	var walk func(*Palette)
	walk = func(p *Palette) {
		if slices.Contains(visited, p) {
			return
		}
		visited = append(visited, p)
		for _, sw := range p.Ancestors.Switches {
			for _, id := range sw.Options {
				var anc *Palette
				if lookup != nil {
					anc = lookup.FindByString(id)
				}
				if anc == nil {
					missing = appendUnique(missing, id)
					continue
				}
				walk(anc)
			}
		}
	}
	walk(p)
	return missing
}
