// Package preview draws a resolved palette and its dependency tree onto a terminal screen
package preview

import (
	"encoding/binary"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/zeebo/blake3"

	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/palette"
)

const (
	headerRows = 2
	minTreeW   = 24
	nameWidth  = 20
	countWidth = 4
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorReset)
	styleHeader   = styleDefault.Foreground(tcell.ColorBlack).Background(core.ColorSelected)
	styleLine     = styleDefault.Foreground(core.ColorTreeLine)
	styleText     = styleDefault.Foreground(tcell.ColorWhite)
	styleDim      = styleDefault.Foreground(tcell.ColorGray)
	styleSelected = styleDefault.Foreground(core.ColorSelected)
	styleMissing  = styleDefault.Foreground(core.ColorMissingPalette)
	styleCycle    = styleDefault.Foreground(core.ColorHighlighted)
)

// Renderer draws a view and its tree, skipping frames whose content has not changed
type Renderer struct {
	screen tcell.Screen
	width  int
	height int

	last   [32]byte
	valid  bool
	frames int
}

// NewRenderer creates a renderer bound to screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Frames returns how many frames were actually drawn
func (r *Renderer) Frames() int {
	return r.frames
}

// Invalidate forces the next Draw to repaint
func (r *Renderer) Invalidate() {
	r.valid = false
}

// Draw paints the view's entries and the dependency tree rows
// Returns false without touching the screen when neither the content nor the screen size changed
func (r *Renderer) Draw(v *palette.View, nodes []palette.TreeNode) bool {
	w, h := r.screen.Size()
	key := frameKey(v, nodes)
	if r.valid && key == r.last && w == r.width && h == r.height {
		return false
	}
	r.width, r.height = w, h
	r.last = key
	r.valid = true
	r.frames++

	r.screen.Clear()
	r.drawHeader(v, nodes)

	treeW := max(r.width/3, minTreeW)
	if treeW > r.width {
		treeW = r.width
	}
	r.drawTree(nodes, treeW)
	for y := headerRows; y < r.height; y++ {
		r.put(treeW, y, '│', styleLine)
	}
	r.drawEntries(v, treeW+2)

	r.screen.Show()
	return true
}

func (r *Renderer) drawHeader(v *palette.View, nodes []palette.TreeNode) {
	for x := 0; x < r.width; x++ {
		r.put(x, 0, ' ', styleHeader)
	}
	title := " palette"
	if len(nodes) > 0 {
		title = " " + nodes[0].Label
	}
	x := r.text(0, 0, r.width, title+" ", styleHeader)
	info := fmt.Sprintf(" entries:%d pieces:%d", v.Len(), v.NumPiecesTotal())
	if n := len(v.Missing()); n > 0 {
		info += fmt.Sprintf(" missing:%d", n)
	}
	if n := len(v.Cycles()); n > 0 {
		info += fmt.Sprintf(" cycles:%d", n)
	}
	r.text(x, 0, r.width, info, styleHeader)
}

func (r *Renderer) drawTree(nodes []palette.TreeNode, maxX int) {
	for i, node := range nodes {
		y := headerRows + i
		if y >= r.height {
			return
		}
		x := r.text(0, y, maxX, TreePrefix(nodes, i), styleLine)

		style := styleText
		switch node.Kind {
		case palette.NodeSwitch:
			style = styleLine
		case palette.NodeMissing:
			style = styleMissing
		case palette.NodeCycle:
			style = styleCycle
		default:
			if node.Depth > 0 && !node.Selected {
				style = styleDim
			} else if node.OptionIndex >= 0 {
				style = styleSelected
			}
		}
		x = r.text(x, y, maxX, node.Label, style)
		r.text(x, y, maxX, NodeSuffix(node), style)
	}
}

func (r *Renderer) drawEntries(v *palette.View, startX int) {
	entries := v.Entries()
	for i := range entries {
		y := headerRows + i
		if y >= r.height {
			return
		}
		e := &entries[i]

		glyphStyle := styleText
		if c := v.Color(e.Key); c != tcell.ColorDefault {
			glyphStyle = styleDefault.Foreground(c)
		}
		r.put(startX, y, rune(e.Key), glyphStyle)

		x := startX + 2
		r.text(x, y, min(x+nameWidth, r.width), v.DisplayName(e.Key), styleText)
		x += nameWidth + 1
		r.text(x, y, r.width, fmt.Sprintf("%*d", countWidth-1, len(e.Pieces)), styleDim)
		x += countWidth + 1

		sp := e.Sprites()
		r.text(x, y, r.width, spriteLabel(sp.Terrain)+" "+spriteLabel(sp.Furniture), styleLine)
	}
}

func spriteLabel(s palette.SpriteRef) string {
	if s == "" {
		return "-"
	}
	return string(s)
}

func (r *Renderer) put(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// text writes s from x, clipped at maxX, and returns the column after it
func (r *Renderer) text(x, y, maxX int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= maxX {
			break
		}
		r.put(x, y, ch, style)
		x++
	}
	return x
}

// frameKey digests everything a frame depends on besides the screen size
func frameKey(v *palette.View, nodes []palette.TreeNode) [32]byte {
	h := blake3.New()
	fp := v.Fingerprint()
	h.Write(fp[:])

	var buf [binary.MaxVarintLen64]byte
	putUvarint := func(x uint64) {
		n := binary.PutUvarint(buf[:], x)
		h.Write(buf[:n])
	}
	putUvarint(uint64(len(nodes)))
	for _, n := range nodes {
		putUvarint(uint64(n.Kind))
		putUvarint(uint64(n.Depth))
		putUvarint(uint64(len(n.Label)))
		h.WriteString(n.Label)
		flags := uint64(0)
		if n.Selected {
			flags |= 1
		}
		if n.IsLast {
			flags |= 2
		}
		putUvarint(flags)
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
