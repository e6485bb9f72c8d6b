package main

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/palette"
	"github.com/lixenwraith/vi-palette/preview"
)

// viewer holds the interactive session: the root being previewed and its live selection
type viewer struct {
	screen   tcell.Screen
	renderer *preview.Renderer
	reg      *palette.Registry
	root     *palette.Palette
	sel      palette.Selection
	opts     []palette.ViewOption
}

func newViewer(screen tcell.Screen, reg *palette.Registry, root *palette.Palette, sel palette.Selection, opts []palette.ViewOption) *viewer {
	return &viewer{
		screen:   screen,
		renderer: preview.NewRenderer(screen),
		reg:      reg,
		root:     root,
		sel:      sel,
		opts:     opts,
	}
}

func runInteractive(reg *palette.Registry, root *palette.Palette, sel palette.Selection, opts []palette.ViewOption) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	v := newViewer(screen, reg, root, sel, opts)
	v.redraw()
	for {
		if !v.handle(screen.PollEvent()) {
			return nil
		}
		v.redraw()
	}
}

func (v *viewer) redraw() {
	view := palette.Resolve(v.reg, v.root, v.sel, v.opts...)
	v.renderer.Draw(view, palette.DependencyTree(v.reg, v.root, v.sel))
}

// handle applies one event and reports whether the session continues
// q, Escape and Ctrl-C quit; digit n cycles the root's n-th switch
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return false

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		r := ev.Rune()
		if r == 'q' {
			return false
		}
		if r >= '1' && r <= '9' {
			idx := int(r - '1')
			switches := v.root.Ancestors.Switches
			if idx < len(switches) {
				v.sel.Cycle(v.root.UUID, idx, len(switches[idx].Options))
				log.Printf("switch %d of %s -> option %d", idx+1, v.root.Identifier(),
					v.sel.Selected(v.root.UUID, idx, len(switches[idx].Options)))
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
		v.renderer.Invalidate()
	}
	return true
}
