package palette

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/mapkey"
	"github.com/lixenwraith/vi-palette/piece"
)

func mustAdd(t *testing.T, p *Palette, key string, pieces ...*piece.Piece) *Entry {
	t.Helper()
	e, err := p.AddEntry(Entry{Key: mapkey.MustParse(key), Mapping: Mapping{Pieces: pieces}})
	if err != nil {
		t.Fatalf("AddEntry(%q): %v", key, err)
	}
	return e
}

func terrain(id string) *piece.Piece   { return piece.NewAlt(piece.KindAltTerrain, id) }
func furniture(id string) *piece.Piece { return piece.NewAlt(piece.KindAltFurniture, id) }

func item(id string) *piece.Piece {
	p := piece.New(piece.KindItem)
	p.ID = id
	return p
}

func kindsOf(e *ViewEntry) []piece.Kind {
	out := make([]piece.Kind, len(e.Pieces))
	for i, vp := range e.Pieces {
		out[i] = vp.Piece.Kind()
	}
	return out
}

func valuesOf(e *ViewEntry, k piece.Kind) []string {
	var out []string
	for _, vp := range e.Pieces {
		if vp.Piece.Kind() != k {
			continue
		}
		if len(vp.Piece.Values) > 0 {
			out = append(out, vp.Piece.Values[0].Value)
		} else {
			out = append(out, vp.Piece.ID)
		}
	}
	return out
}

// baseChild registers "base" with a wall and "child" inheriting from it
func baseChild(t *testing.T) (*Registry, *Palette, *Palette) {
	t.Helper()
	reg := NewRegistry()
	base := reg.Create("base")
	mustAdd(t, base, "#", terrain("t_wall"))
	child := reg.Create("child")
	child.Ancestors.Add("base")
	mustAdd(t, child, "#", furniture("f_table"))
	return reg, base, child
}

var red = tcell.NewRGBColor(255, 0, 0)
