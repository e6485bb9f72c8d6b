package palette

import (
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/mapkey"
	"github.com/lixenwraith/vi-palette/piece"
)

// ViewPiece is a non-owning reference to a piece and the palette it came from
type ViewPiece struct {
	Source *Palette
	Piece  *piece.Piece
}

// ViewEntry is one resolved key, aggregating pieces from every contributing palette
type ViewEntry struct {
	Key    mapkey.Key
	Name   string
	Color  tcell.Color
	Pieces []ViewPiece

	// name and color are separate first-writer slots
	hasName  bool
	hasColor bool
	sprites   cached[SpritePair]
}

// FirstOfKind returns the first piece of kind k, nil if none
func (e *ViewEntry) FirstOfKind(k piece.Kind) *ViewPiece {
	for i := range e.Pieces {
		if e.Pieces[i].Piece.Kind() == k {
			return &e.Pieces[i]
		}
	}
	return nil
}

// CountKind returns how many pieces of kind k the entry holds
func (e *ViewEntry) CountKind(k piece.Kind) int {
	n := 0
	for _, vp := range e.Pieces {
		if vp.Piece.Kind() == k {
			n++
		}
	}
	return n
}

// Sprites returns the representative terrain and furniture tiles
func (e *ViewEntry) Sprites() SpritePair {
	return e.sprites.get(e.buildSprites)
}

func (e *ViewEntry) pieceSeq(yield func(*piece.Piece) bool) {
	for _, vp := range e.Pieces {
		if !yield(vp.Piece) {
			return
		}
	}
}

func (e *ViewEntry) buildSprites() SpritePair {
	return SpritePair{
		Terrain:   firstSprite(e.pieceSeq, piece.KindAltTerrain),
		Furniture: firstSprite(e.pieceSeq, piece.KindAltFurniture),
	}
}

// View is the flattened, read-only merge of a palette with its selected ancestors
// It is populated through AddPalette/AddPaletteRecursive and frozen by Finalize
type View struct {
	lookup Lookup
	dedupe bool

	palettes []*Palette
	entries  []ViewEntry
	index    entryIndex

	missing []string
	cycles  []string
	defects int

	building  map[mapkey.Key]int
	stack     []*Palette
	finalized bool
}

// ViewOption configures how a view merges its sources
type ViewOption func(*View)

// DedupeSources merges each source palette at most once even when several
// ancestor paths reach it; the first visit wins
func DedupeSources() ViewOption {
	return func(v *View) {
		v.dedupe = true
	}
}

// NewView creates an empty view resolving ancestors through lookup
// A nil lookup treats every ancestor as dangling
func NewView(lookup Lookup, opts ...ViewOption) *View {
	v := &View{
		lookup:   lookup,
		building: make(map[mapkey.Key]int),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) mustBeOpen() {
	if v.finalized {
		panic("palette: view is finalized and read-only")
	}
}

// AddPalette merges pal's own entries on top of what the view already holds
func (v *View) AddPalette(pal *Palette) {
	v.mustBeOpen()
	seen := slices.Contains(v.palettes, pal)
	if seen && v.dedupe {
		return
	}
	if !seen {
		v.palettes = append(v.palettes, pal)
	}

	for i := range pal.Entries {
		src := &pal.Entries[i]
		if !src.Key.Valid() {
			continue
		}
		ve := v.entryFor(src.Key)
		if !ve.hasName && src.Name != "" {
			ve.Name = src.Name
			ve.hasName = true
		}
		if !ve.hasColor && src.Color != tcell.ColorDefault {
			ve.Color = src.Color
			ve.hasColor = true
		}
		for _, pc := range src.Mapping.Pieces {
			v.checkPiece(pal, pc)
			if pc.Exclusive() {
				kind := pc.Kind()
				ve.Pieces = slices.DeleteFunc(ve.Pieces, func(vp ViewPiece) bool {
					return !vp.Piece.Constrained && vp.Piece.Kind() == kind
				})
			}
			ve.Pieces = append(ve.Pieces, ViewPiece{Source: pal, Piece: pc})
		}
		ve.sprites.invalidate()
	}
}

// AddPaletteRecursive merges every selected ancestor of pal, depth first and in
// switch order, then pal itself on top
func (v *View) AddPaletteRecursive(pal *Palette, sel Selection) {
	v.mustBeOpen()
	if slices.Contains(v.stack, pal) {
		v.cycles = appendUnique(v.cycles, pal.Identifier())
		return
	}
	v.stack = append(v.stack, pal)

	for i, sw := range pal.Ancestors.Switches {
		id, ok := sw.Selected(sel, pal.UUID, i)
		if !ok {
			continue
		}
		var anc *Palette
		if v.lookup != nil {
			anc = v.lookup.FindByString(id)
		}
		if anc == nil {
			v.missing = appendUnique(v.missing, id)
			continue
		}
		v.AddPaletteRecursive(anc, sel)
	}

	v.stack = v.stack[:len(v.stack)-1]
	v.AddPalette(pal)
}

// Finalize builds the lookup index and freezes the view
func (v *View) Finalize() *View {
	v.mustBeOpen()
	v.index.rebuild(len(v.entries), v.keyAt)
	v.building = nil
	v.stack = nil
	v.finalized = true
	return v
}

// Finalized reports whether the view is frozen
func (v *View) Finalized() bool {
	return v.finalized
}

func (v *View) entryFor(key mapkey.Key) *ViewEntry {
	if pos, ok := v.building[key]; ok {
		return &v.entries[pos]
	}
	v.entries = append(v.entries, ViewEntry{Key: key})
	v.building[key] = len(v.entries) - 1
	return &v.entries[len(v.entries)-1]
}

func (v *View) keyAt(i int) mapkey.Key {
	return v.entries[i].Key
}

// FindEntry returns the resolved entry for key, nil when absent
func (v *View) FindEntry(key mapkey.Key) *ViewEntry {
	pos := v.index.lookup(key, len(v.entries), v.keyAt)
	if pos < 0 {
		return nil
	}
	return &v.entries[pos]
}

// Entries returns the resolved entries in first-seen order; callers must not modify them
func (v *View) Entries() []ViewEntry {
	return v.entries
}

// Len returns the number of resolved keys
func (v *View) Len() int {
	return len(v.entries)
}

// Palettes returns the contributing palettes in first-merge order
func (v *View) Palettes() []*Palette {
	return v.palettes
}

// Missing returns selected ancestor identifiers that did not resolve, in walk order
func (v *View) Missing() []string {
	return v.missing
}

// Cycles returns identifiers of palettes skipped because they were already being resolved
func (v *View) Cycles() []string {
	return v.cycles
}

// Defects returns how many structurally invalid pieces were merged
func (v *View) Defects() int {
	return v.defects
}

// Color returns the resolved entry color, tcell.ColorDefault when absent
func (v *View) Color(key mapkey.Key) tcell.Color {
	if e := v.FindEntry(key); e != nil && e.hasColor {
		return e.Color
	}
	return tcell.ColorDefault
}

// Sprites returns the terrain/furniture tile pair for key
func (v *View) Sprites(key mapkey.Key) SpritePair {
	if e := v.FindEntry(key); e != nil {
		return e.Sprites()
	}
	return SpritePair{}
}

// Sprite returns the representative tile for key: furniture first, then terrain
func (v *View) Sprite(key mapkey.Key) (SpriteRef, bool) {
	return v.Sprites(key).Representative()
}

// DisplayName returns the entry name, else a summary of its winning exclusive piece,
// else the key glyph. Absent keys yield an empty string
func (v *View) DisplayName(key mapkey.Key) string {
	e := v.FindEntry(key)
	if e == nil {
		return ""
	}
	if e.Name != "" {
		return e.Name
	}
	for _, k := range []piece.Kind{piece.KindAltFurniture, piece.KindAltTerrain, piece.KindAltTrap} {
		if vp := e.FirstOfKind(k); vp != nil {
			return vp.Piece.DataSummary()
		}
	}
	return e.Key.String()
}

// NumPiecesTotal counts pieces across all resolved entries
func (v *View) NumPiecesTotal() int {
	total := 0
	for i := range v.entries {
		total += len(v.entries[i].Pieces)
	}
	return total
}

// Resolve builds and finalizes the view of pal under the given selection
func Resolve(lookup Lookup, pal *Palette, sel Selection, opts ...ViewOption) *View {
	v := NewView(lookup, opts...)
	v.AddPaletteRecursive(pal, sel)
	return v.Finalize()
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
