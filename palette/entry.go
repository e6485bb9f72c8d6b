package palette

import (
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/mapkey"
	"github.com/lixenwraith/vi-palette/piece"
)

// Entry binds a key to a mapping plus display metadata
type Entry struct {
	Key     mapkey.Key
	Name    string
	Color   tcell.Color
	Mapping Mapping

	sprite cached[SpriteRef]
}

// NewEntry creates an entry with the default piece color
func NewEntry(key mapkey.Key, m Mapping) Entry {
	return Entry{
		Key:     key,
		Color:   core.ColorDefaultPiece,
		Mapping: m,
	}
}

// Clone deep-copies the mapping; the copy's sprite cache starts invalid
func (e *Entry) Clone() Entry {
	return Entry{
		Key:     e.Key,
		Name:    e.Name,
		Color:   e.Color,
		Mapping: e.Mapping.Clone(),
	}
}

// DisplayName returns the author-given name
func (e *Entry) DisplayName() string {
	return e.Name
}

// Sprite returns the representative tile: first alt furniture, else first alt terrain
func (e *Entry) Sprite() (SpriteRef, bool) {
	ref := e.sprite.get(e.buildSprite)
	return ref, ref != ""
}

// SpriteCached reports whether the sprite cache currently holds a computed value
func (e *Entry) SpriteCached() bool {
	return e.sprite.valid
}

// InvalidateCache drops the computed sprite; call after mutating the mapping in place
func (e *Entry) InvalidateCache() {
	e.sprite.invalidate()
}

func (e *Entry) buildSprite() SpriteRef {
	pieces := slices.Values(e.Mapping.Pieces)
	if ref := firstSprite(pieces, piece.KindAltFurniture); ref != "" {
		return ref
	}
	return firstSprite(pieces, piece.KindAltTerrain)
}
