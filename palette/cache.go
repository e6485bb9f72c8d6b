package palette

import (
	"iter"

	"github.com/lixenwraith/vi-palette/piece"
)

// SpriteRef names the tile a preview draws for an entry, empty when there is none
type SpriteRef string

// SpritePair holds the representative terrain and furniture tiles of a resolved entry
type SpritePair struct {
	Terrain   SpriteRef
	Furniture SpriteRef
}

// Representative returns furniture when present, otherwise terrain
func (p SpritePair) Representative() (SpriteRef, bool) {
	if p.Furniture != "" {
		return p.Furniture, true
	}
	if p.Terrain != "" {
		return p.Terrain, true
	}
	return "", false
}

// cached is an explicit (valid, value) pair recomputed on read
// The zero value is invalid, so copies made through Clone start invalid
type cached[T any] struct {
	valid bool
	value T
}

func (c *cached[T]) get(build func() T) T {
	if !c.valid {
		c.value = build()
		c.valid = true
	}
	return c.value
}

func (c *cached[T]) invalidate() {
	var zero T
	c.value = zero
	c.valid = false
}

// firstSprite returns the first candidate of the first piece of kind k
// A matching piece with an empty or null list yields no sprite; later pieces are not consulted
func firstSprite(pieces iter.Seq[*piece.Piece], k piece.Kind) SpriteRef {
	for p := range pieces {
		if p.Kind() != k {
			continue
		}
		if v, ok := p.Values.First(); ok {
			return SpriteRef(v)
		}
		return ""
	}
	return ""
}
