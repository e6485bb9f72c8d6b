// Package palette implements authored palettes, the project registry and the
// resolved view that flattens a palette with its selected ancestors.
//
// Everything here runs on the caller's goroutine. Palettes are freely mutable;
// derived structures (entry index, sprite caches) detect staleness on read.
package palette

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/mapkey"
)

var (
	// ErrDuplicateKey is returned when an entry would shadow an existing key
	ErrDuplicateKey = errors.New("palette already has an entry for this key")
	// ErrInvalidKey is returned for the zero key
	ErrInvalidKey = errors.New("entry key is not set")
)

// Palette is an authored store of key -> mapping entries plus inheritance declarations
type Palette struct {
	UUID core.UUID
	Name string

	// Imported palettes are addressed by ImportedID, created ones by CreatedID
	Imported   bool
	ImportedID string
	CreatedID  string
	// Standalone palettes export under their own id instead of being embedded per mapgen
	Standalone bool

	// Entries may be mutated directly; the index heals itself on the next lookup
	Entries   []Entry
	Ancestors AncestorList

	index entryIndex
	ids   *core.UUIDGenerator
}

// New creates a locally created palette with the given id
func New(createdID string) *Palette {
	return &Palette{CreatedID: createdID}
}

// NewImported creates a palette addressed by an imported id
func NewImported(importedID string) *Palette {
	return &Palette{Imported: true, ImportedID: importedID}
}

// Identifier returns the id this palette is referenced by from ancestor switches
func (p *Palette) Identifier() string {
	if p.Imported {
		return p.ImportedID
	}
	return p.CreatedID
}

// DisplayName returns the name, else the identifier, else a uuid placeholder
func (p *Palette) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if id := p.Identifier(); id != "" {
		return id
	}
	return fmt.Sprintf("[uuid=%d]", p.UUID)
}

func (p *Palette) keyAt(i int) mapkey.Key {
	return p.Entries[i].Key
}

// FindEntry returns the entry for key, nil when absent
// The pointer is valid until the next structural mutation of Entries
func (p *Palette) FindEntry(key mapkey.Key) *Entry {
	pos := p.index.lookup(key, len(p.Entries), p.keyAt)
	if pos < 0 {
		return nil
	}
	return &p.Entries[pos]
}

// Has reports whether an entry exists for key
func (p *Palette) Has(key mapkey.Key) bool {
	return p.FindEntry(key) != nil
}

// Color returns the entry color, tcell.ColorDefault when absent
func (p *Palette) Color(key mapkey.Key) tcell.Color {
	if e := p.FindEntry(key); e != nil {
		return e.Color
	}
	return tcell.ColorDefault
}

// Sprite returns the entry's representative tile, building its cache on first use
func (p *Palette) Sprite(key mapkey.Key) (SpriteRef, bool) {
	if e := p.FindEntry(key); e != nil {
		return e.Sprite()
	}
	return "", false
}

// DisplayKey returns the key glyph when an entry exists for it
func (p *Palette) DisplayKey(key mapkey.Key) (string, bool) {
	if e := p.FindEntry(key); e != nil {
		return e.Key.String(), true
	}
	return "", false
}

// NumPiecesTotal counts pieces across all entries
func (p *Palette) NumPiecesTotal() int {
	total := 0
	for i := range p.Entries {
		total += p.Entries[i].Mapping.Len()
	}
	return total
}

// AvailableKey returns the first auto key no entry uses yet
func (p *Palette) AvailableKey() mapkey.Key {
	gen := mapkey.NewGenerator()
	for i := range p.Entries {
		gen.Blacklist(p.Entries[i].Key)
	}
	return gen.Next()
}

// AddEntry appends an entry; pieces without identity get one from the owning registry
func (p *Palette) AddEntry(e Entry) (*Entry, error) {
	if !e.Key.Valid() {
		return nil, ErrInvalidKey
	}
	if p.Has(e.Key) {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateKey, e.Key, p.DisplayName())
	}
	p.assignPieceIDs(&e.Mapping, false)
	e.sprite.invalidate()
	p.Entries = append(p.Entries, e)
	return &p.Entries[len(p.Entries)-1], nil
}

// NewEntry appends an entry for m under the first available key
func (p *Palette) NewEntry(m Mapping) *Entry {
	e, err := p.AddEntry(NewEntry(p.AvailableKey(), m))
	if err != nil {
		// every auto key is taken and so is the fallback
		return nil
	}
	return e
}

// RemoveEntry deletes the entry for key, reporting whether one existed
func (p *Palette) RemoveEntry(key mapkey.Key) bool {
	pos := p.index.lookup(key, len(p.Entries), p.keyAt)
	if pos < 0 {
		return false
	}
	p.RemoveEntryAt(pos)
	return true
}

// RemoveEntryAt deletes the entry at position i
func (p *Palette) RemoveEntryAt(i int) {
	if i < 0 || i >= len(p.Entries) {
		return
	}
	p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
}

// DuplicateEntry inserts a deep copy of the entry for key right after it, under a fresh key
func (p *Palette) DuplicateEntry(key mapkey.Key) *Entry {
	pos := p.index.lookup(key, len(p.Entries), p.keyAt)
	if pos < 0 {
		return nil
	}
	dup := p.Entries[pos].Clone()
	dup.Key = p.AvailableKey()
	if p.Has(dup.Key) {
		return nil
	}
	p.assignPieceIDs(&dup.Mapping, true)

	p.Entries = append(p.Entries, Entry{})
	copy(p.Entries[pos+2:], p.Entries[pos+1:])
	p.Entries[pos+1] = dup
	return &p.Entries[pos+1]
}

// MoveEntry moves the entry at from so it ends up at position to
func (p *Palette) MoveEntry(from, to int) {
	n := len(p.Entries)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	e := p.Entries[from]
	if from < to {
		copy(p.Entries[from:to], p.Entries[from+1:to+1])
	} else {
		copy(p.Entries[to+1:from+1], p.Entries[to:from])
	}
	p.Entries[to] = e
}

// SetEntryKey rekeys an entry in place
func (p *Palette) SetEntryKey(from, to mapkey.Key) error {
	if !to.Valid() {
		return ErrInvalidKey
	}
	e := p.FindEntry(from)
	if e == nil {
		return nil
	}
	if from == to {
		return nil
	}
	if p.Has(to) {
		return fmt.Errorf("%w: %q in %s", ErrDuplicateKey, to, p.DisplayName())
	}
	// FindEntry above may have rebuilt the index; look up again for a fresh pointer
	p.FindEntry(from).Key = to
	p.index.invalidate()
	return nil
}

// MarkChanged invalidates every derived structure after an in-place edit
func (p *Palette) MarkChanged() {
	for i := range p.Entries {
		p.Entries[i].InvalidateCache()
	}
	p.index.invalidate()
}

// Clone deep-copies entries and ancestors; the copy is not registered anywhere
func (p *Palette) Clone() *Palette {
	c := &Palette{
		UUID:       p.UUID,
		Name:       p.Name,
		Imported:   p.Imported,
		ImportedID: p.ImportedID,
		CreatedID:  p.CreatedID,
		Standalone: p.Standalone,
		Ancestors:  p.Ancestors.Clone(),
	}
	if p.Entries != nil {
		c.Entries = make([]Entry, len(p.Entries))
		for i := range p.Entries {
			c.Entries[i] = p.Entries[i].Clone()
		}
	}
	return c
}

// assignPieceIDs gives pieces identities from the owning registry
// fresh replaces existing ids too, used when content was cloned
func (p *Palette) assignPieceIDs(m *Mapping, fresh bool) {
	if p.ids == nil {
		return
	}
	for _, pc := range m.Pieces {
		if fresh || pc.UUID == core.InvalidUUID {
			pc.UUID = p.ids.Next()
		}
	}
}
