package palette

import (
	"slices"

	"github.com/lixenwraith/vi-palette/core"
)

// Lookup resolves ancestor identifiers to palettes
// A nil result is a normal outcome: the reference is dangling
type Lookup interface {
	FindByString(id string) *Palette
}

// Registry is the project-wide ordered collection of palettes
type Registry struct {
	palettes []*Palette
	ids      core.UUIDGenerator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// IDs exposes the identity generator shared by every palette in the registry
func (r *Registry) IDs() *core.UUIDGenerator {
	return &r.ids
}

// Add registers p, assigning identities to it and to its pieces where missing or
// already used elsewhere in the registry
func (r *Registry) Add(p *Palette) *Palette {
	r.ids.Observe(p.UUID)
	for i := range p.Entries {
		for _, pc := range p.Entries[i].Mapping.Pieces {
			r.ids.Observe(pc.UUID)
		}
	}

	taken := r.usedIDs()
	claim := func(id core.UUID) core.UUID {
		if _, dup := taken[id]; dup || id == core.InvalidUUID {
			id = r.ids.Next()
		}
		taken[id] = struct{}{}
		return id
	}
	p.UUID = claim(p.UUID)
	for i := range p.Entries {
		for _, pc := range p.Entries[i].Mapping.Pieces {
			pc.UUID = claim(pc.UUID)
		}
	}
	p.ids = &r.ids
	r.palettes = append(r.palettes, p)
	return p
}

// usedIDs collects every palette and piece identity already registered
func (r *Registry) usedIDs() map[core.UUID]struct{} {
	used := make(map[core.UUID]struct{})
	for _, p := range r.palettes {
		used[p.UUID] = struct{}{}
		for i := range p.Entries {
			for _, pc := range p.Entries[i].Mapping.Pieces {
				used[pc.UUID] = struct{}{}
			}
		}
	}
	return used
}

// Create registers a new locally created palette
func (r *Registry) Create(createdID string) *Palette {
	return r.Add(New(createdID))
}

// Import registers a new palette addressed by an imported id
// Filling its entries is the importer's job
func (r *Registry) Import(importedID string) *Palette {
	p := r.Add(NewImported(importedID))
	p.Name = importedID
	return p
}

// Get returns the palette with the given identity, nil if none
func (r *Registry) Get(id core.UUID) *Palette {
	for _, p := range r.palettes {
		if p.UUID == id {
			return p
		}
	}
	return nil
}

// FindByString resolves an identifier across both id spaces: imported palettes
// by ImportedID, created palettes by CreatedID. Registry order breaks ties
func (r *Registry) FindByString(id string) *Palette {
	if id == "" {
		return nil
	}
	for _, p := range r.palettes {
		if p.Imported && p.ImportedID == id {
			return p
		}
		if !p.Imported && p.CreatedID == id {
			return p
		}
	}
	return nil
}

// All returns the registered palettes in order; the slice must not be modified
func (r *Registry) All() []*Palette {
	return r.palettes
}

// Len returns the number of palettes
func (r *Registry) Len() int {
	return len(r.palettes)
}

// Remove drops the palette with the given identity
// References to its identifier from other palettes become dangling
func (r *Registry) Remove(id core.UUID) bool {
	i := slices.IndexFunc(r.palettes, func(p *Palette) bool { return p.UUID == id })
	if i < 0 {
		return false
	}
	r.palettes[i].ids = nil
	r.palettes = slices.Delete(r.palettes, i, i+1)
	return true
}

// Duplicate inserts a deep copy right after the source, with fresh identities
func (r *Registry) Duplicate(id core.UUID) *Palette {
	i := slices.IndexFunc(r.palettes, func(p *Palette) bool { return p.UUID == id })
	if i < 0 {
		return nil
	}
	c := r.palettes[i].Clone()
	c.UUID = r.ids.Next()
	c.ids = &r.ids
	for j := range c.Entries {
		c.assignPieceIDs(&c.Entries[j].Mapping, true)
	}
	r.palettes = slices.Insert(r.palettes, i+1, c)
	return c
}
