// Package project loads and saves palette projects.
//
// A project document is format-neutral; the codec is picked from the file extension
// through the registry package. Documents may include other documents.
package project

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/mapkey"
	"github.com/lixenwraith/vi-palette/palette"
	"github.com/lixenwraith/vi-palette/piece"
)

// DocumentVersion is written into every saved document
const DocumentVersion = 1

var (
	// ErrUnknownFormat is returned when no codec handles a file or format name
	ErrUnknownFormat = errors.New("unknown project format")
	// ErrInvalidDocument is returned for documents that decode but do not describe a valid project
	ErrInvalidDocument = errors.New("invalid project document")
)

// Document is the serialized form of a palette project
type Document struct {
	Version  int          `toml:"version" yaml:"version" json:"version"`
	NextUUID uint64       `toml:"next_uuid,omitempty" yaml:"next_uuid,omitempty" json:"next_uuid,omitempty"`
	Include  []string     `toml:"include,omitempty" yaml:"include,omitempty" json:"include,omitempty"`
	Palettes []PaletteDoc `toml:"palettes,omitempty" yaml:"palettes,omitempty" json:"palettes,omitempty"`
}

// PaletteDoc is one palette; ID is the imported id when Imported is set, the created id otherwise
type PaletteDoc struct {
	UUID       uint64     `toml:"uuid,omitempty" yaml:"uuid,omitempty" json:"uuid,omitempty"`
	ID         string     `toml:"id" yaml:"id" json:"id"`
	Name       string     `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Imported   bool       `toml:"imported,omitempty" yaml:"imported,omitempty" json:"imported,omitempty"`
	Standalone bool       `toml:"standalone,omitempty" yaml:"standalone,omitempty" json:"standalone,omitempty"`
	Ancestors  [][]string `toml:"ancestors,omitempty" yaml:"ancestors,omitempty" json:"ancestors,omitempty"`
	Entries    []EntryDoc `toml:"entries,omitempty" yaml:"entries,omitempty" json:"entries,omitempty"`
}

// EntryDoc is one key; Color is #rrggbb or a color name, empty for the terminal default
type EntryDoc struct {
	Key    mapkey.Key `toml:"key" yaml:"key" json:"key"`
	Name   string     `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Color  string     `toml:"color,omitempty" yaml:"color,omitempty" json:"color,omitempty"`
	Pieces []PieceDoc `toml:"pieces,omitempty,inline" yaml:"pieces,omitempty" json:"pieces,omitempty"`
}

// PieceDoc is one content item. Weights parallel Values; omitted weights mean 1 each
// Amount and Chance are omitted at their defaults (1 and 100)
type PieceDoc struct {
	UUID        uint64         `toml:"uuid,omitempty" yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Kind        piece.Kind     `toml:"kind" yaml:"kind" json:"kind"`
	Constrained bool           `toml:"constrained,omitempty" yaml:"constrained,omitempty" json:"constrained,omitempty"`
	ID          string         `toml:"id,omitempty" yaml:"id,omitempty" json:"id,omitempty"`
	Text        string         `toml:"text,omitempty" yaml:"text,omitempty" json:"text,omitempty"`
	Values      []string       `toml:"values,omitempty" yaml:"values,omitempty" json:"values,omitempty"`
	Weights     []int          `toml:"weights,omitempty" yaml:"weights,omitempty" json:"weights,omitempty"`
	Else        []string       `toml:"else,omitempty" yaml:"else,omitempty" json:"else,omitempty"`
	ElseWeights []int          `toml:"else_weights,omitempty" yaml:"else_weights,omitempty" json:"else_weights,omitempty"`
	Amount      *core.IntRange `toml:"amount,omitempty" yaml:"amount,omitempty" json:"amount,omitempty"`
	Chance      *core.IntRange `toml:"chance,omitempty" yaml:"chance,omitempty" json:"chance,omitempty"`
}

// Build converts a document into a registry
// Stored identities are kept unless another palette or piece already holds them,
// and the registry's generator is advanced past all of them
func Build(doc Document) (*palette.Registry, error) {
	reg := palette.NewRegistry()
	ids := reg.IDs()
	ids.Observe(core.UUID(doc.NextUUID))
	for _, pd := range doc.Palettes {
		ids.Observe(core.UUID(pd.UUID))
		for _, ed := range pd.Entries {
			for _, pcd := range ed.Pieces {
				ids.Observe(core.UUID(pcd.UUID))
			}
		}
	}

	for i, pd := range doc.Palettes {
		p, err := buildPalette(pd)
		if err != nil {
			return nil, fmt.Errorf("palette %d (%s): %w", i, pd.ID, err)
		}
		reg.Add(p)
	}
	return reg, nil
}

func buildPalette(pd PaletteDoc) (*palette.Palette, error) {
	var p *palette.Palette
	if pd.Imported {
		p = palette.NewImported(pd.ID)
	} else {
		p = palette.New(pd.ID)
	}
	p.UUID = core.UUID(pd.UUID)
	p.Name = pd.Name
	p.Standalone = pd.Standalone
	for _, opts := range pd.Ancestors {
		p.Ancestors.Add(opts...)
	}

	for _, ed := range pd.Entries {
		color, err := core.ParseColor(ed.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrInvalidDocument, ed.Key, err)
		}
		var m palette.Mapping
		for j, pcd := range ed.Pieces {
			pc, err := buildPiece(pcd)
			if err != nil {
				return nil, fmt.Errorf("key %q piece %d: %w", ed.Key, j, err)
			}
			m.Add(pc)
		}
		e := palette.Entry{Key: ed.Key, Name: ed.Name, Color: color, Mapping: m}
		if _, err := p.AddEntry(e); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return p, nil
}

func buildPiece(pcd PieceDoc) (*piece.Piece, error) {
	if !pcd.Kind.Valid() {
		return nil, fmt.Errorf("%w: undeclared kind %d", ErrInvalidDocument, uint8(pcd.Kind))
	}
	pc := piece.New(pcd.Kind)
	pc.UUID = core.UUID(pcd.UUID)
	pc.Constrained = pcd.Constrained
	pc.ID = pcd.ID
	pc.Text = pcd.Text
	var err error
	if pc.Values, err = weightedList(pcd.Values, pcd.Weights); err != nil {
		return nil, err
	}
	if pc.Else, err = weightedList(pcd.Else, pcd.ElseWeights); err != nil {
		return nil, err
	}
	if pcd.Amount != nil {
		pc.Amount = *pcd.Amount
	}
	if pcd.Chance != nil {
		pc.Chance = *pcd.Chance
	}
	return pc, nil
}

func weightedList(values []string, weights []int) (piece.WeightedList, error) {
	if len(values) == 0 {
		if len(weights) != 0 {
			return nil, fmt.Errorf("%w: weights without values", ErrInvalidDocument)
		}
		return nil, nil
	}
	if len(weights) != 0 && len(weights) != len(values) {
		return nil, fmt.Errorf("%w: %d weights for %d values", ErrInvalidDocument, len(weights), len(values))
	}
	l := make(piece.WeightedList, len(values))
	for i, v := range values {
		l[i] = piece.Weighted{Value: v, Weight: 1}
		if len(weights) != 0 {
			l[i].Weight = weights[i]
		}
	}
	return l, nil
}

// Export converts every palette of reg into a document, ancestors included
func Export(reg *palette.Registry) Document {
	doc := Document{
		Version:  DocumentVersion,
		NextUUID: uint64(reg.IDs().Last()),
	}
	for _, p := range reg.All() {
		pd := PaletteDoc{
			UUID:       uint64(p.UUID),
			ID:         p.Identifier(),
			Name:       p.Name,
			Imported:   p.Imported,
			Standalone: p.Standalone,
		}
		for _, sw := range p.Ancestors.Switches {
			pd.Ancestors = append(pd.Ancestors, append([]string(nil), sw.Options...))
		}
		for i := range p.Entries {
			e := &p.Entries[i]
			pd.Entries = append(pd.Entries, entryDoc(e.Key, e.Name, e.Color, e.Mapping.Pieces))
		}
		doc.Palettes = append(doc.Palettes, pd)
	}
	return doc
}

// ExportResolved flattens a view into a single standalone palette named id, with no ancestors
// Piece identities are dropped since resolved content may repeat a source piece
func ExportResolved(v *palette.View, id string) Document {
	pd := PaletteDoc{ID: id, Standalone: true}
	for _, e := range v.Entries() {
		pieces := make([]*piece.Piece, len(e.Pieces))
		for i, vp := range e.Pieces {
			pieces[i] = vp.Piece
		}
		ed := entryDoc(e.Key, e.Name, e.Color, pieces)
		for i := range ed.Pieces {
			ed.Pieces[i].UUID = 0
		}
		pd.Entries = append(pd.Entries, ed)
	}
	return Document{Version: DocumentVersion, Palettes: []PaletteDoc{pd}}
}

func entryDoc(key mapkey.Key, name string, color tcell.Color, pieces []*piece.Piece) EntryDoc {
	ed := EntryDoc{Key: key, Name: name, Color: core.ColorHex(color)}
	for _, pc := range pieces {
		ed.Pieces = append(ed.Pieces, pieceDoc(pc))
	}
	return ed
}

func pieceDoc(pc *piece.Piece) PieceDoc {
	pcd := PieceDoc{
		UUID:        uint64(pc.UUID),
		Kind:        pc.Kind(),
		Constrained: pc.Constrained,
		ID:          pc.ID,
		Text:        pc.Text,
	}
	pcd.Values, pcd.Weights = splitList(pc.Values)
	pcd.Else, pcd.ElseWeights = splitList(pc.Else)
	if pc.Amount != core.Single(1) {
		amount := pc.Amount
		pcd.Amount = &amount
	}
	if pc.Chance != core.Single(100) {
		chance := pc.Chance
		pcd.Chance = &chance
	}
	return pcd
}

// splitList drops weights when every candidate has weight 1
func splitList(l piece.WeightedList) ([]string, []int) {
	if len(l) == 0 {
		return nil, nil
	}
	values := make([]string, len(l))
	weights := make([]int, len(l))
	allOne := true
	for i, w := range l {
		values[i] = w.Value
		weights[i] = w.Weight
		if w.Weight != 1 {
			allOne = false
		}
	}
	if allOne {
		weights = nil
	}
	return values, weights
}
