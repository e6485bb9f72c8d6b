package palette

import (
	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/piece"
)

// Mapping is the ordered bag of pieces attached to one key
// The mapping owns its pieces; copies must go through Clone
type Mapping struct {
	Pieces []*piece.Piece
}

// MakeMapping builds the common terrain+furniture mapping
// Empty ids are skipped
func MakeMapping(terrain, furniture string) Mapping {
	var m Mapping
	if terrain != "" {
		m.Pieces = append(m.Pieces, piece.NewAlt(piece.KindAltTerrain, terrain))
	}
	if furniture != "" {
		m.Pieces = append(m.Pieces, piece.NewAlt(piece.KindAltFurniture, furniture))
	}
	return m
}

// Clone deep-copies every piece
func (m Mapping) Clone() Mapping {
	if m.Pieces == nil {
		return Mapping{}
	}
	out := Mapping{Pieces: make([]*piece.Piece, len(m.Pieces))}
	for i, p := range m.Pieces {
		out.Pieces[i] = p.Clone()
	}
	return out
}

// Add appends a piece
func (m *Mapping) Add(p *piece.Piece) {
	m.Pieces = append(m.Pieces, p)
}

// Len returns the number of pieces
func (m Mapping) Len() int {
	return len(m.Pieces)
}

// HasKind reports whether any piece has the given kind
func (m Mapping) HasKind(k piece.Kind) bool {
	return m.FirstOfKind(k) != nil
}

// FirstOfKind returns the first piece of the given kind, nil if none
func (m Mapping) FirstOfKind(k piece.Kind) *piece.Piece {
	for _, p := range m.Pieces {
		if p.Kind() == k {
			return p
		}
	}
	return nil
}

// Find returns the piece with the given identity, nil if none
func (m Mapping) Find(id core.UUID) *piece.Piece {
	for _, p := range m.Pieces {
		if p.UUID == id {
			return p
		}
	}
	return nil
}
