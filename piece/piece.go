// Package piece defines the placeable content items that palette mappings hold
//
// A Piece is a closed tagged union: Kind selects the behavior row in the kind
// traits table and decides which payload fields are meaningful.
package piece

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/vi-palette/core"
)

// ErrInvariant marks structural defects that authoring tools must never produce
var ErrInvariant = errors.New("piece invariant violated")

// Piece is one unit of placeable content
type Piece struct {
	UUID core.UUID
	kind Kind

	// Constrained pieces only apply under a mapgen condition and are never replaced
	// by a more specific exclusive piece of the same kind
	Constrained bool

	// ID is the primary object id (terrain, furniture, item group, vehicle...)
	ID string
	// Values holds weighted alternatives (alt kinds, monster types, nested chunks)
	Values WeightedList
	// Else holds fallback alternatives (nested chunks when the check fails)
	Else WeightedList
	// Text carries free-form payload (sign text, zone name, computer name)
	Text   string
	Amount core.IntRange
	Chance core.IntRange
}

// New creates an empty piece of the given kind
// Panics on an undeclared kind since no caller can recover from it
func New(kind Kind) *Piece {
	if !kind.Valid() {
		panic(fmt.Sprintf("piece.New: undeclared kind %d", uint8(kind)))
	}
	return &Piece{
		kind:   kind,
		Amount: core.Single(1),
		Chance: core.Single(100),
	}
}

// NewAlt creates an alternatives piece with a single candidate of weight 1
func NewAlt(kind Kind, value string) *Piece {
	p := New(kind)
	p.Values = WeightedList{{Value: value, Weight: 1}}
	return p
}

// Kind returns the kind fixed at construction
func (p *Piece) Kind() Kind {
	return p.kind
}

// Exclusive reports whether the piece follows replace semantics when merged
func (p *Piece) Exclusive() bool {
	return p.kind.Exclusive()
}

// Clone returns a deep copy that shares nothing with p
func (p *Piece) Clone() *Piece {
	c := *p
	c.Values = p.Values.Clone()
	c.Else = p.Else.Clone()
	return &c
}

// Validate reports structural defects
func (p *Piece) Validate() error {
	if !p.kind.Valid() {
		return fmt.Errorf("%w: undeclared kind %d", ErrInvariant, uint8(p.kind))
	}
	if p.kind.HasAlternatives() && len(p.Values) == 0 {
		return fmt.Errorf("%w: %s piece %d has no alternatives", ErrInvariant, p.kind, p.UUID)
	}
	for i, v := range p.Values {
		if v.Weight < 0 {
			return fmt.Errorf("%w: %s piece %d candidate %d has negative weight", ErrInvariant, p.kind, p.UUID, i)
		}
	}
	return nil
}

// Summary returns "Kind: data", prefixed with "$ " for constrained pieces
func (p *Piece) Summary() string {
	var b strings.Builder
	if p.Constrained {
		b.WriteString("$ ")
	}
	b.WriteString(p.kind.String())
	b.WriteString(": ")
	b.WriteString(p.DataSummary())
	return b.String()
}

// DataSummary returns the payload part of Summary
func (p *Piece) DataSummary() string {
	switch {
	case p.kind.HasAlternatives() || p.kind == KindMonster:
		return formatList(p.Values)
	case p.kind == KindNested:
		if len(p.Else) == 0 {
			return formatList(p.Values)
		}
		return formatList(p.Values) + " else " + formatList(p.Else)
	case p.kind == KindSign || p.kind == KindGraffiti || p.kind == KindComputer || p.kind == KindZone:
		if p.Text != "" {
			return fmt.Sprintf("%q", p.Text)
		}
		return p.ID
	case p.kind == KindItem || p.kind == KindLiquid || p.kind == KindToilet || p.kind == KindGasPump:
		if p.Amount.IsSingle() && p.Amount.Min == 1 {
			return p.ID
		}
		return fmt.Sprintf("%s x%s", p.ID, p.Amount)
	case p.kind == KindIGroup || p.kind == KindMGroup:
		return fmt.Sprintf("%s %s%%", p.ID, p.Chance)
	case p.ID != "":
		return p.ID
	}
	return "-"
}

func formatList(l WeightedList) string {
	switch len(l) {
	case 0:
		return "<none>"
	case 1:
		return l[0].Value
	}
	parts := make([]string, len(l))
	uniform := l.IsUniform()
	for i, e := range l {
		if uniform {
			parts[i] = e.Value
		} else {
			parts[i] = fmt.Sprintf("%s:%d", e.Value, e.Weight)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
