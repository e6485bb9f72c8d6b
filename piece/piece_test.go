package piece

import (
	"bytes"
	"errors"
	"testing"
)

func TestKindTraitsTableComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range Kinds() {
		name := k.String()
		if name == "" {
			t.Errorf("kind %d has no traits row", uint8(k))
			continue
		}
		if seen[name] {
			t.Errorf("duplicate kind name %q", name)
		}
		seen[name] = true

		back, err := ParseKind(name)
		if err != nil || back != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", name, back, err, k)
		}
	}
	if len(seen) != 30 {
		t.Errorf("expected 30 kinds, got %d", len(seen))
	}
}

func TestExclusiveKinds(t *testing.T) {
	exclusive := map[Kind]bool{
		KindAltTrap:      true,
		KindAltFurniture: true,
		KindAltTerrain:   true,
	}
	for _, k := range Kinds() {
		if k.Exclusive() != exclusive[k] {
			t.Errorf("%s.Exclusive() = %v, want %v", k, k.Exclusive(), exclusive[k])
		}
		if k.Exclusive() && !k.HasAlternatives() {
			t.Errorf("exclusive kind %s must carry alternatives", k)
		}
	}
	if Kind(200).Exclusive() {
		t.Error("undeclared kind must not be exclusive")
	}
}

func TestAvailableAsMapping(t *testing.T) {
	for _, k := range []Kind{KindUnknown, KindTerrain, KindFurniture, KindTrap, KindLoot} {
		if k.AvailableAsMapping() {
			t.Errorf("%s should not be available as mapping", k)
		}
	}
	for _, k := range []Kind{KindAltTerrain, KindItem, KindNested, KindRemoveAll} {
		if !k.AvailableAsMapping() {
			t.Errorf("%s should be available as mapping", k)
		}
	}
}

func TestParseKindUnknown(t *testing.T) {
	if _, err := ParseKind("Teleporter"); err == nil {
		t.Error("expected error for unknown kind name")
	}
	var k Kind
	if err := k.UnmarshalText([]byte("AltTerrain")); err != nil || k != KindAltTerrain {
		t.Errorf("UnmarshalText = %v, %v", k, err)
	}
}

func TestNewPanicsOnUndeclaredKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for undeclared kind")
		}
	}()
	New(kindCount)
}

func TestCloneIsDeep(t *testing.T) {
	src := NewAlt(KindAltTerrain, "t_wall")
	src.Else = WeightedList{{Value: "t_floor", Weight: 2}}
	src.UUID = 7

	c := src.Clone()
	c.Values[0].Value = "t_dirt"
	c.Else[0].Weight = 9

	if src.Values[0].Value != "t_wall" {
		t.Error("clone shares Values backing array with source")
	}
	if src.Else[0].Weight != 2 {
		t.Error("clone shares Else backing array with source")
	}
	if c.Kind() != KindAltTerrain || c.UUID != 7 {
		t.Errorf("clone lost identity fields: %v %d", c.Kind(), c.UUID)
	}
}

func TestValidate(t *testing.T) {
	if err := NewAlt(KindAltFurniture, "f_table").Validate(); err != nil {
		t.Errorf("valid piece rejected: %v", err)
	}

	empty := New(KindAltTerrain)
	if err := empty.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("alt piece without alternatives: err = %v, want ErrInvariant", err)
	}

	neg := NewAlt(KindAltTrap, "tr_beartrap")
	neg.Values[0].Weight = -1
	if err := neg.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("negative weight: err = %v, want ErrInvariant", err)
	}

	if err := New(KindItem).Validate(); err != nil {
		t.Errorf("item without payload is allowed: %v", err)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		p    *Piece
		want string
	}{
		{"alt single", NewAlt(KindAltTerrain, "t_wall"), "AltTerrain: t_wall"},
		{"alt weighted", func() *Piece {
			p := New(KindAltFurniture)
			p.Values = WeightedList{{"f_chair", 1}, {"f_table", 3}}
			return p
		}(), "AltFurniture: [f_chair:1, f_table:3]"},
		{"alt uniform", func() *Piece {
			p := New(KindAltFurniture)
			p.Values = WeightedList{{"f_chair", 2}, {"f_table", 2}}
			return p
		}(), "AltFurniture: [f_chair, f_table]"},
		{"constrained", func() *Piece {
			p := NewAlt(KindAltTrap, "tr_landmine")
			p.Constrained = true
			return p
		}(), "$ AltTrap: tr_landmine"},
		{"item amount", func() *Piece {
			p := New(KindItem)
			p.ID = "rock"
			p.Amount.Max = 3
			return p
		}(), "Item: rock x1-3"},
		{"sign text", func() *Piece {
			p := New(KindSign)
			p.Text = "Keep out"
			return p
		}(), `Sign: "Keep out"`},
		{"empty", New(KindRemoveAll), "RemoveAll: -"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCanonicalIgnoresUUID(t *testing.T) {
	a := NewAlt(KindAltTerrain, "t_wall")
	a.UUID = 1
	b := a.Clone()
	b.UUID = 2

	var ba, bb bytes.Buffer
	a.WriteCanonical(&ba)
	b.WriteCanonical(&bb)
	if !bytes.Equal(ba.Bytes(), bb.Bytes()) {
		t.Error("structurally equal pieces encode differently")
	}

	b.Constrained = true
	bb.Reset()
	b.WriteCanonical(&bb)
	if bytes.Equal(ba.Bytes(), bb.Bytes()) {
		t.Error("constraint flag not reflected in canonical encoding")
	}
}

func TestWeightedList(t *testing.T) {
	var empty WeightedList
	if _, ok := empty.First(); ok {
		t.Error("empty list has no first value")
	}
	if empty.IsUniform() {
		t.Error("empty list is not uniform")
	}
	if empty.Clone() != nil {
		t.Error("clone of nil list should stay nil")
	}

	null := WeightedList{{Value: "", Weight: 1}}
	if _, ok := null.First(); ok {
		t.Error("null first value should report absent")
	}

	l := WeightedList{{"a", 1}, {"b", 4}}
	if v, ok := l.First(); !ok || v != "a" {
		t.Errorf("First() = %q, %v", v, ok)
	}
	if l.TotalWeight() != 5 {
		t.Errorf("TotalWeight() = %d", l.TotalWeight())
	}
}
