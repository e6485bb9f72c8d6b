package palette

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-palette/core"
	"github.com/lixenwraith/vi-palette/mapkey"
	"github.com/lixenwraith/vi-palette/piece"
)

func TestResolveIdentity(t *testing.T) {
	reg := NewRegistry()
	p := reg.Create("solo")
	mustAdd(t, p, "#", terrain("t_wall"), item("rock"))
	mustAdd(t, p, "_", terrain("t_floor"))

	v := Resolve(reg, p, nil)

	if v.Len() != len(p.Entries) {
		t.Fatalf("Len() = %d, want %d", v.Len(), len(p.Entries))
	}
	for i := range p.Entries {
		src := &p.Entries[i]
		got := v.FindEntry(src.Key)
		if got == nil {
			t.Fatalf("key %q missing from view", src.Key)
		}
		if len(got.Pieces) != src.Mapping.Len() {
			t.Fatalf("key %q: %d pieces, want %d", src.Key, len(got.Pieces), src.Mapping.Len())
		}
		for j, vp := range got.Pieces {
			if vp.Piece != src.Mapping.Pieces[j] {
				t.Errorf("key %q piece %d is not the source piece", src.Key, j)
			}
			if vp.Source != p {
				t.Errorf("key %q piece %d has wrong source", src.Key, j)
			}
		}
	}
	if v.NumPiecesTotal() != p.NumPiecesTotal() {
		t.Errorf("NumPiecesTotal() = %d, want %d", v.NumPiecesTotal(), p.NumPiecesTotal())
	}
}

func TestResolveBaseChildCoexist(t *testing.T) {
	reg, _, child := baseChild(t)

	v := Resolve(reg, child, nil)
	e := v.FindEntry('#')
	if e == nil {
		t.Fatal("'#' missing")
	}
	want := []piece.Kind{piece.KindAltTerrain, piece.KindAltFurniture}
	if got := kindsOf(e); !slices.Equal(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if ref, ok := v.Sprite('#'); !ok || ref != "f_table" {
		t.Errorf("Sprite = %q,%v, want f_table", ref, ok)
	}
	if pair := v.Sprites('#'); pair.Terrain != "t_wall" || pair.Furniture != "f_table" {
		t.Errorf("Sprites = %+v", pair)
	}
	if got := v.Palettes(); len(got) != 2 || got[0].CreatedID != "base" || got[1].CreatedID != "child" {
		t.Errorf("Palettes order wrong: %v", got)
	}
}

func TestResolveOverride(t *testing.T) {
	reg, _, child := baseChild(t)
	mustAdd(t, child, "_", terrain("t_grass"))
	// child overrides the wall terrain as well
	child.FindEntry('#').Mapping.Add(terrain("t_rock"))
	child.MarkChanged()

	v := Resolve(reg, child, nil)
	e := v.FindEntry('#')
	if got := valuesOf(e, piece.KindAltTerrain); !slices.Equal(got, []string{"t_rock"}) {
		t.Fatalf("terrain = %v, want [t_rock]", got)
	}
	if e.CountKind(piece.KindAltTerrain) != 1 {
		t.Errorf("exclusive kind appears %d times", e.CountKind(piece.KindAltTerrain))
	}
}

func TestResolveAccumulation(t *testing.T) {
	reg := NewRegistry()
	base := reg.Create("base")
	mustAdd(t, base, "x", item("rock"))
	child := reg.Create("child")
	child.Ancestors.Add("base")
	mustAdd(t, child, "x", item("stick"))

	v := Resolve(reg, child, nil)
	got := valuesOf(v.FindEntry('x'), piece.KindItem)
	if !slices.Equal(got, []string{"rock", "stick"}) {
		t.Errorf("items = %v, want [rock stick]", got)
	}
}

func TestResolveConstrainedSurvivesReplace(t *testing.T) {
	reg := NewRegistry()
	base := reg.Create("base")
	locked := terrain("t_water")
	locked.Constrained = true
	mustAdd(t, base, "~", locked, terrain("t_dirt"))
	child := reg.Create("child")
	child.Ancestors.Add("base")
	mustAdd(t, child, "~", terrain("t_sand"))

	v := Resolve(reg, child, nil)
	got := valuesOf(v.FindEntry('~'), piece.KindAltTerrain)
	if !slices.Equal(got, []string{"t_water", "t_sand"}) {
		t.Errorf("terrain = %v, want [t_water t_sand]", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	reg, _, child := baseChild(t)
	mustAdd(t, child, "x", item("rock"))

	a := Resolve(reg, child, nil)
	b := Resolve(reg, child, nil)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("two resolves of unchanged input differ")
	}

	child.FindEntry('x').Mapping.Add(item("stick"))
	c := Resolve(reg, child, nil)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("fingerprint did not change after edit")
	}
}

func TestResolveDanglingAncestor(t *testing.T) {
	reg := NewRegistry()
	p := reg.Create("orphan")
	p.Ancestors.Add("nowhere")
	mustAdd(t, p, "#", terrain("t_wall"))

	v := Resolve(reg, p, nil)
	if !slices.Equal(v.Missing(), []string{"nowhere"}) {
		t.Errorf("Missing() = %v", v.Missing())
	}
	if v.Len() != 1 || v.FindEntry('#') == nil {
		t.Error("own entries must still resolve")
	}

	nilLookup := Resolve(nil, p, nil)
	if !slices.Equal(nilLookup.Missing(), []string{"nowhere"}) {
		t.Errorf("nil lookup Missing() = %v", nilLookup.Missing())
	}
}

func TestResolveSwitchSelection(t *testing.T) {
	reg := NewRegistry()
	mustAdd(t, reg.Create("forest"), "_", terrain("t_grass"))
	mustAdd(t, reg.Create("desert"), "_", terrain("t_sand"))
	p := reg.Create("camp")
	p.Ancestors.Add("forest", "desert")

	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{"nil selection picks first", nil, "t_grass"},
		{"explicit first", Selection{p.UUID: {0}}, "t_grass"},
		{"second option", Selection{p.UUID: {1}}, "t_sand"},
		{"out of range clamps to last", Selection{p.UUID: {7}}, "t_sand"},
		{"negative clamps to first", Selection{p.UUID: {-3}}, "t_grass"},
		{"other palette ignored", Selection{p.UUID + 100: {1}}, "t_grass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Resolve(reg, p, tt.sel)
			got := valuesOf(v.FindEntry('_'), piece.KindAltTerrain)
			if !slices.Equal(got, []string{tt.want}) {
				t.Errorf("terrain = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveSelectionNotMutated(t *testing.T) {
	reg, _, child := baseChild(t)
	sel := Selection{child.UUID: {5}}
	Resolve(reg, child, sel)
	if !slices.Equal(sel[child.UUID], []int{5}) || len(sel) != 1 {
		t.Errorf("selection mutated: %v", sel)
	}
}

func TestResolveDiamond(t *testing.T) {
	reg := NewRegistry()
	root := reg.Create("root")
	mustAdd(t, root, "x", item("rock"), terrain("t_floor"))
	left := reg.Create("left")
	left.Ancestors.Add("root")
	right := reg.Create("right")
	right.Ancestors.Add("root")
	top := reg.Create("top")
	top.Ancestors.Add("left")
	top.Ancestors.Add("right")

	v := Resolve(reg, top, nil)
	e := v.FindEntry('x')
	if n := e.CountKind(piece.KindItem); n != 2 {
		t.Errorf("default merge: %d items, want 2", n)
	}
	if n := e.CountKind(piece.KindAltTerrain); n != 1 {
		t.Errorf("default merge: %d terrains, want 1", n)
	}
	if len(v.Palettes()) != 4 {
		t.Errorf("Palettes() lists %d, want 4 unique", len(v.Palettes()))
	}

	d := Resolve(reg, top, nil, DedupeSources())
	if n := d.FindEntry('x').CountKind(piece.KindItem); n != 1 {
		t.Errorf("deduped merge: %d items, want 1", n)
	}
}

func TestResolveCycle(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create("a")
	b := reg.Create("b")
	a.Ancestors.Add("b")
	b.Ancestors.Add("a")
	mustAdd(t, a, "a", item("from_a"))
	mustAdd(t, b, "b", item("from_b"))

	v := Resolve(reg, a, nil)
	if !slices.Equal(v.Cycles(), []string{"a"}) {
		t.Errorf("Cycles() = %v", v.Cycles())
	}
	if v.FindEntry('a') == nil || v.FindEntry('b') == nil {
		t.Error("both palettes should contribute")
	}

	self := reg.Create("self")
	self.Ancestors.Add("self")
	if v := Resolve(reg, self, nil); !slices.Equal(v.Cycles(), []string{"self"}) {
		t.Errorf("self cycle: %v", v.Cycles())
	}
}

func TestResolveMetadataFirstWriter(t *testing.T) {
	reg := NewRegistry()
	base := reg.Create("base")
	e := mustAdd(t, base, "#", terrain("t_wall"))
	e.Name = "wall"
	e.Color = red
	child := reg.Create("child")
	child.Ancestors.Add("base")
	ce := mustAdd(t, child, "#", furniture("f_table"))
	ce.Name = "table"
	ce.Color = tcell.ColorBlue

	v := Resolve(reg, child, nil)
	if got := v.DisplayName('#'); got != "wall" {
		t.Errorf("DisplayName = %q, want wall", got)
	}
	if got := v.Color('#'); got != red {
		t.Errorf("Color = %v, want %v", got, red)
	}
	if got := v.Color('?'); got != tcell.ColorDefault {
		t.Errorf("absent Color = %v", got)
	}
}

func TestResolveNameAndColorClaimedSeparately(t *testing.T) {
	reg := NewRegistry()
	base := reg.Create("base")
	base.NewEntry(MakeMapping("t_wall", "")) // colored, unnamed
	child := reg.Create("child")
	child.Ancestors.Add("base")
	key := base.Entries[0].Key
	ce := mustAdd(t, child, key.String(), furniture("f_table"))
	ce.Name = "table"
	ce.Color = red

	v := Resolve(reg, child, nil)
	if got := v.DisplayName(key); got != "table" {
		t.Errorf("DisplayName = %q, want table", got)
	}
	if got := v.Color(key); got != core.ColorDefaultPiece {
		t.Errorf("Color = %v, want the ancestor's %v", got, core.ColorDefaultPiece)
	}
}

func TestViewDisplayNameFallback(t *testing.T) {
	reg := NewRegistry()
	p := reg.Create("p")
	mustAdd(t, p, "#", terrain("t_wall"), furniture("f_bed"))
	mustAdd(t, p, "_", terrain("t_floor"))
	mustAdd(t, p, "x", item("rock"))

	v := Resolve(reg, p, nil)
	tests := map[mapkey.Key]string{
		'#': "f_bed",
		'_': "t_floor",
		'x': "x",
		'?': "",
	}
	for k, want := range tests {
		if got := v.DisplayName(k); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", k, got, want)
		}
	}
}

func TestViewFinalizeFreezes(t *testing.T) {
	reg, base, _ := baseChild(t)
	v := NewView(reg)
	v.AddPalette(base)
	if v.Finalized() {
		t.Fatal("finalized too early")
	}
	v.Finalize()

	defer func() {
		if recover() == nil {
			t.Error("AddPalette after Finalize should panic")
		}
	}()
	v.AddPalette(base)
}

func TestViewAbsentKey(t *testing.T) {
	reg, _, child := baseChild(t)
	v := Resolve(reg, child, nil)
	if v.FindEntry('?') != nil || v.FindEntry(mapkey.None) != nil {
		t.Error("absent keys must yield nil")
	}
	if _, ok := v.Sprite('?'); ok {
		t.Error("absent key has a sprite")
	}
}

func TestViewIndependentOfLaterEdits(t *testing.T) {
	reg, _, child := baseChild(t)
	v := Resolve(reg, child, nil)
	before := v.Fingerprint()

	mustAdd(t, child, "z", item("late"))
	if v.FindEntry('z') != nil {
		t.Error("view picked up an entry added after resolve")
	}
	if v.Fingerprint() != before {
		t.Error("view content changed after source edit")
	}
}
