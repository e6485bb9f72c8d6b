package toml

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestMarshal_Primitives(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected string
	}{
		{
			name:  "Scalars",
			input: map[string]any{"str": "hello", "int": 42, "bool": true, "float": 3.14},
			expected: `bool = true
float = 3.14
int = 42
str = "hello"`,
		},
		{
			name:  "Quoted Keys",
			input: map[string]any{"123a": 1, "key.dot": 2, "true": 3},
			expected: `"123a" = 1
"key.dot" = 2
"true" = 3`,
		},
		{
			name:     "Inline Arrays",
			input:    map[string]any{"arr": []int{1, 2, 3}},
			expected: `arr = [1, 2, 3]`,
		},
		{
			name:     "Escapes",
			input:    map[string]any{"s": "a\"b\\c\x01"},
			expected: `s = "a\"b\\c\u0001"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Marshal(tc.input)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if got := strings.TrimSpace(string(b)); got != tc.expected {
				t.Errorf("got:\n%s\nwant:\n%s", got, tc.expected)
			}
		})
	}
}

func TestMarshal_TextMarshaler(t *testing.T) {
	type row struct {
		Keys []glyph `toml:"keys"`
		One  glyph   `toml:"one"`
	}
	b, err := Marshal(row{Keys: []glyph{'#', '.'}, One: '~'})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "keys = [\"#\", \".\"]\none = \"~\""
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarshal_OmitEmptyAndSkip(t *testing.T) {
	type cfg struct {
		Name    string `toml:"name"`
		Note    string `toml:"note,omitempty"`
		Hidden  string `toml:"-"`
		Weight  uint8  `toml:"weight,omitempty"`
		private int
	}
	b, err := Marshal(cfg{Name: "x", Hidden: "h", private: 1})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != `name = "x"` {
		t.Errorf("got %q", got)
	}
}

func TestMarshal_ArrayOfTables(t *testing.T) {
	proj := tomlProject{
		Version: 1,
		Palettes: []tomlPalette{
			{ID: "a", Entries: []tomlEntry{{Key: '#', Pieces: []tomlPiece{{Kind: "AltTerrain", Values: []string{"t_wall"}}}}}},
			{ID: "b", Ancestors: [][]string{{"a"}}},
		},
	}
	b, err := Marshal(proj)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		"[[palettes]]\nid = \"a\"",
		"[[palettes.entries]]\nkey = \"#\"",
		"[[palettes.entries.pieces]]\nkind = \"AltTerrain\"\nvalues = [\"t_wall\"]",
		"[[palettes]]\nid = \"b\"\nancestors = [[\"a\"]]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarshal_RootMustBeTable(t *testing.T) {
	if _, err := Marshal(42); err == nil {
		t.Error("scalar root accepted")
	}
	var nilPtr *tomlProject
	if _, err := Marshal(nilPtr); err == nil {
		t.Error("nil pointer accepted")
	}
}

func TestMarshal_DeclarationOrder(t *testing.T) {
	type header struct {
		Zeta  int    `toml:"zeta"`
		Alpha string `toml:"alpha"`
		Mid   bool
	}
	b, err := Marshal(header{Zeta: 1, Alpha: "a", Mid: true})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "zeta = 1\nalpha = \"a\"\nMid = true"
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarshal_Inline(t *testing.T) {
	type point struct {
		X int `toml:"x"`
		Y int `toml:"y"`
	}
	type entry struct {
		Key    glyph       `toml:"key"`
		Origin point       `toml:"origin,inline"`
		Pieces []tomlPiece `toml:"pieces,inline"`
		Empty  []point     `toml:"empty,omitempty,inline"`
	}
	type doc struct {
		Entries []entry `toml:"entries"`
	}
	in := doc{Entries: []entry{{
		Key:    '#',
		Origin: point{X: 1, Y: -2},
		Pieces: []tomlPiece{{Kind: "AltTerrain", Values: []string{"t_wall"}}, {Kind: "Item", Weight: 2}},
	}}}
	b, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `[[entries]]
key = "#"
origin = { x = 1, y = -2 }
pieces = [{ kind = "AltTerrain", values = ["t_wall"] }, { kind = "Item", weight = 2 }]`
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	var back doc
	if err := Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v\n%s", err, b)
	}
	if fmt.Sprint(back) != fmt.Sprint(in) {
		t.Errorf("round trip = %+v, want %+v", back, in)
	}
}

func TestMarshal_QuotedHeaders(t *testing.T) {
	in := map[string]any{
		"tiles.v2": map[string]any{"size": 8},
	}
	b, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != "[\"tiles.v2\"]\nsize = 8" {
		t.Errorf("got %q", got)
	}
}

func TestMarshal_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"nan", map[string]any{"f": math.NaN()}},
		{"inf", map[string]any{"f": math.Inf(1)}},
		{"nil element", map[string]any{"a": []any{1, nil}}},
		{"int map key", map[string]any{"m": map[int]int{1: 1}}},
		{"channel", map[string]any{"c": make(chan int)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Marshal(tt.in); err == nil {
				t.Error("expected error")
			}
		})
	}
}
