package mapkey

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Key
		wantErr bool
	}{
		{"ascii", "#", '#', false},
		{"dot", ".", Default, false},
		{"multibyte", "▒", '▒', false},
		{"empty", "", None, true},
		{"two chars", "ab", None, true},
		{"invalid utf8", "\xff", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyText(t *testing.T) {
	k := MustParse("▒")
	text, err := k.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "▒" {
		t.Errorf("MarshalText = %q", text)
	}

	var back Key
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if back != k {
		t.Errorf("round trip got %q, want %q", back, k)
	}

	if _, err := None.MarshalText(); err == nil {
		t.Error("zero key should not marshal")
	}
}

func TestAllowsDefaultFill(t *testing.T) {
	for _, k := range []Key{' ', '.'} {
		if !k.AllowsDefaultFill() {
			t.Errorf("%q should allow default fill", k)
		}
	}
	if Key('#').AllowsDefaultFill() {
		t.Error("'#' should not allow default fill")
	}
	if None.Valid() {
		t.Error("zero key must be invalid")
	}
}

func TestGenerator(t *testing.T) {
	g := NewGeneratorFrom("abca")
	if g.Remaining() != 3 {
		t.Fatalf("duplicates should collapse, got %d candidates", g.Remaining())
	}
	if g.Next() != 'a' {
		t.Errorf("Next = %q, want 'a'", g.Next())
	}

	g.Blacklist('a')
	if g.Next() != 'b' {
		t.Errorf("after blacklisting 'a', Next = %q", g.Next())
	}

	g.Blacklist('b')
	g.Blacklist('c')
	if g.Next() != Default {
		t.Errorf("exhausted generator should return Default, got %q", g.Next())
	}
}

func TestDefaultGeneratorStartsWithWall(t *testing.T) {
	g := NewGenerator()
	if g.Next() != '#' {
		t.Errorf("first auto key = %q, want '#'", g.Next())
	}
}
