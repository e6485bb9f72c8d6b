package core

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Editor colors shared by the palette store and the preview
var (
	ColorDefaultPiece   = tcell.NewRGBColor(18, 18, 18)
	ColorMissingPalette = tcell.NewRGBColor(230, 26, 26)
	ColorSelected       = tcell.NewRGBColor(230, 230, 26)
	ColorHighlighted    = tcell.NewRGBColor(204, 102, 0)
	ColorTreeLine       = tcell.NewRGBColor(80, 80, 100)
)

// ColorHex formats a color as #rrggbb; non-RGB colors format as an empty string
func ColorHex(c tcell.Color) string {
	if c == tcell.ColorDefault || !c.Valid() {
		return ""
	}
	return fmt.Sprintf("#%06x", c.Hex())
}

// ParseColor accepts #rrggbb or a named color, empty means default
func ParseColor(s string) (tcell.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("unrecognized color %q", s)
	}
	return c, nil
}
