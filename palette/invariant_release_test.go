//go:build !debug

package palette

import (
	"io"
	"os"
	"log"
	"testing"

	"github.com/lixenwraith/vi-palette/piece"
)

func TestCheckPieceCountsInReleaseBuilds(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	reg := NewRegistry()
	p := reg.Create("broken")
	mustAdd(t, p, "#", piece.New(piece.KindAltTerrain), piece.New(piece.KindAltFurniture))

	v := Resolve(reg, p, nil)
	if v.Defects() != 2 {
		t.Errorf("Defects = %d, want 2", v.Defects())
	}
	if e := v.FindEntry('#'); e == nil || len(e.Pieces) != 2 {
		t.Error("defective pieces were not merged as-is")
	}
}
