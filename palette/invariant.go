package palette

import (
	"log"

	"github.com/lixenwraith/vi-palette/piece"
)

// checkPiece reports structural defects found while merging
// Debug builds panic since a defect means an authoring tool is broken
func (v *View) checkPiece(src *Palette, pc *piece.Piece) {
	err := pc.Validate()
	if err == nil {
		return
	}
	if debugInvariants {
		panic(err)
	}
	v.defects++
	if v.defects == 1 {
		log.Printf("palette %s: %v", src.DisplayName(), err)
	}
}
