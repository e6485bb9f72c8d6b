package piece

import (
	"encoding/binary"
	"io"
)

// WriteCanonical writes a stable byte encoding of the piece's kind, flags and payload
// The UUID is left out so structurally equal pieces encode identically
func (p *Piece) WriteCanonical(w io.Writer) {
	var buf [binary.MaxVarintLen64]byte
	putInt := func(v int) {
		n := binary.PutVarint(buf[:], int64(v))
		w.Write(buf[:n])
	}
	putString := func(s string) {
		putInt(len(s))
		io.WriteString(w, s)
	}
	putList := func(l WeightedList) {
		putInt(len(l))
		for _, e := range l {
			putString(e.Value)
			putInt(e.Weight)
		}
	}

	flags := byte(p.kind)
	w.Write([]byte{flags})
	if p.Constrained {
		w.Write([]byte{1})
	} else {
		w.Write([]byte{0})
	}
	putString(p.ID)
	putList(p.Values)
	putList(p.Else)
	putString(p.Text)
	putInt(p.Amount.Min)
	putInt(p.Amount.Max)
	putInt(p.Chance.Min)
	putInt(p.Chance.Max)
}
