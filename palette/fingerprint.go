package palette

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Fingerprint digests the resolved content: keys, metadata and every piece in order
// Piece identities and source palettes do not contribute
func (v *View) Fingerprint() [32]byte {
	h := blake3.New()
	var buf [binary.MaxVarintLen64]byte
	putUvarint := func(x uint64) {
		n := binary.PutUvarint(buf[:], x)
		h.Write(buf[:n])
	}
	putString := func(s string) {
		putUvarint(uint64(len(s)))
		h.WriteString(s)
	}

	putUvarint(uint64(len(v.entries)))
	for i := range v.entries {
		e := &v.entries[i]
		putUvarint(uint64(e.Key))
		putString(e.Name)
		putUvarint(uint64(e.Color))
		putUvarint(uint64(len(e.Pieces)))
		for _, vp := range e.Pieces {
			vp.Piece.WriteCanonical(h)
		}
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
