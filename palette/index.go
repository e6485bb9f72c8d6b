package palette

import "github.com/lixenwraith/vi-palette/mapkey"

// entryIndex maps keys to positions in an entry sequence it does not own
// The sequence may be mutated behind its back; lookups detect that and rebuild
type entryIndex struct {
	positions map[mapkey.Key]int
	size      int
	rebuilds  int
}

// invalidate forces the next lookup to rebuild
func (ix *entryIndex) invalidate() {
	ix.positions = nil
	ix.size = -1
}

// rebuild scans the whole sequence once; on duplicate keys the last position wins
func (ix *entryIndex) rebuild(n int, keyAt func(int) mapkey.Key) {
	if ix.positions == nil {
		ix.positions = make(map[mapkey.Key]int, n)
	} else {
		clear(ix.positions)
	}
	for i := 0; i < n; i++ {
		ix.positions[keyAt(i)] = i
	}
	ix.size = n
	ix.rebuilds++
}

// lookup returns the position of key in a sequence of n entries, or -1
// Stale when the recorded size differs from n, the recorded position no longer holds
// key, or a miss turns out to be present (an entry overwritten in place)
func (ix *entryIndex) lookup(key mapkey.Key, n int, keyAt func(int) mapkey.Key) int {
	if !key.Valid() {
		return -1
	}
	fresh := false
	if ix.positions == nil || ix.size != n {
		ix.rebuild(n, keyAt)
		fresh = true
	}
	pos, ok := ix.positions[key]
	if ok && keyAt(pos) == key {
		return pos
	}
	if fresh || (!ok && !contains(key, n, keyAt)) {
		return -1
	}
	ix.rebuild(n, keyAt)
	if pos, ok = ix.positions[key]; !ok {
		return -1
	}
	return pos
}

// contains confirms a miss without touching the map
func contains(key mapkey.Key, n int, keyAt func(int) mapkey.Key) bool {
	for i := 0; i < n; i++ {
		if keyAt(i) == key {
			return true
		}
	}
	return false
}
