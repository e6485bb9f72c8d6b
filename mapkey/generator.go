package mapkey

// AutoKeys is the ordered candidate set used for freshly created entries
// Wall and floor glyphs come first since they are what authors reach for most
const AutoKeys = "#.+-|=_,:;'\"`~*^%&$@!?<>()[]{}/\\0123456789" +
	"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generator hands out the first candidate key that has not been blacklisted
type Generator struct {
	opts []Key
}

// NewGenerator creates a generator over AutoKeys
func NewGenerator() *Generator {
	return NewGeneratorFrom(AutoKeys)
}

// NewGeneratorFrom creates a generator over the code points of candidates, in order
// Duplicate code points are collapsed
func NewGeneratorFrom(candidates string) *Generator {
	g := &Generator{opts: make([]Key, 0, len(candidates))}
	seen := make(map[Key]bool, len(candidates))
	for _, r := range candidates {
		k := Key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		g.opts = append(g.opts, k)
	}
	return g
}

// Blacklist removes a key from the candidate set
func (g *Generator) Blacklist(k Key) {
	out := g.opts[:0]
	for _, opt := range g.opts {
		if opt != k {
			out = append(out, opt)
		}
	}
	g.opts = out
}

// Next returns the first remaining candidate without consuming it
// Falls back to Default once every candidate is taken
func (g *Generator) Next() Key {
	if len(g.opts) == 0 {
		return Default
	}
	return g.opts[0]
}

// Remaining returns how many candidates are still free
func (g *Generator) Remaining() int {
	return len(g.opts)
}
